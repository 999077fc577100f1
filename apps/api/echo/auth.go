package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core/admin"
	"github.com/zeroonecreation/classify/core/auth"
	"github.com/zeroonecreation/classify/core/student"
)

const (
	authCookieName = "token"

	claimsCtxKey  = "authClaims"
	studentCtxKey = "authStudent"
	adminCtxKey   = "authAdmin"
)

var (
	errTokenMissing = echo.NewHTTPError(http.StatusUnauthorized, "Authentication token missing")
	errTokenInvalid = echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")

	errClaimsNotFoundInCtx  = errors.New("claims object not found in echo.Context")
	errStudentNotFoundInCtx = errors.New("student object not found in echo.Context")
	errAdminNotFoundInCtx   = errors.New("admin object not found in echo.Context")
)

// requestToken extracts the session token; the cookie wins over the
// Authorization header.
func requestToken(ctx echo.Context) (string, error) {
	if cookie, err := ctx.Cookie(authCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimPrefix(header, "Bearer "); token != "" {
			return token, nil
		}
	}
	return "", auth.ErrMissingToken
}

// sessionMiddleware authenticates a student session. The identity is
// re-fetched on every request so a deleted account fails like a bad token.
func sessionMiddleware(codec *auth.Codec, svc student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := requestToken(ctx)
			if err != nil {
				return errTokenMissing
			}
			claims, err := codec.Verify(token)
			if err != nil {
				return errTokenInvalid
			}
			std, err := svc.GetByID(claims.Subject)
			if err != nil {
				return errTokenInvalid
			}
			ctx.Set(claimsCtxKey, claims)
			ctx.Set(studentCtxKey, std)
			return next(ctx)
		}
	}
}

// adminMiddleware authenticates an admin session.
func adminMiddleware(codec *auth.Codec, svc admin.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := requestToken(ctx)
			if err != nil {
				return errTokenMissing
			}
			claims, err := codec.Verify(token)
			if err != nil {
				return errTokenInvalid
			}
			adm, err := svc.GetByID(claims.Subject)
			if err != nil {
				return errTokenInvalid
			}
			ctx.Set(claimsCtxKey, claims)
			ctx.Set(adminCtxKey, adm)
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (*auth.Claims, error) {
	if claims, ok := ctx.Get(claimsCtxKey).(*auth.Claims); ok {
		return claims, nil
	}
	return nil, errClaimsNotFoundInCtx
}

func getContextStudent(ctx echo.Context) (student.Student, error) {
	if std, ok := ctx.Get(studentCtxKey).(student.Student); ok {
		return std, nil
	}
	return student.Student{}, errStudentNotFoundInCtx
}

func getContextAdmin(ctx echo.Context) (admin.Admin, error) {
	if adm, ok := ctx.Get(adminCtxKey).(admin.Admin); ok {
		return adm, nil
	}
	return admin.Admin{}, errAdminNotFoundInCtx
}

// setAuthCookie installs the session cookie. SameSite=None as the browser
// front end is served from a different origin.
func setAuthCookie(ctx echo.Context, token string, maxAge time.Duration) {
	ctx.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearAuthCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
