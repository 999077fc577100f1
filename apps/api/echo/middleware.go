package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPages may be visited without a session cookie.
var publicPages = map[string]bool{
	"/login":   true,
	"/sign-up": true,
}

// pageGuard redirects browser page requests based on the presence of the
// session cookie. API routes authenticate per group and are left alone;
// the cookie is not verified here, a stale one fails at the first API call.
func pageGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			path := ctx.Request().URL.Path
			if strings.HasPrefix(path, "/api") {
				return next(ctx)
			}

			cookie, err := ctx.Cookie(authCookieName)
			hasSession := err == nil && cookie.Value != ""

			if hasSession {
				if path == "/" {
					return ctx.Redirect(http.StatusTemporaryRedirect, "/dashboard")
				}
				return next(ctx)
			}
			if publicPages[path] {
				return next(ctx)
			}
			return ctx.Redirect(http.StatusTemporaryRedirect, "/login")
		}
	}
}
