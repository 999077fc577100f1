package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/auth"
	"github.com/zeroonecreation/classify/core/student"
)

type studentApi struct {
	svc   student.Service
	codec *auth.Codec
}

func registerStudentAPI(
	g *echo.Group,
	sessionRequired echo.MiddlewareFunc,
	adminRequired echo.MiddlewareFunc,
	svc student.Service,
	codec *auth.Codec,
) {
	api := studentApi{svc: svc, codec: codec}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout, sessionRequired)
	ag.GET("/me", api.me, sessionRequired)
	ag.POST("/forgot-password/send-mail", api.sendResetCode)
	ag.POST("/forgot-password/verify-code", api.verifyResetCode)
	ag.POST("/forgot-password", api.resetPassword)

	sg := g.Group("/students")
	sg.POST("/register", api.register)
	sg.POST("/verify", api.verify)
	sg.POST("/resend-verification-mail", api.resendVerification)

	// admin endpoints
	sg.GET("", api.query, adminRequired)
	sg.GET("/:id", api.retrieve, adminRequired)
	sg.PUT("/:id", api.update, adminRequired)
	sg.DELETE("/:id", api.destroy, adminRequired)
}

// Handlers

type sessionPayload struct {
	Token   string          `json:"token"`
	Student student.Student `json:"student"`
}

func (api *studentApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	std, err := api.svc.Authenticate(data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := api.codec.Issue(std.ID, std.Email, std.FullName)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}
	if err = api.svc.SetSessionToken(std.ID, token); err != nil {
		return errors.Wrap(err, "recording session")
	}
	std.IsLoggingIn = true

	setAuthCookie(ctx, token, api.codec.Delta())
	return respond(ctx, http.StatusOK, sessionPayload{Token: token, Student: std})
}

func (api *studentApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err = api.svc.ClearSession(claims.Subject); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	clearAuthCookie(ctx)
	return respondMessage(ctx, http.StatusOK, "Logged out successfully.")
}

func (api *studentApi) me(ctx echo.Context) error {
	std, err := getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context student")
	}
	return respond(ctx, http.StatusOK, std)
}

func (api *studentApi) sendResetCode(ctx echo.Context) error {
	var data EmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.svc.RequestPasswordReset(data.Email); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Password reset code sent to your email address.")
}

func (api *studentApi) verifyResetCode(ctx echo.Context) error {
	var data VerifyCodeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyCodeRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.svc.VerifyResetCode(data.Email, data.Code); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Code verified successfully.")
}

func (api *studentApi) resetPassword(ctx echo.Context) error {
	var data ResetPasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPasswordRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if _, err := api.svc.ResetPassword(data.Email, data.Password); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Password reset successfully.")
}

func (api *studentApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	std, err := api.svc.Register(data)
	if err != nil {
		return err
	}
	return respondMessageData(ctx, http.StatusCreated, "Verification code sent to your email address.", std)
}

func (api *studentApi) verify(ctx echo.Context) error {
	var data VerifyCodeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyCodeRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	std, err := api.svc.Verify(data.Email, data.Code)
	if err != nil {
		return err
	}
	return respondMessageData(ctx, http.StatusOK, "Email verified successfully.", std)
}

func (api *studentApi) resendVerification(ctx echo.Context) error {
	var data EmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.svc.ResendVerification(data.Email); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Verification code sent to your email address.")
}

func (api *studentApi) query(ctx echo.Context) error {
	var filter student.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	var pf core.PageFilter
	if err := ctx.Bind(&pf); err != nil {
		return errors.Wrap(err, "binding to PageFilter")
	}
	pf.Clean()

	students, pagination, err := api.svc.Query(filter, pf)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return respondPage(ctx, http.StatusOK, students, pagination)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	std, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err = data.Validate(std); err != nil {
		return err
	}

	std, err = api.svc.Update(id, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.SoftDelete(ctx.Param("id")); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Student deleted successfully.")
}
