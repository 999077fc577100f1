package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core/admin"
	"github.com/zeroonecreation/classify/core/auth"
	"github.com/zeroonecreation/classify/core/student"
)

type adminApi struct {
	svc        admin.Service
	studentSvc student.Service
	codec      *auth.Codec
}

func registerAdminAPI(
	g *echo.Group,
	adminRequired echo.MiddlewareFunc,
	svc admin.Service,
	studentSvc student.Service,
	codec *auth.Codec,
) {
	api := adminApi{svc: svc, studentSvc: studentSvc, codec: codec}

	ag := g.Group("/admins")
	ag.POST("/login", api.login)

	ag.POST("/logout", api.logout, adminRequired)
	ag.GET("/me", api.me, adminRequired)
	ag.GET("", api.query, adminRequired)
	ag.POST("", api.create, adminRequired)
	ag.GET("/:id", api.retrieve, adminRequired)
	ag.DELETE("/:id", api.destroy, adminRequired)
	ag.POST("/register-students", api.registerStudent, adminRequired)
}

// Handlers

type adminSessionPayload struct {
	Token string      `json:"token"`
	Admin admin.Admin `json:"admin"`
}

func (api *adminApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	adm, err := api.svc.Authenticate(data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := api.codec.Issue(adm.ID, adm.Email, adm.Name)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	setAuthCookie(ctx, token, api.codec.Delta())
	return respond(ctx, http.StatusOK, adminSessionPayload{Token: token, Admin: adm})
}

func (api *adminApi) logout(ctx echo.Context) error {
	clearAuthCookie(ctx)
	return respondMessage(ctx, http.StatusOK, "Logged out successfully.")
}

func (api *adminApi) me(ctx echo.Context) error {
	adm, err := getContextAdmin(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context admin")
	}
	return respond(ctx, http.StatusOK, adm)
}

func (api *adminApi) query(ctx echo.Context) error {
	admins, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying admins")
	}
	return respond(ctx, http.StatusOK, admins)
}

func (api *adminApi) create(ctx echo.Context) error {
	var data admin.NewAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdmin")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}
	adm, err := api.svc.Create(data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, adm)
}

func (api *adminApi) retrieve(ctx echo.Context) error {
	adm, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, adm)
}

func (api *adminApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Admin deleted successfully.")
}

// registerStudent creates a pre-verified student account; no verification
// mail is sent.
func (api *adminApi) registerStudent(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	std, err := api.studentSvc.RegisterByAdmin(data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, std)
}
