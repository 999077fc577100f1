package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/zeroonecreation/classify/core"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Data       interface{}      `json:"data,omitempty"`
	Errors     interface{}      `json:"errors,omitempty"`
	Pagination *core.Pagination `json:"pagination,omitempty"`
}

func respond(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, response{Success: true, Data: data})
}

func respondMessage(ctx echo.Context, code int, msg string) error {
	return ctx.JSON(code, response{Success: true, Message: msg})
}

func respondMessageData(ctx echo.Context, code int, msg string, data interface{}) error {
	return ctx.JSON(code, response{Success: true, Message: msg, Data: data})
}

func respondPage(ctx echo.Context, code int, data interface{}, pagination core.Pagination) error {
	return ctx.JSON(code, response{Success: true, Data: data, Pagination: &pagination})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *EmailRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func (r *VerifyCodeRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.Code = core.CleanString(r.Code)
	return core.Validate.Struct(r)
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *ResetPasswordRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}

type EnrollmentCheckRequest struct {
	Email    string `json:"email" validate:"required,email"`
	CourseID string `json:"courseId" validate:"required"`
}

func (r *EnrollmentCheckRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}
