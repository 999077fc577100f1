package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/admin"
	"github.com/zeroonecreation/classify/core/course"
	"github.com/zeroonecreation/classify/core/payment"
	"github.com/zeroonecreation/classify/core/slider"
	"github.com/zeroonecreation/classify/core/student"
	mediasvc "github.com/zeroonecreation/classify/services/media"
)

// domainStatus maps well-known service errors to their HTTP status.
var domainStatus = map[error]int{
	student.ErrNotFound:        http.StatusNotFound,
	student.ErrNotVerified:     http.StatusBadRequest,
	student.ErrInvalidPassword: http.StatusUnauthorized,
	student.ErrInvalidCode:     http.StatusBadRequest,
	student.ErrAlreadyEnrolled: http.StatusBadRequest,

	admin.ErrNotFound:           http.StatusNotFound,
	admin.ErrInvalidCredentials: http.StatusUnauthorized,

	course.ErrNotFound:        http.StatusNotFound,
	course.ErrSubjectNotFound: http.StatusNotFound,
	course.ErrChapterNotFound: http.StatusNotFound,
	course.ErrVideoNotFound:   http.StatusNotFound,
	course.ErrNoLiveVideo:     http.StatusNotFound,

	payment.ErrNotFound: http.StatusNotFound,
	slider.ErrNotFound:  http.StatusNotFound,

	mediasvc.ErrTooLarge:        http.StatusBadRequest,
	mediasvc.ErrUnsupportedType: http.StatusBadRequest,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		res := response{Success: false}
		var code int

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				res.Message = msg
			} else {
				res.Message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			res.Message = "Invalid input"
			res.Errors = fldErrs
		case *core.ValidationError:
			code = http.StatusBadRequest
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				res.Message = "Invalid input"
				res.Errors = fldErrs
			} else {
				res.Message = origErr.Error()
			}
		default:
			if status, ok := domainStatus[origErr]; ok {
				code = status
				res.Message = origErr.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			res.Message = http.StatusText(code)

			logArgs := []interface{}{errors.Wrap(err, res.Message)}
			if std, cErr := getContextStudent(ctx); cErr == nil {
				logArgs = append(logArgs, std)
			}
			logger.Error(res.Message, logArgs...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			res.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
