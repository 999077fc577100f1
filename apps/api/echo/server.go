package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/admin"
	"github.com/zeroonecreation/classify/core/auth"
	"github.com/zeroonecreation/classify/core/course"
	"github.com/zeroonecreation/classify/core/payment"
	"github.com/zeroonecreation/classify/core/slider"
	"github.com/zeroonecreation/classify/core/student"
	chatsvc "github.com/zeroonecreation/classify/services/chat"
	mediasvc "github.com/zeroonecreation/classify/services/media"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Codec      *auth.Codec
		AdminSvc   admin.Service
		StudentSvc student.Service
		CourseSvc  course.Service
		PaymentSvc payment.Service
		SliderSvc  slider.Service
		MediaSvc   mediasvc.Service
		Hub        *chatsvc.Hub

		DisableReqLogs bool
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Pre(pageGuard())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	api := s.app.Group("/api")
	api.GET("/health-check", healthCheck)

	sessionRequired := sessionMiddleware(s.deps.Codec, s.deps.StudentSvc)
	adminRequired := adminMiddleware(s.deps.Codec, s.deps.AdminSvc)

	registerStudentAPI(api, sessionRequired, adminRequired, s.deps.StudentSvc, s.deps.Codec)
	registerAdminAPI(api, adminRequired, s.deps.AdminSvc, s.deps.StudentSvc, s.deps.Codec)
	registerCourseAPI(api, adminRequired, s.deps.CourseSvc, s.deps.StudentSvc, s.deps.MediaSvc, s.deps.Hub)
	registerPaymentAPI(api, adminRequired, s.deps.PaymentSvc)
	registerSliderAPI(api, adminRequired, s.deps.SliderSvc, s.deps.MediaSvc)
	registerLiveAPI(api, sessionRequired, s.deps.CourseSvc, s.deps.Hub, s.deps.Logger)
}

// Start serves the API. It does not return until the server stops;
// a failed listener surfaces on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func healthCheck(ctx echo.Context) error {
	return respondMessage(ctx, http.StatusOK, "OK")
}
