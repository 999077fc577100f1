package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/zeroonecreation/classify/apps/api/echo"
	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/admin"
	"github.com/zeroonecreation/classify/core/auth"
	"github.com/zeroonecreation/classify/core/course"
	"github.com/zeroonecreation/classify/core/payment"
	"github.com/zeroonecreation/classify/core/slider"
	"github.com/zeroonecreation/classify/core/student"
	chatsvc "github.com/zeroonecreation/classify/services/chat"
	emailsvc "github.com/zeroonecreation/classify/services/email"
	logsvc "github.com/zeroonecreation/classify/services/logger"
	mediasvc "github.com/zeroonecreation/classify/services/media"
	"github.com/zeroonecreation/classify/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	mediaSvc, err := mediasvc.NewS3Service(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up media storage: %v", err), err)
	}

	codec, err := auth.NewCodec(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up token codec: %v", err), err)
	}

	adminSvc := admin.NewService(database.NewAdminRepository(db))
	studentSvc := student.NewService(database.NewStudentRepository(db), conf, logger, mailSvc)
	courseSvc := course.NewService(database.NewCourseRepository(db))
	paymentSvc := payment.NewService(database.NewPaymentRepository(db))
	sliderSvc := slider.NewService(database.NewSliderRepository(db))
	hub := chatsvc.NewHub(logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Codec:      codec,
			AdminSvc:   adminSvc,
			StudentSvc: studentSvc,
			CourseSvc:  courseSvc,
			PaymentSvc: paymentSvc,
			SliderSvc:  sliderSvc,
			MediaSvc:   mediaSvc,
			Hub:        hub,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
