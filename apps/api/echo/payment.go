package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/payment"
)

type paymentApi struct {
	svc payment.Service
}

func registerPaymentAPI(g *echo.Group, adminRequired echo.MiddlewareFunc, svc payment.Service) {
	api := paymentApi{svc: svc}

	pg := g.Group("/payments", adminRequired)
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/:id", api.retrieve)
}

// Handlers

func (api *paymentApi) query(ctx echo.Context) error {
	var pf core.PageFilter
	if err := ctx.Bind(&pf); err != nil {
		return errors.Wrap(err, "binding to PageFilter")
	}
	pf.Clean()

	payments, pagination, err := api.svc.Query(pf)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	return respondPage(ctx, http.StatusOK, payments, pagination)
}

func (api *paymentApi) create(ctx echo.Context) error {
	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	pmt, err := api.svc.Create(data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, pmt)
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	pmt, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, pmt)
}
