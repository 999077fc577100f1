package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core/slider"
	mediasvc "github.com/zeroonecreation/classify/services/media"
)

type sliderApi struct {
	svc      slider.Service
	mediaSvc mediasvc.Service
}

func registerSliderAPI(g *echo.Group, adminRequired echo.MiddlewareFunc, svc slider.Service, mediaSvc mediasvc.Service) {
	api := sliderApi{svc: svc, mediaSvc: mediaSvc}

	sg := g.Group("/slider-images")
	sg.GET("", api.query)
	sg.POST("", api.create, adminRequired)
	sg.DELETE("/:id", api.destroy, adminRequired)
}

// Handlers

func (api *sliderApi) query(ctx echo.Context) error {
	sliders, err := api.svc.QueryActive()
	if err != nil {
		return errors.Wrap(err, "querying slider images")
	}
	return respond(ctx, http.StatusOK, sliders)
}

func (api *sliderApi) create(ctx echo.Context) error {
	file, err := ctx.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "An image file is required").SetInternal(err)
	}
	src, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded image")
	}
	defer src.Close()

	url, err := api.mediaSvc.Upload(
		ctx.Request().Context(),
		file.Filename,
		file.Header.Get(echo.HeaderContentType),
		file.Size,
		src,
	)
	if err != nil {
		return err
	}

	sld, err := api.svc.Create(url)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, sld)
}

// destroy removes the slider record and its stored image.
func (api *sliderApi) destroy(ctx echo.Context) error {
	sld, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.svc.Delete(sld.ID); err != nil {
		return err
	}
	if err = api.mediaSvc.Delete(ctx.Request().Context(), sld.URL); err != nil {
		return errors.Wrap(err, "deleting stored image")
	}
	return respondMessage(ctx, http.StatusOK, "Slider image deleted successfully.")
}
