package slider

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("Slider image not found")

type (
	Repository interface {
		CreateSlider(s Slider) (Slider, error)
		// QueryActiveSliders returns active sliders, newest first.
		QueryActiveSliders() ([]Slider, error)
		GetSliderByID(id string) (Slider, error)
		DeleteSlider(id string) error
	}

	Service interface {
		Create(url string) (Slider, error)
		QueryActive() ([]Slider, error)
		GetByID(id string) (Slider, error)
		Delete(id string) error
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(url string) (Slider, error) {
	now := time.Now().UTC()
	sld := Slider{
		ID:        uuid.NewString(),
		URL:       url,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateSlider(sld)
}

func (svc *service) QueryActive() ([]Slider, error) {
	return svc.repo.QueryActiveSliders()
}

func (svc *service) GetByID(id string) (Slider, error) {
	return svc.repo.GetSliderByID(id)
}

func (svc *service) Delete(id string) error {
	return svc.repo.DeleteSlider(id)
}
