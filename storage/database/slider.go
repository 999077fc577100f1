package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core/slider"
)

type sliderRepository struct {
	db *sqlx.DB
}

var _ slider.Repository = (*sliderRepository)(nil) // interface compliance check

func NewSliderRepository(db *sqlx.DB) slider.Repository {
	return &sliderRepository{db: db}
}

func (repo *sliderRepository) CreateSlider(s slider.Slider) (slider.Slider, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO slider (id, url, is_active, created_at, updated_at)
		VALUES (:id, :url, :is_active, :created_at, :updated_at)`, s)
	if err != nil {
		return slider.Slider{}, errors.Wrap(err, "inserting slider")
	}
	return s, nil
}

func (repo *sliderRepository) QueryActiveSliders() ([]slider.Slider, error) {
	var sliders []slider.Slider
	err := repo.db.Select(&sliders, `SELECT * FROM slider WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying sliders")
	}
	return sliders, nil
}

func (repo *sliderRepository) GetSliderByID(id string) (slider.Slider, error) {
	var s slider.Slider
	err := repo.db.Get(&s, `SELECT * FROM slider WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return slider.Slider{}, slider.ErrNotFound
	}
	if err != nil {
		return slider.Slider{}, errors.Wrap(err, "getting slider by ID")
	}
	return s, nil
}

func (repo *sliderRepository) DeleteSlider(id string) error {
	res, err := repo.db.Exec(`DELETE FROM slider WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting slider")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return slider.ErrNotFound
	}
	return nil
}
