package dummydb

import (
	"sort"

	"github.com/zeroonecreation/classify/core/slider"
)

type sliderRepository struct {
	db *sliderTable
}

var _ slider.Repository = (*sliderRepository)(nil) // interface compliance check

func NewSliderRepository(db *DB) slider.Repository {
	return &sliderRepository{db: db.slider}
}

func (repo *sliderRepository) CreateSlider(s slider.Slider) (slider.Slider, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *sliderRepository) QueryActiveSliders() ([]slider.Slider, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sliders := make([]slider.Slider, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		if s.IsActive {
			sliders = append(sliders, *s)
		}
	}
	sort.Slice(sliders, func(i, j int) bool { return sliders[i].CreatedAt.After(sliders[j].CreatedAt) })
	return sliders, nil
}

func (repo *sliderRepository) GetSliderByID(id string) (slider.Slider, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return slider.Slider{}, slider.ErrNotFound
}

func (repo *sliderRepository) DeleteSlider(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return slider.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
