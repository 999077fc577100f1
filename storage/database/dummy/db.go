// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"sync"

	"github.com/zeroonecreation/classify/core/admin"
	"github.com/zeroonecreation/classify/core/course"
	"github.com/zeroonecreation/classify/core/payment"
	"github.com/zeroonecreation/classify/core/slider"
	"github.com/zeroonecreation/classify/core/student"
)

type (
	DB struct {
		admin   *adminTable
		student *studentTable
		course  *courseTable
		payment *paymentTable
		slider  *sliderTable
	}

	adminTable struct {
		sync.RWMutex
		table map[string]*admin.Admin
	}

	studentTable struct {
		sync.RWMutex
		table       map[string]*student.Student
		enrollments map[string]map[string]bool // studentID -> courseID set
	}

	courseTable struct {
		sync.RWMutex
		courses  map[string]*course.Course
		subjects map[string]*course.Subject
		chapters map[string]*course.Chapter
		videos   map[string]*course.Video
	}

	paymentTable struct {
		sync.RWMutex
		table map[string]*payment.Payment
	}

	sliderTable struct {
		sync.RWMutex
		table map[string]*slider.Slider
	}
)

func Open() (*DB, error) {
	db := &DB{
		admin: &adminTable{table: make(map[string]*admin.Admin)},
		student: &studentTable{
			table:       make(map[string]*student.Student),
			enrollments: make(map[string]map[string]bool),
		},
		course: &courseTable{
			courses:  make(map[string]*course.Course),
			subjects: make(map[string]*course.Subject),
			chapters: make(map[string]*course.Chapter),
			videos:   make(map[string]*course.Video),
		},
		payment: &paymentTable{table: make(map[string]*payment.Payment)},
		slider:  &sliderTable{table: make(map[string]*slider.Slider)},
	}
	return db, nil
}
