package dummydb

import (
	"sort"
	"strings"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].CreatedAt.After(students[j].CreatedAt) })
	return students
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// the email column is unique across active and deactivated rows
	for _, existing := range repo.db.table {
		if existing.Email == std.Email {
			return student.Student{}, student.ErrEmailExists
		}
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok && std.IsActive {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.table {
		if std.Email == email && std.IsActive {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter, pf core.PageFilter) ([]student.Student, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]student.Student, 0)
	search := strings.ToLower(filter.Search)
	for _, std := range repo.query() {
		if !std.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(std.FullName), search) &&
			!strings.Contains(strings.ToLower(std.Email), search) {
			continue
		}
		matches = append(matches, std)
	}

	total := len(matches)
	start := pf.Offset()
	if start > total {
		start = total
	}
	end := start + pf.Limit
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

func (repo *studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) CreateEnrollment(studentID, courseID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	courses, ok := repo.db.enrollments[studentID]
	if !ok {
		courses = make(map[string]bool)
		repo.db.enrollments[studentID] = courses
	}
	if courses[courseID] {
		return student.ErrAlreadyEnrolled
	}
	courses[courseID] = true
	return nil
}

func (repo *studentRepository) EnrolledCourseIDs(studentID string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]string, 0, len(repo.db.enrollments[studentID]))
	for id := range repo.db.enrollments[studentID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *studentRepository) IsEnrolled(studentID, courseID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.enrollments[studentID][courseID], nil
}
