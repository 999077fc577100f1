package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/student"
)

// unique_violation
const pqUniqueViolation = "23505"

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO student (
			id, full_name, email, password_hash, phone_number, gender,
			is_subscribed, subscription_end_date, is_verified, verify_code,
			verify_code_expiry, token, is_logging_in, is_active, created_at, updated_at
		)
		VALUES (
			:id, :full_name, :email, :password_hash, :phone_number, :gender,
			:is_subscribed, :subscription_end_date, :is_verified, :verify_code,
			:verify_code_expiry, :token, :is_logging_in, :is_active, :created_at, :updated_at
		)`, std)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var std student.Student
	err := repo.db.Get(&std, `SELECT * FROM student WHERE id = $1 AND is_active`, id)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student by ID")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	var std student.Student
	err := repo.db.Get(&std, `SELECT * FROM student WHERE email = $1 AND is_active`, email)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student by email")
	}
	return std, nil
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter, pf core.PageFilter) ([]student.Student, int, error) {
	var (
		students []student.Student
		total    int
		err      error
	)

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		err = repo.db.Select(&students, `
			SELECT * FROM student
			WHERE is_active AND (full_name ILIKE $1 OR email ILIKE $1)
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`, search, pf.Limit, pf.Offset())
		if err != nil {
			return nil, 0, errors.Wrap(err, "filtering students")
		}
		err = repo.db.Get(&total, `
			SELECT COUNT(*) FROM student
			WHERE is_active AND (full_name ILIKE $1 OR email ILIKE $1)`, search)
		if err != nil {
			return nil, 0, errors.Wrap(err, "counting students")
		}
		return students, total, nil
	}

	err = repo.db.Select(&students, `
		SELECT * FROM student WHERE is_active
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, pf.Limit, pf.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, "filtering students")
	}
	if err = repo.db.Get(&total, `SELECT COUNT(*) FROM student WHERE is_active`); err != nil {
		return nil, 0, errors.Wrap(err, "counting students")
	}
	return students, total, nil
}

func (repo *studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	res, err := repo.db.NamedExec(`
		UPDATE student
		SET full_name = :full_name, email = :email, password_hash = :password_hash,
			phone_number = :phone_number, gender = :gender, is_subscribed = :is_subscribed,
			subscription_end_date = :subscription_end_date, is_verified = :is_verified,
			verify_code = :verify_code, verify_code_expiry = :verify_code_expiry,
			token = :token, is_logging_in = :is_logging_in, is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id`, std)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) CreateEnrollment(studentID, courseID string) error {
	_, err := repo.db.Exec(`
		INSERT INTO enrollment (student_id, course_id) VALUES ($1, $2)`, studentID, courseID)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return student.ErrAlreadyEnrolled
		}
		return errors.Wrap(err, "inserting enrollment")
	}
	return nil
}

func (repo *studentRepository) EnrolledCourseIDs(studentID string) ([]string, error) {
	var ids []string
	err := repo.db.Select(&ids, `SELECT course_id FROM enrollment WHERE student_id = $1`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return ids, nil
}

func (repo *studentRepository) IsEnrolled(studentID, courseID string) (bool, error) {
	var enrolled bool
	err := repo.db.Get(&enrolled, `
		SELECT EXISTS (SELECT 1 FROM enrollment WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID)
	if err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return enrolled, nil
}
