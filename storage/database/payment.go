package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/payment"
)

type paymentRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *sqlx.DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) CreatePayment(p payment.Payment) (payment.Payment, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO payment (
			id, student_id, course_id, amount, payment_date, payment_method,
			transaction_id, status, created_at, updated_at
		)
		VALUES (
			:id, :student_id, :course_id, :amount, :payment_date, :payment_method,
			:transaction_id, :status, :created_at, :updated_at
		)`, p)
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return p, nil
}

const paymentDetailQuery = `
	SELECT payment.*,
		student.full_name AS student_name,
		student.email AS student_email,
		course.title AS course_title
	FROM payment
	JOIN student ON student.id = payment.student_id
	JOIN course ON course.id = payment.course_id`

func (repo *paymentRepository) FilterPayments(pf core.PageFilter) ([]payment.Detail, int, error) {
	var payments []payment.Detail
	err := repo.db.Select(&payments, paymentDetailQuery+`
		ORDER BY payment.payment_date DESC
		LIMIT $1 OFFSET $2`, pf.Limit, pf.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, "filtering payments")
	}

	var total int
	if err = repo.db.Get(&total, `SELECT COUNT(*) FROM payment`); err != nil {
		return nil, 0, errors.Wrap(err, "counting payments")
	}
	return payments, total, nil
}

func (repo *paymentRepository) GetPaymentByID(id string) (payment.Detail, error) {
	var p payment.Detail
	err := repo.db.Get(&p, paymentDetailQuery+` WHERE payment.id = $1`, id)
	if err == sql.ErrNoRows {
		return payment.Detail{}, payment.ErrNotFound
	}
	if err != nil {
		return payment.Detail{}, errors.Wrap(err, "getting payment by ID")
	}
	return p, nil
}
