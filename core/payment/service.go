package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zeroonecreation/classify/core"
)

var ErrNotFound = errors.New("Payment not found")

type (
	Repository interface {
		CreatePayment(p Payment) (Payment, error)
		// FilterPayments returns payments joined with student and course
		// details, newest first, plus the total row count.
		FilterPayments(pf core.PageFilter) ([]Detail, int, error)
		GetPaymentByID(id string) (Detail, error)
	}

	Service interface {
		Create(np NewPayment) (Payment, error)
		Query(pf core.PageFilter) ([]Detail, core.Pagination, error)
		GetByID(id string) (Detail, error)
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(np NewPayment) (Payment, error) {
	now := time.Now().UTC()
	pmt := Payment{
		ID:            uuid.NewString(),
		StudentID:     np.StudentID,
		CourseID:      np.CourseID,
		Amount:        np.Amount,
		PaymentDate:   now,
		PaymentMethod: np.PaymentMethod,
		TransactionID: np.TransactionID,
		Status:        np.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if pmt.Status == "" {
		pmt.Status = StatusPending
	}
	return svc.repo.CreatePayment(pmt)
}

func (svc *service) Query(pf core.PageFilter) ([]Detail, core.Pagination, error) {
	pf.Clean()
	payments, total, err := svc.repo.FilterPayments(pf)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return payments, core.NewPagination(pf, total), nil
}

func (svc *service) GetByID(id string) (Detail, error) {
	return svc.repo.GetPaymentByID(id)
}
