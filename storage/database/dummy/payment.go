package dummydb

import (
	"sort"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/payment"
)

// paymentRepository joins against the student and course tables, so it holds
// the whole DB.
type paymentRepository struct {
	db *DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) detail(p payment.Payment) payment.Detail {
	d := payment.Detail{Payment: p}
	if std, ok := repo.db.student.table[p.StudentID]; ok {
		d.StudentName = std.FullName
		d.StudentEmail = std.Email
	}
	if crs, ok := repo.db.course.courses[p.CourseID]; ok {
		d.CourseTitle = crs.Title
	}
	return d
}

func (repo *paymentRepository) CreatePayment(p payment.Payment) (payment.Payment, error) {
	repo.db.payment.Lock()
	defer repo.db.payment.Unlock()

	repo.db.payment.table[p.ID] = &p
	return p, nil
}

func (repo *paymentRepository) FilterPayments(pf core.PageFilter) ([]payment.Detail, int, error) {
	repo.db.payment.RLock()
	defer repo.db.payment.RUnlock()

	details := make([]payment.Detail, 0, len(repo.db.payment.table))
	for _, p := range repo.db.payment.table {
		details = append(details, repo.detail(*p))
	}
	sort.Slice(details, func(i, j int) bool { return details[i].PaymentDate.After(details[j].PaymentDate) })

	total := len(details)
	start := pf.Offset()
	if start > total {
		start = total
	}
	end := start + pf.Limit
	if end > total {
		end = total
	}
	return details[start:end], total, nil
}

func (repo *paymentRepository) GetPaymentByID(id string) (payment.Detail, error) {
	repo.db.payment.RLock()
	defer repo.db.payment.RUnlock()

	if p, ok := repo.db.payment.table[id]; ok {
		return repo.detail(*p), nil
	}
	return payment.Detail{}, payment.ErrNotFound
}
