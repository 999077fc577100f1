package payment

import (
	"time"

	"github.com/zeroonecreation/classify/core"
)

// Statuses
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Payment struct {
	ID            string    `json:"id" db:"id"`
	StudentID     string    `json:"studentId" db:"student_id"`
	CourseID      string    `json:"courseId" db:"course_id"`
	Amount        float64   `json:"amount" db:"amount"`
	PaymentDate   time.Time `json:"paymentDate" db:"payment_date"`
	PaymentMethod string    `json:"paymentMethod" db:"payment_method"`
	TransactionID string    `json:"transactionId" db:"transaction_id"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

// Detail is a Payment joined with the student and course it belongs to.
type Detail struct {
	Payment
	StudentName  string `json:"studentName" db:"student_name"`
	StudentEmail string `json:"studentEmail" db:"student_email"`
	CourseTitle  string `json:"courseTitle" db:"course_title"`
}

// NewPayment contains information needed to record a new Payment.
type NewPayment struct {
	StudentID     string  `json:"studentId" validate:"required"`
	CourseID      string  `json:"courseId" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
	TransactionID string  `json:"transactionId" validate:"required"`
	Status        string  `json:"status" validate:"omitempty,oneof=pending success failed"`
}

func (np *NewPayment) Validate() error {
	np.PaymentMethod = core.CleanString(np.PaymentMethod)
	np.TransactionID = core.CleanString(np.TransactionID)
	np.Status = core.CleanString(np.Status, true /* lower */)
	return core.Validate.Struct(np)
}
