package student

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zeroonecreation/classify/core"
)

// Genders
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Student JSON field names follow the browser front end's camelCase contract.
type Student struct {
	ID                  string     `json:"id" db:"id"`
	FullName            string     `json:"fullName" db:"full_name"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        []byte     `json:"-" db:"password_hash"`
	PhoneNumber         string     `json:"phoneNumber" db:"phone_number"`
	Gender              string     `json:"gender" db:"gender"`
	IsSubscribed        bool       `json:"isSubscribed" db:"is_subscribed"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate" db:"subscription_end_date"`
	IsVerified          bool       `json:"isVerified" db:"is_verified"`
	VerifyCode          string     `json:"-" db:"verify_code"`
	VerifyCodeExpiry    *time.Time `json:"-" db:"verify_code_expiry"`
	Token               *string    `json:"-" db:"token"`
	IsLoggingIn         bool       `json:"isLoggingIn" db:"is_logging_in"`
	IsActive            bool       `json:"-" db:"is_active"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt           time.Time  `json:"updatedAt" db:"updated_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone10"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
}

func (ns *NewStudent) Validate() error {
	ns.FullName = core.CleanString(ns.FullName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Gender = core.CleanString(ns.Gender, true /* lower */)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone10"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	name := core.CleanString(us.FullName)
	if name == "" {
		name = orig.FullName
	}
	us.FullName = name

	if us.PhoneNumber == "" {
		us.PhoneNumber = orig.PhoneNumber
	}

	gender := core.CleanString(us.Gender, true /* lower */)
	if gender == "" {
		gender = orig.Gender
	}
	us.Gender = gender

	return core.Validate.Struct(us)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
