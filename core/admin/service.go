package admin

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zeroonecreation/classify/core"
)

var (
	// errors
	ErrNotFound           = errors.New("admin not found")
	ErrEmailExists        = errors.New("Admin with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string) error
		CreateAdmin(adm Admin) (Admin, error)
		QueryAllAdmins() ([]Admin, error)
		GetAdminByID(id string) (Admin, error)
		GetAdminByEmail(email string) (Admin, error)
		UpdateAdmin(adm Admin) (Admin, error)
		DeleteAdmin(id string) error
	}

	Service interface {
		CheckEmailUniqueness(email string) error
		Create(na NewAdmin) (Admin, error)
		QueryAll() ([]Admin, error)
		GetByID(id string) (Admin, error)
		GetByEmail(email string) (Admin, error)
		// Authenticate checks an admin's credentials. Unknown email and
		// wrong password are indistinguishable to the caller.
		Authenticate(email, pwd string) (Admin, error)
		SetPassword(id, pwd string) (Admin, error)
		Delete(id string) error
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckEmailUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(na NewAdmin) (Admin, error) {
	now := time.Now().UTC()
	adm := Admin{
		ID:        uuid.NewString(),
		Name:      na.Name,
		Email:     na.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := adm.SetPassword(na.Password); err != nil {
		return Admin{}, err
	}
	return svc.repo.CreateAdmin(adm)
}

func (svc *service) QueryAll() ([]Admin, error) {
	return svc.repo.QueryAllAdmins()
}

func (svc *service) GetByID(id string) (Admin, error) {
	return svc.repo.GetAdminByID(id)
}

func (svc *service) GetByEmail(email string) (Admin, error) {
	return svc.repo.GetAdminByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) Authenticate(email, pwd string) (Admin, error) {
	adm, err := svc.GetByEmail(email)
	if err != nil {
		return Admin{}, ErrInvalidCredentials
	}
	if err = adm.CheckPassword(pwd); err != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return adm, nil
}

func (svc *service) SetPassword(id, pwd string) (Admin, error) {
	adm, err := svc.repo.GetAdminByID(id)
	if err != nil {
		return Admin{}, err
	}
	if err = adm.SetPassword(pwd); err != nil {
		return Admin{}, err
	}
	adm.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAdmin(adm)
}

func (svc *service) Delete(id string) error {
	return svc.repo.DeleteAdmin(id)
}
