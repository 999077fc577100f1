package student

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/zeroonecreation/classify/core"
)

var (
	// errors; messages are part of the front end's contract, do not reword.
	ErrNotFound        = errors.New("User does not exist.")
	ErrNotVerified     = errors.New("Please verify your email address.")
	ErrInvalidPassword = errors.New("Invalid user password.")
	ErrEmailExists     = errors.New("Student with this email already exists")
	ErrInvalidCode     = errors.New("Invalid or expired verification code.")
	ErrAlreadyEnrolled = errors.New("Student is already enrolled in this course")

	verificationTmpl  = "verification-code"
	passwordResetTmpl = "password-reset-code"

	subscriptionPeriod = 365 * 24 * time.Hour
)

type (
	Repository interface {
		// CreateStudent fails with ErrEmailExists when the email is already
		// taken, deactivated rows included.
		CreateStudent(std Student) (Student, error)
		GetStudentByID(id string) (Student, error)
		GetStudentByEmail(email string) (Student, error)
		// FilterStudents only matches active students.
		// QueryFilter.Search does a case-insensitive match on FullName or Email.
		FilterStudents(filter QueryFilter, pf core.PageFilter) ([]Student, int, error)
		UpdateStudent(std Student) (Student, error)

		CreateEnrollment(studentID, courseID string) error
		EnrolledCourseIDs(studentID string) ([]string, error)
		IsEnrolled(studentID, courseID string) (bool, error)
	}

	Service interface {
		Register(ns NewStudent) (Student, error)
		// RegisterByAdmin creates a pre-verified Student; no email is sent.
		RegisterByAdmin(ns NewStudent) (Student, error)
		Verify(email, code string) (Student, error)
		ResendVerification(email string) error
		// Authenticate fails with ErrNotFound, ErrNotVerified or
		// ErrInvalidPassword; callers map these to their status codes.
		Authenticate(email, pwd string) (Student, error)
		SetSessionToken(id, token string) error
		ClearSession(id string) error
		RequestPasswordReset(email string) error
		VerifyResetCode(email, code string) error
		ResetPassword(email, pwd string) (Student, error)
		GetByID(id string) (Student, error)
		GetByEmail(email string) (Student, error)
		Query(filter QueryFilter, pf core.PageFilter) ([]Student, core.Pagination, error)
		Update(id string, us UpdateStudent) (Student, error)
		// SoftDelete deactivates the Student; the row is kept.
		SoftDelete(id string) error
		Enroll(studentID, courseID string) (Student, error)
		EnrolledCourseIDs(studentID string) ([]string, error)
		IsEnrolled(studentID, courseID string) (bool, error)
	}

	service struct {
		repo    Repository
		conf    *core.Config
		logger  core.Logger
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, conf *core.Config, logger core.Logger, mailSvc core.EmailService) Service {
	return &service{
		repo:    repo,
		conf:    conf,
		logger:  logger,
		mailSvc: mailSvc,
	}
}

func (svc *service) Register(ns NewStudent) (Student, error) {
	now := nowFunc().UTC()

	if existing, err := svc.GetByEmail(ns.Email); err == nil {
		if existing.IsVerified {
			return Student{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		// an unverified registration is overwritten by a fresh one
		if err = svc.applyRegistration(&existing, ns, now); err != nil {
			return Student{}, err
		}
		std, err := svc.repo.UpdateStudent(existing)
		if err != nil {
			return Student{}, err
		}
		svc.sendVerificationMail(std)
		return std, nil
	}

	std := Student{
		ID:        uuid.NewString(),
		IsActive:  true,
		CreatedAt: now,
	}
	if err := svc.applyRegistration(&std, ns, now); err != nil {
		return Student{}, err
	}
	std, err := svc.repo.CreateStudent(std)
	if err != nil {
		// covers emails held by deactivated rows, which GetByEmail never sees
		if errors.Is(err, ErrEmailExists) {
			return Student{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return Student{}, err
	}
	svc.sendVerificationMail(std)
	return std, nil
}

func (svc *service) RegisterByAdmin(ns NewStudent) (Student, error) {
	if _, err := svc.GetByEmail(ns.Email); err == nil {
		return Student{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	}

	now := nowFunc().UTC()
	std := Student{
		ID:          uuid.NewString(),
		FullName:    ns.FullName,
		Email:       ns.Email,
		PhoneNumber: ns.PhoneNumber,
		Gender:      ns.Gender,
		IsVerified:  true,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, err
	}
	std, err := svc.repo.CreateStudent(std)
	if errors.Is(err, ErrEmailExists) {
		return Student{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	}
	return std, err
}

// applyRegistration resets the row to the new registration data and stamps a
// fresh verification code.
func (svc *service) applyRegistration(std *Student, ns NewStudent, now time.Time) error {
	std.FullName = ns.FullName
	std.Email = ns.Email
	std.PhoneNumber = ns.PhoneNumber
	std.Gender = ns.Gender
	std.IsVerified = false
	std.UpdatedAt = now
	if err := std.SetPassword(ns.Password); err != nil {
		return err
	}
	return svc.stampCode(std, now)
}

func (svc *service) stampCode(std *Student, now time.Time) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	expiry := now.Add(svc.conf.Server.VerifyCodeTimeout)
	std.VerifyCode = code
	std.VerifyCodeExpiry = &expiry
	return nil
}

func (svc *service) Verify(email, code string) (Student, error) {
	std, err := svc.GetByEmail(email)
	if err != nil {
		return Student{}, err
	}
	if !codeMatches(std, code) {
		return Student{}, core.NewValidationError(ErrInvalidCode)
	}
	std.IsVerified = true
	std.VerifyCode = ""
	std.VerifyCodeExpiry = nil
	std.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *service) ResendVerification(email string) error {
	std, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	if std.IsVerified {
		return core.NewValidationError(errors.New("email address is already verified"))
	}
	now := nowFunc().UTC()
	if err = svc.stampCode(&std, now); err != nil {
		return err
	}
	std.UpdatedAt = now
	if std, err = svc.repo.UpdateStudent(std); err != nil {
		return err
	}
	svc.sendVerificationMail(std)
	return nil
}

func (svc *service) Authenticate(email, pwd string) (Student, error) {
	std, err := svc.GetByEmail(email)
	if err != nil {
		return Student{}, ErrNotFound
	}
	if !std.IsVerified {
		return Student{}, ErrNotVerified
	}
	if err = std.CheckPassword(pwd); err != nil {
		return Student{}, ErrInvalidPassword
	}
	return std, nil
}

// SetSessionToken mirrors the issued token on the Student row and flags the
// login in progress.
func (svc *service) SetSessionToken(id, token string) error {
	std, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return err
	}
	std.Token = &token
	std.IsLoggingIn = true
	std.UpdatedAt = nowFunc().UTC()
	_, err = svc.repo.UpdateStudent(std)
	return err
}

func (svc *service) ClearSession(id string) error {
	std, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return err
	}
	std.Token = nil
	std.IsLoggingIn = false
	std.UpdatedAt = nowFunc().UTC()
	_, err = svc.repo.UpdateStudent(std)
	return err
}

func (svc *service) RequestPasswordReset(email string) error {
	std, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	now := nowFunc().UTC()
	if err = svc.stampCode(&std, now); err != nil {
		return err
	}
	std.UpdatedAt = now
	if std, err = svc.repo.UpdateStudent(std); err != nil {
		return err
	}
	svc.sendPasswordResetMail(std)
	return nil
}

func (svc *service) VerifyResetCode(email, code string) error {
	std, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	if !codeMatches(std, code) {
		return core.NewValidationError(ErrInvalidCode)
	}
	return nil
}

func (svc *service) ResetPassword(email, pwd string) (Student, error) {
	std, err := svc.GetByEmail(email)
	if err != nil {
		return Student{}, err
	}
	if err = std.SetPassword(pwd); err != nil {
		return Student{}, err
	}
	std.VerifyCode = ""
	std.VerifyCodeExpiry = nil
	std.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *service) GetByEmail(email string) (Student, error) {
	return svc.repo.GetStudentByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) Query(filter QueryFilter, pf core.PageFilter) ([]Student, core.Pagination, error) {
	pf.Clean()
	students, total, err := svc.repo.FilterStudents(filter, pf)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return students, core.NewPagination(pf, total), nil
}

func (svc *service) Update(id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	std.FullName = us.FullName
	std.PhoneNumber = us.PhoneNumber
	std.Gender = us.Gender
	std.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *service) SoftDelete(id string) error {
	std, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return err
	}
	std.IsActive = false
	std.UpdatedAt = nowFunc().UTC()
	_, err = svc.repo.UpdateStudent(std)
	return err
}

func (svc *service) Enroll(studentID, courseID string) (Student, error) {
	std, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if err = svc.repo.CreateEnrollment(studentID, courseID); err != nil {
		return Student{}, err
	}
	end := nowFunc().UTC().Add(subscriptionPeriod)
	std.IsSubscribed = true
	std.SubscriptionEndDate = &end
	std.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *service) EnrolledCourseIDs(studentID string) ([]string, error) {
	return svc.repo.EnrolledCourseIDs(studentID)
}

func (svc *service) IsEnrolled(studentID, courseID string) (bool, error) {
	return svc.repo.IsEnrolled(studentID, courseID)
}

// Emails; EmailService sends in the background.

func (svc *service) sendVerificationMail(std Student) {
	svc.mailSvc.SendMessages(svc.codeMail(std, "Verify your email address", verificationTmpl))
}

func (svc *service) sendPasswordResetMail(std Student) {
	svc.mailSvc.SendMessages(svc.codeMail(std, "Reset your password", passwordResetTmpl))
}

func (svc *service) codeMail(std Student, subject, tmpl string) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: std.FullName, Address: std.Email}},
		Subject:      subject,
		TemplateName: tmpl,
		TemplateData: map[string]interface{}{
			"Name":          std.FullName,
			"Code":          std.VerifyCode,
			"ExpiryMinutes": int(svc.conf.Server.VerifyCodeTimeout.Minutes()),
		},
	}
}
