package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroonecreation/classify/core/student"
)

// Test_studentApi_registrationFlow walks the whole sign-up journey the
// browser front end drives: register, verify with the mailed code, then
// log in.
func Test_studentApi_registrationFlow(t *testing.T) {
	ts := newTestServer(t)

	registration := marshallObj(t, student.NewStudent{
		FullName:    "Asha Verma",
		Email:       "asha@test.in",
		Password:    "s3cret",
		PhoneNumber: "9876543210",
		Gender:      student.GenderFemale,
	})
	login := marshallObj(t, LoginRequest{Email: "asha@test.in", Password: "s3cret"})

	// register
	rec := ts.do(newRequest(http.MethodPost, "/api/students/register", registration))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Verification code sent to your email address.", decodeResponse(t, rec).Message)
	code := lastSentCode(t)

	// login before verifying
	rec = ts.do(newRequest(http.MethodPost, "/api/auth/login", login))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please verify your email address.", decodeResponse(t, rec).Message)

	// wrong code
	rec = ts.do(newRequest(http.MethodPost, "/api/students/verify",
		marshallObj(t, VerifyCodeRequest{Email: "asha@test.in", Code: "000000"})))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired verification code.", decodeResponse(t, rec).Message)

	// right code
	rec = ts.do(newRequest(http.MethodPost, "/api/students/verify",
		marshallObj(t, VerifyCodeRequest{Email: "asha@test.in", Code: code})))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Email verified successfully.", decodeResponse(t, rec).Message)

	// wrong password
	rec = ts.do(newRequest(http.MethodPost, "/api/auth/login",
		marshallObj(t, LoginRequest{Email: "asha@test.in", Password: "wrong!"})))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid user password.", decodeResponse(t, rec).Message)

	// unknown account
	rec = ts.do(newRequest(http.MethodPost, "/api/auth/login",
		marshallObj(t, LoginRequest{Email: "nobody@test.in", Password: "s3cret"})))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User does not exist.", decodeResponse(t, rec).Message)

	// success
	rec = ts.do(newRequest(http.MethodPost, "/api/auth/login", login))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	std := data["student"].(map[string]interface{})
	assert.Equal(t, true, std["isLoggingIn"])
	assert.Equal(t, true, std["isVerified"])
}

func Test_studentApi_expiredCode(t *testing.T) {
	ts := newTestServer(t)

	expiry := time.Now().UTC().Add(-time.Minute)
	std := student.Student{
		ID:               "std-1",
		FullName:         "Asha Verma",
		Email:            "asha@test.in",
		PhoneNumber:      "9876543210",
		Gender:           student.GenderFemale,
		VerifyCode:       "123456",
		VerifyCodeExpiry: &expiry,
		IsActive:         true,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, std.SetPassword("s3cret"))
	_, err := ts.studentRepo.CreateStudent(std)
	require.NoError(t, err)

	// the digits match but the code is stale
	rec := ts.do(newRequest(http.MethodPost, "/api/students/verify",
		marshallObj(t, VerifyCodeRequest{Email: "asha@test.in", Code: "123456"})))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired verification code.", decodeResponse(t, rec).Message)
}

func Test_studentApi_passwordReset(t *testing.T) {
	ts := newTestServer(t)
	createStudent(t, ts.studentRepo, "Asha Verma", "asha@test.in", "old-pwd", true)

	emailBody := marshallObj(t, EmailRequest{Email: "asha@test.in"})

	rec := ts.do(newRequest(http.MethodPost, "/api/auth/forgot-password/send-mail", emailBody))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	code := lastSentCode(t)

	rec = ts.do(newRequest(http.MethodPost, "/api/auth/forgot-password/verify-code",
		marshallObj(t, VerifyCodeRequest{Email: "asha@test.in", Code: code})))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(newRequest(http.MethodPost, "/api/auth/forgot-password",
		marshallObj(t, ResetPasswordRequest{Email: "asha@test.in", Password: "new-pwd"})))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// old password no longer works
	rec = ts.do(newRequest(http.MethodPost, "/api/auth/login",
		marshallObj(t, LoginRequest{Email: "asha@test.in", Password: "old-pwd"})))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(newRequest(http.MethodPost, "/api/auth/login",
		marshallObj(t, LoginRequest{Email: "asha@test.in", Password: "new-pwd"})))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func Test_studentApi_adminManagement(t *testing.T) {
	ts := newTestServer(t)
	adm := createAdmin(t, ts.adminRepo, "Root", "root@classify.test", "changeme")
	token, err := ts.codec.Issue(adm.ID, adm.Email, adm.Name)
	require.NoError(t, err)

	std := createStudent(t, ts.studentRepo, "Asha Verma", "asha@test.in", "s3cret", true)
	createStudent(t, ts.studentRepo, "Rohan Mehta", "rohan@test.in", "s3cret", true)

	t.Run("query with search", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodGet, "/api/students?search=asha", token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res := decodeResponse(t, rec)
		require.Len(t, res.Data, 1)
		require.NotNil(t, res.Pagination)
		assert.Equal(t, 1, res.Pagination.TotalCount)
	})

	t.Run("update", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodPut, "/api/students/"+std.ID, token,
			marshallObj(t, student.UpdateStudent{FullName: "Asha V"})))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, "Asha V", data["fullName"])
		// untouched fields keep their values
		assert.Equal(t, "9876543210", data["phoneNumber"])
	})

	t.Run("soft delete hides the account", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodDelete, "/api/students/"+std.ID, token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = ts.do(newAuthRequest(http.MethodGet, "/api/students/"+std.ID, token))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		// ... and their credentials stop working
		rec = ts.do(newRequest(http.MethodPost, "/api/auth/login",
			marshallObj(t, LoginRequest{Email: "asha@test.in", Password: "s3cret"})))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("deleted email stays taken", func(t *testing.T) {
		// the unique constraint spans deactivated rows
		rec := ts.do(newRequest(http.MethodPost, "/api/students/register",
			marshallObj(t, student.NewStudent{
				FullName:    "Asha Again",
				Email:       "asha@test.in",
				Password:    "s3cret",
				PhoneNumber: "9876543210",
				Gender:      student.GenderFemale,
			})))
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		fields := decodeResponse(t, rec).Errors.(map[string]interface{})
		assert.Equal(t, student.ErrEmailExists.Error(), fields["email"])
	})

	t.Run("register pre-verified student", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodPost, "/api/admins/register-students", token,
			marshallObj(t, student.NewStudent{
				FullName:    "Kiran Rao",
				Email:       "kiran@test.in",
				Password:    "s3cret",
				PhoneNumber: "9000000000",
				Gender:      student.GenderOther,
			})))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, true, data["isVerified"])

		// no verification hoop to jump through
		rec = ts.do(newRequest(http.MethodPost, "/api/auth/login",
			marshallObj(t, LoginRequest{Email: "kiran@test.in", Password: "s3cret"})))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}
