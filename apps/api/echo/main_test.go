package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"sync"
	"testing"
	"time"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/admin"
	"github.com/zeroonecreation/classify/core/auth"
	"github.com/zeroonecreation/classify/core/course"
	"github.com/zeroonecreation/classify/core/payment"
	"github.com/zeroonecreation/classify/core/slider"
	"github.com/zeroonecreation/classify/core/student"
	chatsvc "github.com/zeroonecreation/classify/services/chat"
	emailsvc "github.com/zeroonecreation/classify/services/email"
	mediasvc "github.com/zeroonecreation/classify/services/media"
	dummydb "github.com/zeroonecreation/classify/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestConfig() *core.Config {
	conf := &core.Config{
		TestMode:         true,
		AppName:          "Classify",
		SecretKey:        []byte("test-secret-key"),
		FrontendBaseURL:  "https://classify.test",
		DefaultFromEmail: mail.Address{Name: "Classify", Address: "noreply@classify.test"},
	}
	conf.Server.Host = ":0"
	conf.Server.JWTExpirationDelta = 365 * 24 * time.Hour
	conf.Server.VerifyCodeTimeout = 5 * time.Minute
	return conf
}

var parseTemplatesOnce sync.Once

type testServer struct {
	*Server

	conf  *core.Config
	codec *auth.Codec

	studentRepo student.Repository
	adminRepo   admin.Repository
	courseRepo  course.Repository

	studentSvc student.Service
	adminSvc   admin.Service
	courseSvc  course.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conf := newTestConfig()
	logger := nopLogger{}
	parseTemplatesOnce.Do(func() { core.ParseEmailTemplates(conf, logger) })

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("newTestServer() failed: %v", err)
	}

	codec, err := auth.NewCodec(conf)
	if err != nil {
		t.Fatalf("newTestServer() failed: %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	studentRepo := dummydb.NewStudentRepository(db)
	adminRepo := dummydb.NewAdminRepository(db)
	courseRepo := dummydb.NewCourseRepository(db)

	studentSvc := student.NewService(studentRepo, conf, logger, mailSvc)
	adminSvc := admin.NewService(adminRepo)
	courseSvc := course.NewService(courseRepo)
	paymentSvc := payment.NewService(dummydb.NewPaymentRepository(db))
	sliderSvc := slider.NewService(dummydb.NewSliderRepository(db))

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Codec:          codec,
		AdminSvc:       adminSvc,
		StudentSvc:     studentSvc,
		CourseSvc:      courseSvc,
		PaymentSvc:     paymentSvc,
		SliderSvc:      sliderSvc,
		MediaSvc:       mediasvc.NewDummyService(5 << 20),
		Hub:            chatsvc.NewHub(logger),
		DisableReqLogs: true,
	})

	return &testServer{
		Server:      server,
		conf:        conf,
		codec:       codec,
		studentRepo: studentRepo,
		adminRepo:   adminRepo,
		courseRepo:  courseRepo,
		studentSvc:  studentSvc,
		adminSvc:    adminSvc,
		courseSvc:   courseSvc,
	}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path string, data ...[]byte) *http.Request {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newAuthRequest(method, path, token string, data ...[]byte) *http.Request {
	req := newRequest(method, path, data...)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshallObj(t *testing.T, data []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("unmarshallObj() failed: %v", err)
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var res response
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decodeResponse() failed: %v; body: %s", err, rec.Body.String())
	}
	return res
}

func createStudent(t *testing.T, repo student.Repository, name, email, pwd string, verified bool) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std := student.Student{
		ID:          "std-" + email,
		FullName:    name,
		Email:       email,
		PhoneNumber: "9876543210",
		Gender:      student.GenderFemale,
		IsVerified:  verified,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("createStudent() failed: %v", err)
		}
	}
	std, err := repo.CreateStudent(std)
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func createAdmin(t *testing.T, repo admin.Repository, name, email, pwd string) admin.Admin {
	t.Helper()
	now := time.Now().UTC()
	adm := admin.Admin{
		ID:        "adm-" + email,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := adm.SetPassword(pwd); err != nil {
		t.Fatalf("createAdmin() failed: %v", err)
	}
	adm, err := repo.CreateAdmin(adm)
	if err != nil {
		t.Fatalf("createAdmin() failed: %v", err)
	}
	return adm
}

// lastSentCode digs the verification code out of the most recently captured
// email. The console mock sends synchronously so this is safe right after a
// request returns.
func lastSentCode(t *testing.T) string {
	t.Helper()
	if len(emailsvc.SentMessages) == 0 {
		t.Fatal("lastSentCode(): no mail was sent")
	}
	msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	code, ok := msg.TemplateData.(map[string]interface{})["Code"].(string)
	if !ok || code == "" {
		t.Fatalf("lastSentCode(): no code in %v", msg.TemplateData)
	}
	return code
}
