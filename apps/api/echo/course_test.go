package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroonecreation/classify/core/course"
)

func seedCourse(t *testing.T, ts *testServer, adminToken string) course.Course {
	t.Helper()
	rec := ts.do(newAuthRequest(http.MethodPost, "/api/courses", adminToken,
		marshallObj(t, course.NewCourse{
			Title:        "Physics XII",
			Description:  "Complete board exam preparation.",
			OriginalCost: 1000,
			Discount:     10,
			Validity:     12,
			Category:     "Science",
		})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var crs course.Course
	unmarshallObj(t, marshallObj(t, decodeResponse(t, rec).Data), &crs)
	return crs
}

func Test_courseApi_createAndPrice(t *testing.T) {
	ts := newTestServer(t)
	adm := createAdmin(t, ts.adminRepo, "Root", "root@classify.test", "changeme")
	token, err := ts.codec.Issue(adm.ID, adm.Email, adm.Name)
	require.NoError(t, err)

	crs := seedCourse(t, ts, token)
	assert.NotEmpty(t, crs.ID)
	assert.Equal(t, adm.ID, crs.CreatedBy)
	assert.Equal(t, float64(900), crs.FinalPrice)
	assert.Equal(t, "Hindi", crs.Language) // the default

	t.Run("anonymous may browse", func(t *testing.T) {
		rec := ts.do(newRequest(http.MethodGet, "/api/courses/"+crs.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, float64(900), data["finalPrice"])
	})

	t.Run("anonymous may not create", func(t *testing.T) {
		rec := ts.do(newRequest(http.MethodPost, "/api/courses",
			marshallObj(t, course.NewCourse{Title: "Nope", Description: "Not getting in.", Validity: 1})))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("update recomputes price", func(t *testing.T) {
		discount := 50.0
		rec := ts.do(newAuthRequest(http.MethodPut, "/api/courses/"+crs.ID, token,
			marshallObj(t, course.UpdateCourse{Discount: &discount})))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, float64(500), data["finalPrice"])
	})
}

func Test_courseApi_enrollment(t *testing.T) {
	ts := newTestServer(t)
	adm := createAdmin(t, ts.adminRepo, "Root", "root@classify.test", "changeme")
	token, err := ts.codec.Issue(adm.ID, adm.Email, adm.Name)
	require.NoError(t, err)

	std := createStudent(t, ts.studentRepo, "Asha Verma", "asha@test.in", "s3cret", true)
	crs := seedCourse(t, ts, token)

	enroll := marshallObj(t, EmailRequest{Email: std.Email})
	check := marshallObj(t, EnrollmentCheckRequest{Email: std.Email, CourseID: crs.ID})

	t.Run("not enrolled yet", func(t *testing.T) {
		rec := ts.do(newRequest(http.MethodPost, "/api/is-already-enrolled", check))
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, false, data["isEnrolled"])
	})

	t.Run("enroll starts the subscription year", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodPost, "/api/courses/"+crs.ID+"/enrollment", token, enroll))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, true, data["isSubscribed"])
		assert.NotEmpty(t, data["subscriptionEndDate"])
	})

	t.Run("double enrollment is rejected", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodPost, "/api/courses/"+crs.ID+"/enrollment", token, enroll))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("enrollment is visible everywhere", func(t *testing.T) {
		rec := ts.do(newRequest(http.MethodPost, "/api/is-already-enrolled", check))
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, true, data["isEnrolled"])

		rec = ts.do(newRequest(http.MethodPost, "/api/enrolled-courses", enroll))
		require.Equal(t, http.StatusOK, rec.Code)
		courses := decodeResponse(t, rec).Data.([]interface{})
		require.Len(t, courses, 1)
		assert.Equal(t, crs.ID, courses[0].(map[string]interface{})["id"])

		rec = ts.do(newRequest(http.MethodGet, "/api/courses?studentId="+std.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		listing := decodeResponse(t, rec).Data.([]interface{})
		require.Len(t, listing, 1)
		assert.Equal(t, true, listing[0].(map[string]interface{})["isEnrolled"])
	})

	t.Run("unknown student", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodPost, "/api/courses/"+crs.ID+"/enrollment", token,
			marshallObj(t, EmailRequest{Email: "nobody@test.in"})))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_courseApi_content(t *testing.T) {
	ts := newTestServer(t)
	adm := createAdmin(t, ts.adminRepo, "Root", "root@classify.test", "changeme")
	token, err := ts.codec.Issue(adm.ID, adm.Email, adm.Name)
	require.NoError(t, err)

	crs := seedCourse(t, ts, token)
	base := "/api/courses/" + crs.ID

	// subject
	rec := ts.do(newAuthRequest(http.MethodPost, base+"/subject", token,
		marshallObj(t, course.NewSubject{Name: "Mechanics", Description: "Laws of motion."})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	subjectID := decodeResponse(t, rec).Data.(map[string]interface{})["id"].(string)

	t.Run("duplicate subject name", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodPost, base+"/subject", token,
			marshallObj(t, course.NewSubject{Name: "mechanics", Description: "Same, lowercased."})))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	// chapter
	rec = ts.do(newAuthRequest(http.MethodPost, base+"/subject/"+subjectID+"/chapter", token,
		marshallObj(t, course.NewChapter{Title: "Kinematics", Description: "Motion in one dimension."})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	chapterID := decodeResponse(t, rec).Data.(map[string]interface{})["id"].(string)

	// video defaults to live with chat enabled
	videoBase := base + "/subject/" + subjectID + "/chapter/" + chapterID + "/videos"
	rec = ts.do(newAuthRequest(http.MethodPost, videoBase, token,
		marshallObj(t, course.NewVideo{Title: "Lecture 1", URL: "https://videos.test/lec1"})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	video := decodeResponse(t, rec).Data.(map[string]interface{})
	videoID := video["id"].(string)
	assert.Equal(t, true, video["isLive"])
	assert.Equal(t, true, video["isLiveChatEnabled"])

	t.Run("get-live finds the stream", func(t *testing.T) {
		rec := ts.do(newRequest(http.MethodGet, videoBase+"/get-live"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, videoID, data["id"])
	})

	t.Run("end-live", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodPatch, videoBase+"/"+videoID+"/end-live", token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// no live stream anymore
		rec = ts.do(newRequest(http.MethodGet, videoBase+"/get-live"))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		// ending twice is an error
		rec = ts.do(newAuthRequest(http.MethodPatch, videoBase+"/"+videoID+"/end-live", token))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deleting the course cascades", func(t *testing.T) {
		rec := ts.do(newAuthRequest(http.MethodDelete, base, token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = ts.do(newRequest(http.MethodGet, base+"/subject/"+subjectID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
