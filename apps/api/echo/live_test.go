package echoapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroonecreation/classify/core/course"
	chatsvc "github.com/zeroonecreation/classify/services/chat"
)

func Test_liveApi_chat(t *testing.T) {
	ts := newTestServer(t)

	adm := createAdmin(t, ts.adminRepo, "Root", "root@classify.test", "changeme")
	crs, err := ts.courseSvc.Create(adm.ID, course.NewCourse{
		Title:       "Physics XII",
		Description: "Complete board exam preparation.",
		Validity:    12,
	})
	require.NoError(t, err)
	sub, err := ts.courseSvc.CreateSubject(crs.ID, course.NewSubject{Name: "Mechanics", Description: "Laws of motion."})
	require.NoError(t, err)
	chp, err := ts.courseSvc.CreateChapter(sub.ID, course.NewChapter{Title: "Kinematics", Description: "Motion in one dimension."})
	require.NoError(t, err)
	vid, err := ts.courseSvc.CreateVideo(chp.ID, course.NewVideo{Title: "Lecture 1", URL: "https://videos.test/lec1"})
	require.NoError(t, err)

	asha := createStudent(t, ts.studentRepo, "Asha Verma", "asha@test.in", "s3cret", true)
	rohan := createStudent(t, ts.studentRepo, "Rohan Mehta", "rohan@test.in", "s3cret", true)

	srv := httptest.NewServer(ts)
	defer srv.Close()

	wsURL := func(videoID string) string {
		return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/live/" + videoID + "/chat"
	}
	dial := func(t *testing.T, videoID, token string) *websocket.Conn {
		t.Helper()
		header := http.Header{"Authorization": []string{"Bearer " + token}}
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(videoID), header)
		require.NoError(t, err)
		return conn
	}
	tokenFor := func(t *testing.T, id, email, name string) string {
		t.Helper()
		token, err := ts.codec.Issue(id, email, name)
		require.NoError(t, err)
		return token
	}

	t.Run("session required", func(t *testing.T) {
		_, res, err := websocket.DefaultDialer.Dial(wsURL(vid.ID), nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("messages fan out with the sender's name", func(t *testing.T) {
		a := dial(t, vid.ID, tokenFor(t, asha.ID, asha.Email, asha.FullName))
		defer a.Close()
		b := dial(t, vid.ID, tokenFor(t, rohan.ID, rohan.Email, rohan.FullName))
		defer b.Close()

		require.NoError(t, a.WriteJSON(map[string]string{"body": "Namaste!"}))

		var msg chatsvc.Message
		require.NoError(t, b.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, b.ReadJSON(&msg))
		assert.Equal(t, "Asha Verma", msg.Sender)
		assert.Equal(t, "Namaste!", msg.Body)
	})

	t.Run("ending the stream closes the room", func(t *testing.T) {
		a := dial(t, vid.ID, tokenFor(t, asha.ID, asha.Email, asha.FullName))
		defer a.Close()

		// echo a message back first so we know the join completed
		require.NoError(t, a.WriteJSON(map[string]string{"body": "Still there?"}))
		require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg chatsvc.Message
		require.NoError(t, a.ReadJSON(&msg))

		admToken := tokenFor(t, adm.ID, adm.Email, adm.Name)
		endLivePath := "/api/courses/" + crs.ID + "/subject/" + sub.ID +
			"/chapter/" + chp.ID + "/videos/" + vid.ID + "/end-live"
		rec := ts.do(newAuthRequest(http.MethodPatch, endLivePath, admToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// connected clients are kicked out
		require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
		assert.Error(t, a.ReadJSON(&msg))

		// ... and new joins are rejected
		_, res, err := websocket.DefaultDialer.Dial(
			wsURL(vid.ID),
			http.Header{"Authorization": []string{"Bearer " + tokenFor(t, rohan.ID, rohan.Email, rohan.FullName)}},
		)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}
