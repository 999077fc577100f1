package chatsvc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var upgrader = websocket.Upgrader{}

func newTestServer(t *testing.T, hub *Hub, roomID, sender string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Join(roomID, sender, conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func Test_Hub_broadcast(t *testing.T) {
	hub := NewHub(nopLogger{})
	srv := newTestServer(t, hub, "video1", "Awe Student")

	sender := dial(t, srv)
	receiver := dial(t, srv)

	require.Eventually(t, func() bool { return hub.RoomSize("video1") == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sender.WriteJSON(map[string]string{"body": "hello class"}))

	msg := readMessage(t, receiver)
	assert.Equal(t, "Awe Student", msg.Sender)
	assert.Equal(t, "hello class", msg.Body)
	assert.False(t, msg.SentAt.IsZero())

	// sender gets their own message back too
	msg = readMessage(t, sender)
	assert.Equal(t, "hello class", msg.Body)
}

func Test_Hub_historyReplayOnJoin(t *testing.T) {
	hub := NewHub(nopLogger{})
	srv := newTestServer(t, hub, "video2", "Awe Student")

	hub.mu.Lock()
	hub.rooms["video2"] = &room{clients: make(map[*Client]bool)}
	hub.mu.Unlock()
	hub.Broadcast("video2", Message{Sender: "Awe Student", Body: "first", SentAt: time.Now().UTC()})
	hub.Broadcast("video2", Message{Sender: "Awe Student", Body: "second", SentAt: time.Now().UTC()})

	late := dial(t, srv)
	assert.Equal(t, "first", readMessage(t, late).Body)
	assert.Equal(t, "second", readMessage(t, late).Body)
}

func Test_Hub_historyCap(t *testing.T) {
	hub := NewHub(nopLogger{})

	hub.mu.Lock()
	hub.rooms["video3"] = &room{clients: make(map[*Client]bool)}
	hub.mu.Unlock()
	for i := 0; i < historySize+10; i++ {
		hub.Broadcast("video3", Message{Sender: "s", Body: "m", SentAt: time.Now().UTC()})
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Len(t, hub.rooms["video3"].history, historySize)
}

func Test_Hub_removeOnDisconnect(t *testing.T) {
	hub := NewHub(nopLogger{})
	srv := newTestServer(t, hub, "video4", "Awe Student")

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.RoomSize("video4") == 1 }, 2*time.Second, 10*time.Millisecond)

	_ = conn.Close()
	require.Eventually(t, func() bool { return hub.RoomSize("video4") == 0 }, 2*time.Second, 10*time.Millisecond)
}
