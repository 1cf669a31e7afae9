package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynans/fynans-api/models"
	"github.com/fynans/fynans-api/notifications"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, subject string) string {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func newTestGateway(t *testing.T) (*Gateway, *httptest.Server) {
	g := NewGateway(testSecret)
	server := httptest.NewServer(http.HandlerFunc(g.ServeWS))
	t.Cleanup(server.Close)
	return g, server
}

func wsURL(server *httptest.Server, query string) string {
	u := "ws" + strings.TrimPrefix(server.URL, "http")
	if query != "" {
		u += "?" + query
	}
	return u
}

func waitForOnline(t *testing.T, g *Gateway, userID string) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if g.IsOnline(userID) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("user %s never came online", userID)
}

func TestGateway_AuthenticatedConnectRegistersPresence(t *testing.T) {
	g, server := newTestGateway(t)
	token := signToken(t, testSecret, "user-1")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForOnline(t, g, "user-1")
}

func TestGateway_AuthorizationHeaderAccepted(t *testing.T) {
	g, server := newTestGateway(t)
	token := signToken(t, testSecret, "user-2")

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, ""), header)
	require.NoError(t, err)
	defer conn.Close()

	waitForOnline(t, g, "user-2")
}

func TestGateway_MissingTokenClosed(t *testing.T) {
	g, server := newTestGateway(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	assert.False(t, g.IsOnline("user-1"))
}

func TestGateway_BadTokenClosed(t *testing.T) {
	g, server := newTestGateway(t)
	forged := signToken(t, []byte("wrong-secret"), "user-1")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "token="+forged), nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.False(t, g.IsOnline("user-1"))
}

func TestGateway_EmitToUserReachesClient(t *testing.T) {
	g, server := newTestGateway(t)
	token := signToken(t, testSecret, "user-1")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForOnline(t, g, "user-1")

	g.BroadcastNotification(models.Notification{
		UserID: "user-1",
		Type:   models.NotificationTypeFamilyExpenseCreated,
		Title:  "New Expense",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope struct {
		Event string `json:"event"`
		Data  struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&envelope))
	assert.Equal(t, notifications.EventNotificationNew, envelope.Event)
	assert.Equal(t, "New Expense", envelope.Data.Title)
}

func TestGateway_FamilySubscription(t *testing.T) {
	g, server := newTestGateway(t)
	token := signToken(t, testSecret, "user-1")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForOnline(t, g, "user-1")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event": "subscribe:family",
		"data":  map[string]string{"familyId": "family-1"},
	}))

	// the read loop processes the subscribe asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.Hub.mu.Lock()
		members := len(g.Hub.families["family-1"])
		g.Hub.mu.Unlock()
		if members == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	g.EmitToFamily("family-1", "family:update", map[string]string{"familyId": "family-1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope struct {
		Event string `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&envelope))
	assert.Equal(t, "family:update", envelope.Event)
}

func TestGateway_DisconnectClearsPresence(t *testing.T) {
	g, server := newTestGateway(t)
	token := signToken(t, testSecret, "user-1")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "token="+token), nil)
	require.NoError(t, err)
	waitForOnline(t, g, "user-1")

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !g.IsOnline("user-1") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("presence not cleared after disconnect")
}
