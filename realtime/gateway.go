package realtime

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fynans/fynans-api/models"
	"github.com/fynans/fynans-api/notifications"
)

// Client-to-server messages understood by the gateway
const (
	messageSubscribeFamily   = "subscribe:family"
	messageUnsubscribeFamily = "unsubscribe:family"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// Gateway is the realtime connection layer wrapping the presence hub. Clients
// authenticate with a bearer token on the handshake, land in their own user
// room, and may subscribe to family rooms with subscribe:family messages.
type Gateway struct {
	Hub       *Hub
	JWTSecret []byte
}

// NewGateway returns a gateway with a fresh hub
func NewGateway(jwtSecret []byte) *Gateway {
	return &Gateway{
		Hub:       NewHub(),
		JWTSecret: jwtSecret,
	}
}

type clientMessage struct {
	Event string `json:"event"`
	Data  struct {
		FamilyID string `json:"familyId"`
	} `json:"data"`
}

// ServeWS handles the /ws/notifications endpoint. Connections that present no
// token, or a token that fails validation, are closed immediately.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	userID, err := g.authenticate(r)
	if err != nil {
		zap.S().Debugw("rejecting unauthenticated websocket connection", "error", err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"))
		conn.Close()
		return
	}

	connID := uuid.New().String()
	g.Hub.Add(userID, connID, conn)
	zap.S().Infow("websocket client connected", "connId", connID, "userId", userID)

	defer func() {
		g.Hub.Remove(connID)
		conn.Close()
		zap.S().Infow("websocket client disconnected", "connId", connID, "userId", userID)
	}()

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Event {
		case messageSubscribeFamily:
			if msg.Data.FamilyID != "" {
				g.Hub.JoinFamily(connID, msg.Data.FamilyID)
			}
		case messageUnsubscribeFamily:
			if msg.Data.FamilyID != "" {
				g.Hub.LeaveFamily(connID, msg.Data.FamilyID)
			}
		}
	}
}

// authenticate pulls the bearer token from the handshake (token query
// parameter or Authorization header) and validates it as an HS256 session JWT
func (g *Gateway) authenticate(r *http.Request) (string, error) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		raw = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if raw == "" {
		return "", fmt.Errorf("no token in handshake")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.JWTSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return userID, nil
}

// EmitToUser broadcasts an event to every live connection of the user; a user
// with no connections is a no-op
func (g *Gateway) EmitToUser(userID, event string, payload interface{}) {
	g.Hub.EmitToUser(userID, event, payload)
}

// EmitToFamily broadcasts an event to the family room
func (g *Gateway) EmitToFamily(familyID, event string, payload interface{}) {
	g.Hub.EmitToFamily(familyID, event, payload)
}

// IsOnline reports whether the user has a live connection
func (g *Gateway) IsOnline(userID string) bool {
	return g.Hub.IsOnline(userID)
}

// BroadcastNotification pushes a freshly created notification to its owner
func (g *Gateway) BroadcastNotification(notification models.Notification) {
	g.EmitToUser(notification.UserID, notifications.EventNotificationNew, notification)
}
