package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub is the single owner of all live-connection state: which connections
// belong to which user, and which family rooms each connection joined. Every
// mutation and read goes through the hub's mutex; no other component touches
// the underlying maps. Presence is rebuilt from zero on restart — reconnecting
// clients repopulate it.
type Hub struct {
	mu       sync.Mutex
	conns    map[string]*connection
	users    map[string]map[string]struct{}
	families map[string]map[string]struct{}
}

type connection struct {
	id     string
	userID string
	ws     *websocket.Conn
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[string]*connection),
		users:    make(map[string]map[string]struct{}),
		families: make(map[string]map[string]struct{}),
	}
}

// Add registers a live connection under the given user. Adding the same
// connection id twice leaves a single entry.
func (h *Hub) Add(userID, connID string, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[connID] = &connection{id: connID, userID: userID, ws: ws}
	if h.users[userID] == nil {
		h.users[userID] = make(map[string]struct{})
	}
	h.users[userID][connID] = struct{}{}
}

// Remove drops a connection from the user set and every family room it
// joined. Removing an unknown connection id is a no-op. When a user's last
// connection goes, the user entry goes with it.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(connID)
}

func (h *Hub) removeLocked(connID string) {
	conn, ok := h.conns[connID]
	if !ok {
		return
	}
	delete(h.conns, connID)

	if set := h.users[conn.userID]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(h.users, conn.userID)
		}
	}
	for familyID, set := range h.families {
		delete(set, connID)
		if len(set) == 0 {
			delete(h.families, familyID)
		}
	}
}

// JoinFamily moves a connection into a family room. A connection may sit in
// any number of family rooms independent of its user room.
func (h *Hub) JoinFamily(connID, familyID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return
	}
	if h.families[familyID] == nil {
		h.families[familyID] = make(map[string]struct{})
	}
	h.families[familyID][connID] = struct{}{}
}

// LeaveFamily removes a connection from a family room; unknown rooms and
// non-member connections are no-ops
func (h *Hub) LeaveFamily(connID, familyID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set := h.families[familyID]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(h.families, familyID)
		}
	}
}

// ConnectionsFor returns the ids of the user's live connections
func (h *Hub) ConnectionsFor(userID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.users[userID]))
	for id := range h.users[userID] {
		ids = append(ids, id)
	}
	return ids
}

// IsOnline reports whether the user has at least one live connection
func (h *Hub) IsOnline(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.users[userID]) > 0
}

// EmitToUser writes an event to every live connection of the user. A user
// with no connections is a no-op, not an error. Connections that fail the
// write are pruned on the spot.
func (h *Hub) EmitToUser(userID, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for connID := range h.users[userID] {
		h.writeLocked(connID, event, payload)
	}
}

// EmitToFamily writes an event to every connection in the family room
func (h *Hub) EmitToFamily(familyID, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for connID := range h.families[familyID] {
		h.writeLocked(connID, event, payload)
	}
}

func (h *Hub) writeLocked(connID, event string, payload interface{}) {
	conn, ok := h.conns[connID]
	if !ok || conn.ws == nil {
		return
	}
	err := conn.ws.WriteJSON(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
	if err != nil {
		zap.S().Debugw("dropping dead connection on write error",
			"connId", connID, "userId", conn.userID, "error", err)
		conn.ws.Close()
		h.removeLocked(connID)
	}
}
