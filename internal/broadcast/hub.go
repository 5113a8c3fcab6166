package broadcast

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// session wraps one websocket connection; the mutex serializes writes.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(ev)
}

// Hub holds the websocket sessions of connected profiles.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*session)}
}

// Add registers a profile's connection, replacing any previous one.
func (h *Hub) Add(profileID string, conn *websocket.Conn) {
	h.mu.Lock()
	prev := h.sessions[profileID]
	h.sessions[profileID] = &session{conn: conn}
	h.mu.Unlock()

	if prev != nil {
		_ = prev.conn.Close()
	}
}

// Remove drops a profile's connection if conn is still the registered one.
func (h *Hub) Remove(profileID string, conn *websocket.Conn) {
	h.mu.Lock()
	if s, ok := h.sessions[profileID]; ok && s.conn == conn {
		delete(h.sessions, profileID)
	}
	h.mu.Unlock()
}

// Send pushes an event to one profile's session, if connected.
func (h *Hub) Send(profileID string, ev Event) bool {
	h.mu.RLock()
	s, ok := h.sessions[profileID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if err := s.send(ev); err != nil {
		log.Printf("ws send to %s failed: %v", profileID, err)
		return false
	}
	return true
}
