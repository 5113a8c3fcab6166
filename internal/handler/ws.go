package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pickup/internal/broadcast"
	"pickup/internal/middleware"
	"pickup/internal/service"
)

// WSHandler upgrades authenticated connections into live event sessions.
type WSHandler struct {
	resolver *service.ProfileResolver
	hub      *broadcast.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(resolver *service.ProfileResolver, hub *broadcast.Hub) *WSHandler {
	return &WSHandler{
		resolver: resolver,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Connect handles GET /v1/ws. The connection only carries server pushes;
// inbound frames are read and dropped to service control messages.
func (h *WSHandler) Connect(c *gin.Context) {
	caller, err := h.resolver.Resolve(c.Request.Context(), middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure.
		return
	}

	h.hub.Add(caller.ID, conn)
	defer func() {
		h.hub.Remove(caller.ID, conn)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
