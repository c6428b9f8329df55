package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection and registers a viewer. The
// "sessions" and "sports" query parameters set the initial filter.
// GET /ws?sessions=a,b&sports=hockey
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := client.NewClient(uuid.New().String(), conn, h.hub, h.logger)
	c.SetFilter(models.SubscriptionFilter{
		Sessions: splitParam(r.URL.Query().Get("sessions")),
		Sports:   splitParam(r.URL.Query().Get("sports")),
	})

	h.hub.Register(c)

	// Use handler context, not request context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}
