package hub

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// ClientObserver is told how many viewers are connected
type ClientObserver interface {
	ClientsConnected(n int)
}

// outbound is a message for the viewers of one session
type outbound struct {
	sessionID string
	sportKey  string
	message   models.ServerMessage
}

// Hub maintains the set of active clients and broadcasts live session
// messages to them
type Hub struct {
	// Registered clients
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	broadcast  chan outbound
	register   chan *client.Client
	unregister chan *client.Client

	logger   zerolog.Logger
	observer ClientObserver

	// Metrics
	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance. observer may be nil.
func NewHub(logger zerolog.Logger, observer ClientObserver) *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan outbound, 1000),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		logger:     logger.With().Str("component", "hub").Logger(),
		observer:   observer,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info().Msg("hub started")

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case out := <-h.broadcast:
			h.deliver(out)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	h.unregister <- c
}

// PublishLive sends a live increment to the session's viewers
func (h *Hub) PublishLive(update models.LiveUpdate) {
	h.enqueue(outbound{
		sessionID: update.SessionID,
		sportKey:  update.SportKey,
		message: models.ServerMessage{
			Type:      models.MessageTypeLiveUpdate,
			Payload:   update,
			Timestamp: time.Now(),
		},
	})
}

// PublishFinal sends the finalized game record to the session's viewers
func (h *Hub) PublishFinal(sessionID, sportKey string, rec *models.GameRecord) {
	h.enqueue(outbound{
		sessionID: sessionID,
		sportKey:  sportKey,
		message: models.ServerMessage{
			Type:      models.MessageTypeGameFinal,
			Payload:   rec,
			Timestamp: time.Now(),
		},
	})
}

func (h *Hub) enqueue(out outbound) {
	select {
	case h.broadcast <- out:
	default:
		h.logger.Warn().Str("session_id", out.sessionID).Msg("broadcast buffer full, dropping message")
	}
}

func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.clientsMu.Unlock()

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	h.logger.Info().Str("client_id", c.ID).Int("total", n).Msg("client connected")
	h.notify(n)
}

func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.Send)
	}
	n := len(h.clients)
	h.clientsMu.Unlock()

	if ok {
		h.logger.Info().Str("client_id", c.ID).Int("total", n).Msg("client disconnected")
		h.notify(n)
	}
}

// deliver sends a message to every client whose filter matches. Clients
// whose buffer is full are too slow and get disconnected.
func (h *Hub) deliver(out outbound) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	sent, dropped := 0, 0
	for _, c := range clients {
		if !c.MatchesFilter(out.sessionID, out.sportKey) {
			continue
		}

		if c.TrySend(out.message) {
			sent++
		} else {
			dropped++
			h.logger.Warn().Str("client_id", c.ID).Msg("client buffer full, disconnecting")
			go h.Unregister(c)
		}
	}

	if sent > 0 {
		h.metricsMu.Lock()
		h.totalMessages++
		h.metricsMu.Unlock()
	}
	if dropped > 0 {
		h.logger.Warn().Int("dropped", dropped).Msg("dropped messages for slow clients")
	}
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	activeClients := h.GetClientCount()

	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalMessages := h.totalMessages
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) notify(n int) {
	if h.observer != nil {
		h.observer.ClientsConnected(n)
	}
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info().Int("clients", len(h.clients)).Msg("shutting down hub")
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}

func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := h.GetMetrics()
			h.logger.Info().
				Interface("clients", m["active_clients"]).
				Interface("total_connections", m["total_connections"]).
				Interface("messages", m["total_messages"]).
				Msg("hub metrics")
		}
	}
}
