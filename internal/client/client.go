package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // Must be less than pongWait

	// Subscribe requests are small; anything larger is a misbehaving peer
	maxMessageSize = 4096

	// SendBufferSize is how many messages may queue for a slow viewer before
	// the hub starts dropping them
	SendBufferSize = 256
)

// Hub is the part of the broadcast hub a client talks back to
type Hub interface {
	Unregister(client *Client)
}

// Client is one websocket viewer of live sessions
type Client struct {
	ID   string
	Send chan models.ServerMessage // Written by the hub, drained by WritePump

	conn      *websocket.Conn
	hub       Hub
	logger    zerolog.Logger
	closeOnce sync.Once

	filterMu sync.RWMutex
	filter   models.SubscriptionFilter

	connectedAt time.Time
	sent        atomic.Int64
	received    atomic.Int64
	lastSeen    atomic.Int64 // Unix nanos of the last message either way
}

// NewClient creates a client. conn may be nil in tests that never start the
// pumps.
func NewClient(id string, conn *websocket.Conn, hub Hub, logger zerolog.Logger) *Client {
	return &Client{
		ID:          id,
		Send:        make(chan models.ServerMessage, SendBufferSize),
		conn:        conn,
		hub:         hub,
		logger:      logger.With().Str("component", "ws_client").Str("client_id", id).Logger(),
		connectedAt: time.Now(),
	}
}

// ReadPump reads viewer requests until the connection closes or ctx ends.
// It unregisters the client on return.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	// A blocked read only returns once the connection is closed
	stop := context.AfterFunc(ctx, c.close)
	defer stop()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg models.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				c.sendError("invalid_message", "message is not valid JSON")
				continue
			}
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("unexpected close")
			}
			return
		}

		c.received.Add(1)
		c.touch()
		c.HandleMessage(msg)
	}
}

// WritePump drains Send to the connection and keeps it alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.writeClose(websocket.CloseGoingAway, "server shutting down")
			return

		case message, ok := <-c.Send:
			if !ok {
				// Hub closed the channel
				c.writeClose(websocket.CloseNormalClosure, "")
				return
			}

			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Warn().Err(err).Str("type", message.Type).Msg("write failed")
				return
			}
			c.sent.Add(1)
			c.touch()

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking. It returns false when the
// client's buffer is full.
func (c *Client) TrySend(msg models.ServerMessage) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// SetFilter replaces the client's subscription filter
func (c *Client) SetFilter(filter models.SubscriptionFilter) {
	c.filterMu.Lock()
	c.filter = filter
	c.filterMu.Unlock()
}

// GetFilter returns the client's current filter
func (c *Client) GetFilter() models.SubscriptionFilter {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return c.filter
}

// MatchesFilter reports whether the client wants messages of a session.
// An empty filter matches everything.
func (c *Client) MatchesFilter(sessionID, sportKey string) bool {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return matches(c.filter.Sessions, sessionID) && matches(c.filter.Sports, sportKey)
}

// GetStats returns connection statistics
func (c *Client) GetStats() models.ConnectionStats {
	stats := models.ConnectionStats{
		ClientID:          c.ID,
		ConnectedAt:       c.connectedAt,
		MessagesSent:      c.sent.Load(),
		MessagesReceived:  c.received.Load(),
		BufferSize:        SendBufferSize,
		BufferUtilization: float64(len(c.Send)) / float64(SendBufferSize) * 100.0,
	}
	if ns := c.lastSeen.Load(); ns > 0 {
		stats.LastMessageAt = time.Unix(0, ns)
	}
	return stats
}

// HandleMessage applies one viewer request
func (c *Client) HandleMessage(msg models.ClientMessage) {
	switch msg.Type {
	case models.MessageTypeSubscribe:
		var filter models.SubscriptionFilter
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &filter); err != nil {
				c.sendError("invalid_filter", "subscribe payload must be {sessions, sports}")
				return
			}
		}
		c.SetFilter(filter)
		c.logger.Debug().Strs("sessions", filter.Sessions).Strs("sports", filter.Sports).Msg("subscribed")

	case models.MessageTypeUnsubscribe:
		c.SetFilter(models.SubscriptionFilter{})
		c.logger.Debug().Msg("unsubscribed")

	case models.MessageTypeHeartbeat:
		c.TrySend(models.ServerMessage{
			Type:      models.MessageTypeHeartbeat,
			Payload:   c.GetStats(),
			Timestamp: time.Now(),
		})

	default:
		c.sendError("unknown_message_type", fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func (c *Client) sendError(code, message string) {
	c.TrySend(models.ServerMessage{
		Type:      models.MessageTypeError,
		Payload:   models.ErrorMessage{Code: code, Message: message},
		Timestamp: time.Now(),
	})
}

func (c *Client) writeClose(code int, text string) {
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) touch() {
	c.lastSeen.Store(time.Now().UnixNano())
}

func matches(allowed []string, v string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
