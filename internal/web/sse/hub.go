// Package sse streams live registration events to signed-in admins
package sse

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/cricketreg/internal/model"
)

// RegistrationEvent is the event name sent when a player registers
const RegistrationEvent = "registration"

// Hub fans registration events out to every connected dashboard
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub; call Run to start delivering events
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("component", "sse")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns once Close is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("dashboard feed connected",
				slog.String("admin", client.admin),
				slog.Int("total_clients", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.clients[client] {
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client)
			close(client.send)
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("dashboard feed disconnected",
				slog.String("admin", client.admin),
				slog.Duration("connection_duration", time.Since(client.connectedAt)),
				slog.Int("total_clients", count))

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("dashboard feed dropped events for slow clients", slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			count := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("dashboard feed stopped", slog.Int("disconnected_clients", count))
			return
		}
	}
}

// Register adds a client. It reports false if the hub has been closed.
func (h *Hub) Register(client *Client) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastEvent queues a named event for every client
func (h *Hub) BroadcastEvent(event, data string) {
	select {
	case h.broadcast <- formatMessage(event, data):
	default:
		h.logger.Warn("dashboard feed buffer full", slog.String("event", event))
	}
}

// Registered announces a new registration to connected dashboards
func (h *Hub) Registered(reg *model.PlayerRegistration) {
	data, err := json.Marshal(registrationPayload{
		ID:          string(reg.ID),
		League:      string(reg.League),
		LeagueLabel: reg.League.Label(),
		PlayerName:  reg.PlayerName,
		Profile:     string(reg.Profile),
	})
	if err != nil {
		h.logger.Error("failed to encode registration event", slog.Any("error", err))
		return
	}
	h.BroadcastEvent(RegistrationEvent, string(data))
}

// Close disconnects every client and stops Run
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type registrationPayload struct {
	ID          string `json:"id"`
	League      string `json:"league"`
	LeagueLabel string `json:"league_label"`
	PlayerName  string `json:"player_name"`
	Profile     string `json:"profile"`
}

// formatMessage writes an event with one "data:" line per line of data
func formatMessage(event, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + event + "\n")
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r", ""), "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}
