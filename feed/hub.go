// Package feed is the real-time fan-out of the take feed. A single Hub
// carries one logical topic shared by all viewers: every create, like and
// unlike gets published to every client connected at that moment. Delivery
// is best-effort, a client that isn't connected never sees the event.
package feed

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"hottakes/domain"
)

// Event is the wire shape of a feed broadcast.
type Event struct {
	Type string           `json:"type"`
	Take *domain.TakeView `json:"take"`
}

// Hub maintains the set of active clients and broadcasts events to them.
// All client bookkeeping happens on the Run goroutine, the channels are
// the only way in.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     zerolog.Logger
}

// NewHub returns a new Hub. Call Run to start it.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Ensure the Hub properly implements the domain.Broadcaster interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.Broadcaster = &Hub{}

// Publish serializes a feed event and hands it off to the fan-out loop.
// It never blocks the caller: if the hub's buffer is full the event is
// dropped and logged, a slow feed must not delay the write that caused it.
func (h *Hub) Publish(event string, view *domain.TakeView) {
	payload, err := json.Marshal(Event{Type: event, Take: view})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("feed: marshal event")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn().Str("event", event).Msg("feed: broadcast buffer full, event dropped")
	}
}

// Run is the hub's fan-out loop. It owns the client set and distributes
// events until the context is canceled, then closes every client down.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug().Int("clients", len(h.clients)).Msg("feed: subscriber joined")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.logger.Debug().Int("clients", len(h.clients)).Msg("feed: subscriber left")
		case payload := <-h.broadcast:
			for client := range h.clients {
				// Per-client buffered send. A client that can't keep up
				// gets dropped rather than holding everyone else back.
				select {
				case client.send <- payload:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return ctx.Err()
		}
	}
}
