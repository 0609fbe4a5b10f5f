// Package ws streams live readings and alerts to connected operator
// clients over websockets.
package ws

import (
	"encoding/json"

	"sugarmill-monitor/internal/bus"
	"sugarmill-monitor/internal/logging"
)

// envelope is the wire frame sent to clients.
type envelope struct {
	Type    string          `json:"type"` // "reading" or "alert"
	Payload json.RawMessage `json:"payload"`
}

// Hub maintains the set of connected clients and broadcasts bus events to
// them. Slow clients are dropped rather than allowed to block the rest.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     *logging.Logger
	stop       chan struct{}
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		stop:       make(chan struct{}),
	}
}

// Run processes register/unregister/broadcast events until Close.
func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infof("Websocket client connected (%d total)", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Infof("Websocket client disconnected (%d total)", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
					h.logger.Warnf("Websocket client send buffer full, dropping client")
				}
			}
		}
	}
}

// Close stops the run loop and disconnects all clients.
func (h *Hub) Close() {
	close(h.stop)
}

// Broadcast frames the payload and queues it for all clients.
func (h *Hub) Broadcast(eventType string, payload []byte) {
	frame, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Errorf("Websocket marshal failed: %v", err)
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		// Broadcast queue full; drop rather than stall the bus handler.
	}
}

// Attach subscribes the hub to both change streams. The returned function
// detaches it.
func (h *Hub) Attach(sub bus.Subscriber) func() {
	offReadings := sub.Subscribe(bus.StreamReadingInserted, func(payload []byte) {
		h.Broadcast("reading", payload)
	})
	offAlerts := sub.Subscribe(bus.StreamAlertInserted, func(payload []byte) {
		h.Broadcast("alert", payload)
	})
	return func() {
		offReadings()
		offAlerts()
	}
}
