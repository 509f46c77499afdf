// Package services provides business logic services
package services

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"github.com/nats-io/nats.go"
)

// ActivityHub fans catalogue mutation events from NATS out to WebSocket
// clients. Every connected client receives every event; there is no
// per-subject subscription protocol.
type ActivityHub struct {
	natsConn *nats.Conn
	natsSub  *nats.Subscription

	// WebSocket connections
	clients   map[*ActivityClient]bool
	clientsMu sync.RWMutex

	register   chan *ActivityClient
	unregister chan *ActivityClient

	eventsReceived  uint64
	eventsDelivered uint64
}

// ActivityMessage is the wire format sent to clients
type ActivityMessage struct {
	Type    string          `json:"type"`    // activity, pong, error
	Subject string          `json:"subject"` // NATS subject the event arrived on
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewActivityHub creates a hub reading from the given NATS connection
func NewActivityHub(natsConn *nats.Conn) *ActivityHub {
	return &ActivityHub{
		natsConn:   natsConn,
		clients:    make(map[*ActivityClient]bool),
		register:   make(chan *ActivityClient),
		unregister: make(chan *ActivityClient),
	}
}

// Register adds a client to the hub
func (h *ActivityHub) Register(client *ActivityClient) {
	h.register <- client
}

// Run subscribes to the activity subjects and starts the hub's main loop
func (h *ActivityHub) Run() {
	sub, err := h.natsConn.Subscribe("activity.>", func(msg *nats.Msg) {
		h.broadcast(msg.Subject, msg.Data)
	})
	if err != nil {
		log.Printf("⚠️ Activity hub failed to subscribe: %v", err)
		return
	}
	h.natsSub = sub

	log.Println("📺 Activity hub started")

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("📺 Activity client connected: %s", client.remoteAddr)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
			log.Printf("📺 Activity client disconnected: %s", client.remoteAddr)
		}
	}
}

// broadcast sends one event to every connected client. Clients with a full
// send buffer skip the event rather than block the hub.
func (h *ActivityHub) broadcast(subject string, data []byte) {
	atomic.AddUint64(&h.eventsReceived, 1)

	msg := ActivityMessage{
		Type:    "activity",
		Subject: subject,
		Data:    data,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.clientsMu.RLock()
	for client := range h.clients {
		select {
		case client.send <- msgBytes:
			atomic.AddUint64(&h.eventsDelivered, 1)
		default:
			// Client buffer full, skip event
		}
	}
	h.clientsMu.RUnlock()
}

// HubStats holds hub statistics
type HubStats struct {
	Clients         int    `json:"clients"`
	EventsReceived  uint64 `json:"eventsReceived"`
	EventsDelivered uint64 `json:"eventsDelivered"`
}

func (h *ActivityHub) Stats() HubStats {
	h.clientsMu.RLock()
	clientCount := len(h.clients)
	h.clientsMu.RUnlock()

	return HubStats{
		Clients:         clientCount,
		EventsReceived:  atomic.LoadUint64(&h.eventsReceived),
		EventsDelivered: atomic.LoadUint64(&h.eventsDelivered),
	}
}
