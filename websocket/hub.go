package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Event is a push notification to a connected client. Snapshot payloads for
// an open conversation travel on the message stream; the hub only carries
// "something changed, re-fetch" pings for list views.
type Event struct {
	Type      string      `json:"type"`
	ChatID    string      `json:"chat_id,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

const (
	EventSessionsUpdated      = "sessions_updated"
	EventConversationsUpdated = "conversations_updated"
	EventSnapshot             = "snapshot"
	EventError                = "error"
)

// Client is one authenticated websocket connection. Writes are serialized:
// both the hub and the per-conversation stream goroutine write to the same
// conn.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	mu     sync.Mutex
}

func (c *Client) WriteEvent(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(ev)
}

type notification struct {
	event Event
	to    []uuid.UUID
}

// Hub tracks connected clients by user id and fans events out to them. It
// is constructed in main and injected into the handlers that raise events.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	notify  chan notification
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		notify:     make(chan notification, 64),
		clients:    make(map[uuid.UUID]*Client),
	}
}

// Notify queues an event for each of the given users; users without an open
// connection are skipped silently.
func (h *Hub) Notify(ev Event, to ...uuid.UUID) {
	h.notify <- notification{event: ev, to: to}
}

// Run is the hub loop; start it once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			log.Printf("Client registered: %s", client.UserID)
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			h.mu.Lock()
			if existing, ok := h.clients[client.UserID]; ok && existing == client {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
		case n := <-h.notify:
			h.mu.RLock()
			for _, uid := range n.to {
				client, ok := h.clients[uid]
				if !ok {
					continue
				}
				if err := client.WriteEvent(n.event); err != nil {
					log.Printf("Error sending event to client %s: %v", uid, err)
				}
			}
			h.mu.RUnlock()
		}
	}
}
