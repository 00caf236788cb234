package sse

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gin-gonic/gin"
)

// Event is a single server-sent event pushed to a connected client
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type client struct {
	userID string
	ch     chan Event
}

// Manager fans events out to the SSE connections of each user.
// It is a one-way stream: the core emits, the UI listens, nothing blocks on
// acknowledgment. Events for users without an open connection are dropped.
type Manager struct {
	mu         sync.RWMutex
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run processes client registration. Call in a goroutine at startup.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			m.clients[c] = struct{}{}
			m.mu.Unlock()
		case c := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[c]; ok {
				delete(m.clients, c)
				close(c.ch)
			}
			m.mu.Unlock()
		}
	}
}

// SendToUser delivers an event to every open connection of a user.
// Slow consumers are skipped instead of blocking the sender.
func (m *Manager) SendToUser(userID string, eventType string, payload interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for c := range m.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.ch <- Event{Type: eventType, Payload: payload}:
		default:
			log.Printf("[SSE] Dropping event %s for user %s: client buffer full", eventType, userID)
		}
	}
}

// ServeHTTP upgrades the gin request into an SSE stream for the user
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	cl := &client{
		userID: userID,
		ch:     make(chan Event, 32),
	}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	for {
		select {
		case event, ok := <-cl.ch:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Payload)
			if err != nil {
				log.Printf("[SSE] Failed to marshal payload for event %s: %v", event.Type, err)
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event.Type, data)
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
