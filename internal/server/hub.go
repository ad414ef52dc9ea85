package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/inkspire/inkspire-client/pkg/metrics"
	"go.uber.org/zap"
)

// EventType names what changed in the client state
type EventType string

const (
	EventNotification EventType = "notification"
	EventPlansUpdated EventType = "plans"
	EventNavigate     EventType = "navigate"
	EventSession      EventType = "session"
	EventPong         EventType = "pong"
)

// Event is one message pushed to connected front ends
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans client state changes out to every open websocket
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	onDismiss  func()
	mu         sync.RWMutex
}

func NewHub(onDismiss func()) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		onDismiss:  onDismiss,
	}
}

// Run serves the hub until ctx is done, then closes every client
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			metrics.WebsocketClients.Set(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.WebsocketClients.Inc()
			logger.Debug("Websocket client registered", zap.String("client_id", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.WebsocketClients.Dec()
			}
			h.mu.Unlock()
			logger.Debug("Websocket client unregistered", zap.String("client_id", client.id))

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-ticker.C:
			logger.Debug("Websocket hub stats", zap.Int("clients", h.Len()))
		}
	}
}

// Register adds client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for every client. Events are dropped when the
// queue is full so a stalled hub never blocks the session or notifier.
func (h *Hub) Publish(eventType EventType, data any) {
	event := &Event{Type: eventType, Data: data, Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		logger.Warn("Websocket broadcast queue full", zap.String("type", string(eventType)))
	}
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal websocket event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			logger.Warn("Websocket client send buffer full", zap.String("client_id", client.id))
		}
	}
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
