// Package realtime is the in-process change feed. Handlers publish one event
// per committed row write; connected WebSocket clients receive the events
// matching their subscriptions, mirroring the push feed the pages rely on.
package realtime

import (
	"context"
	"sync"
)

// Change-feed event types.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
	EventAll    = "*"
)

// Event is one row change. SessionID and CategoryID are filter keys; either
// may be empty when the table has no such column.
type Event struct {
	Table      string `json:"table"`
	Type       string `json:"type"`
	SessionID  string `json:"sessionId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	Row        any    `json:"row"`
}

// Subscription narrows the feed to one table, optionally to one event type
// and one session or category.
type Subscription struct {
	Table      string `json:"table"`
	Event      string `json:"event"`
	SessionID  string `json:"sessionId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
}

func (s Subscription) matches(ev Event) bool {
	if s.Table != ev.Table {
		return false
	}
	if s.Event != "" && s.Event != EventAll && s.Event != ev.Type {
		return false
	}
	if s.SessionID != "" && s.SessionID != ev.SessionID {
		return false
	}
	if s.CategoryID != "" && s.CategoryID != ev.CategoryID {
		return false
	}
	return true
}

// Hub fans events out to subscribed clients. A single goroutine owns the
// client map; registration, subscription changes, and publishes all go
// through channels.
type Hub struct {
	register   chan *client
	unregister chan *client
	subscribe  chan subRequest
	events     chan Event
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}

	onClientCount func(int)
}

type subRequest struct {
	client *client
	sub    Subscription
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		subscribe:  make(chan subRequest),
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// OnClientCount registers a callback invoked with the connected-client count
// whenever it changes. Used for the metrics gauge.
func (h *Hub) OnClientCount(fn func(int)) {
	h.onClientCount = fn
}

// Run processes hub traffic until ctx is cancelled, then disconnects all
// clients. Closing done lets client pumps that outlive the hub unblock.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.notifyCount(count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.notifyCount(count)

		case req := <-h.subscribe:
			req.client.addSubscription(req.sub)

		case ev := <-h.events:
			h.mu.RLock()
			for c := range h.clients {
				if !c.wants(ev) {
					continue
				}
				select {
				case c.send <- ev:
				default:
					// Slow client; drop the event rather than block the feed.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish enqueues a row-change event. Safe to call from any goroutine; drops
// the event if the hub buffer is full rather than stalling a request handler.
func (h *Hub) Publish(ev Event) {
	select {
	case h.events <- ev:
	default:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
	h.notifyCount(0)
}

func (h *Hub) notifyCount(n int) {
	if h.onClientCount != nil {
		h.onClientCount(n)
	}
}
