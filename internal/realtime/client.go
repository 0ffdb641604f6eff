package realtime

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan Event

	mu   sync.Mutex
	subs []Subscription
}

func (c *client) addSubscription(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, sub)
}

func (c *client) wants(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		if sub.matches(ev) {
			return true
		}
	}
	return false
}

// clientMessage is what a page sends over the socket. Only subscription
// management comes from clients; all data flows server to client.
type clientMessage struct {
	Type string `json:"type"` // "subscribe"
	Subscription
}

// ServeWS upgrades the request and pumps events until the page disconnects.
// Closing the page tears the subscription down with it; no explicit
// unsubscribe message exists.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("realtime: upgrade failed: %v", err)
			return
		}

		cl := &client{
			conn: conn,
			send: make(chan Event, 16),
		}

		select {
		case hub.register <- cl:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go cl.writePump()
		cl.readPump(hub)
	}
}

func (c *client) readPump(hub *Hub) {
	defer func() {
		select {
		case hub.unregister <- c:
		case <-hub.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "subscribe":
			if msg.Table == "" {
				continue
			}
			select {
			case hub.subscribe <- subRequest{client: c, sub: msg.Subscription}:
			case <-hub.done:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}
