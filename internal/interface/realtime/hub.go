package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

// Wire events on the websocket channel.
const (
	EventSend    = "send-notification"
	EventReceive = "receive-notification"
)

// Envelope is the typed realtime frame. Kind must be a known notification
// event type; frames with unknown kinds are dropped at the boundary.
type Envelope struct {
	Event   string          `json:"event"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced at the HTTP layer
	},
}

// client wraps a connection with a write lock; gorilla connections do not
// allow concurrent writers.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub relays notification envelopes between connected clients: a frame sent
// by one client goes to every other client, best effort, at most once.
// Nothing is persisted and disconnects silently leave the broadcast set.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	logger  *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{clients: make(map[string]*client), logger: logger}
}

// Handle upgrades the request and serves the connection until it closes.
// Each connection gets an ephemeral identity.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Warn("websocket upgrade failed")
		}
		return
	}

	id := uuid.NewString()
	cl := &client{conn: conn}

	h.mu.Lock()
	h.clients[id] = cl
	h.mu.Unlock()

	if h.logger != nil {
		h.logger.WithField("conn_id", id).Debug("websocket connected")
	}

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		_ = conn.Close()
		if h.logger != nil {
			h.logger.WithField("conn_id", id).Debug("websocket disconnected")
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		out, ok := Relay(raw)
		if !ok {
			continue
		}
		h.broadcast(out, id)
	}
}

// Relay validates an inbound frame and rewrites it for fan-out. It returns
// false when the frame is not a well-formed send-notification envelope with
// a known kind.
func Relay(raw []byte) ([]byte, bool) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	if env.Event != EventSend || !entity.KnownNotificationType(env.Kind) {
		return nil, false
	}
	env.Event = EventReceive
	out, err := json.Marshal(env)
	if err != nil {
		return nil, false
	}
	return out, true
}

// broadcast writes data to every client except excludeID. Write failures
// are ignored; the failing client's read loop will drop it.
func (h *Hub) broadcast(data []byte, excludeID string) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for id, cl := range h.clients {
		if id == excludeID {
			continue
		}
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		_ = cl.send(data)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Bridge subscribes to the Redis notify channel and fans server-published
// envelopes out to every connected client. Blocks until ctx is done.
func (h *Hub) Bridge(ctx context.Context, rdb *redis.Client, channel string) {
	sub := rdb.Subscribe(ctx, channel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload), "")
		}
	}
}
