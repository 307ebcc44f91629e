package httpinterface

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsClient pairs a connection with a mutex that serializes writes to it.
// The websocket protocol allows at most one concurrent writer per
// connection, while Publish may be called from many goroutines at once.
type wsClient struct {
	writeLock sync.Mutex
	conn      *websocket.Conn
}

func (c *wsClient) write(frame []byte) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// EventHub is an optional push channel: it fans kernel events out to
// connected websocket clients. Clients subscribe by connecting, so the
// Subscribe/Unsubscribe methods of the pubsub contract are no-ops here.
type EventHub struct {
	lock    sync.Mutex
	clients map[*websocket.Conn]*wsClient
}

func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*websocket.Conn]*wsClient)}
}

// ServeWs upgrades the request and registers the connection.
func (h *EventHub) ServeWs(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	h.lock.Lock()
	h.clients[conn] = &wsClient{conn: conn}
	h.lock.Unlock()

	// Drain reads until the peer goes away, then drop the connection.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *EventHub) Subscribe(_, _, _ string) (string, error) {
	return "", nil
}

func (h *EventHub) Unsubscribe(_, _ string) error {
	return nil
}

func (h *EventHub) ListSubscriptionsForTopic(_ string) []ports.Subscription {
	return nil
}

// Publish broadcasts the event frame to every connected client. A client
// that cannot be written to is dropped.
func (h *EventHub) Publish(topic string, message string) error {
	frame, _ := json.Marshal(map[string]interface{}{
		"topic":   topic,
		"payload": json.RawMessage(message),
	})

	h.lock.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.lock.Unlock()

	for _, c := range clients {
		if err := c.write(frame); err != nil {
			h.drop(c.conn)
		}
	}
	return nil
}

func (h *EventHub) drop(conn *websocket.Conn) {
	h.lock.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.lock.Unlock()
}

var _ ports.PubSub = (*EventHub)(nil)
