package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/monitoring"
	"github.com/glidebrowser/glide/internal/shared/id"
	"github.com/glidebrowser/glide/internal/shared/types"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
}

type client struct {
	id   id.ClientID
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and broadcasts shell events to them.
// It implements the tab registry's Events contract.
type Hub struct {
	mu      sync.RWMutex
	clients map[id.ClientID]*client
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHub creates an empty hub. metrics may be nil.
func NewHub(log *logging.Logger, metrics *monitoring.Metrics) *Hub {
	return &Hub{
		clients: make(map[id.ClientID]*client),
		log:     log.For("ws"),
		metrics: metrics,
	}
}

// Emit broadcasts one message to every connected client. A client
// whose send queue is full is disconnected; state sync must not block
// on a stuck socket.
func (h *Hub) Emit(msg types.WSMessage) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		h.log.Error("failed to encode event", zap.Error(err))
		return
	}

	h.mu.RLock()
	var stuck []*client
	for _, cl := range h.clients {
		select {
		case cl.send <- data:
			if h.metrics != nil {
				h.metrics.WSMessages.WithLabelValues("sent").Inc()
			}
		default:
			stuck = append(stuck, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range stuck {
		h.log.Warn("dropping slow client", zap.String("client", cl.id.String()))
		h.remove(cl)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleConnection upgrades the request and serves the client until it
// disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   id.NewClientID(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[cl.id] = cl
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
	h.log.Info("client connected", zap.String("client", cl.id.String()))

	h.sendTo(cl, types.WSMessage{Type: "system", Message: "connected"})

	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) sendTo(cl *client, msg types.WSMessage) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case cl.send <- data:
	default:
	}
}

func (h *Hub) readPump(cl *client) {
	defer h.remove(cl)
	cl.conn.SetReadLimit(1 << 16)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}
		if h.metrics != nil {
			h.metrics.WSMessages.WithLabelValues("received").Inc()
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.sendTo(cl, types.WSMessage{Type: "error", Message: "malformed message"})
			continue
		}
		switch msg.Type {
		case "ping":
			h.sendTo(cl, types.WSMessage{Type: "pong"})
		default:
			h.sendTo(cl, types.WSMessage{Type: "error", Message: "unknown message type"})
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl.id)
	h.mu.Unlock()

	close(cl.send)
	if h.metrics != nil {
		h.metrics.WSConnections.Dec()
	}
	h.log.Info("client disconnected", zap.String("client", cl.id.String()))
}
