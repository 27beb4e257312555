package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/campus360/portal-api/pkg/config"
)

const maxMessageSize = 4096

// clientMessage is what a connected browser sends. Only the
// join_club_rooms event is recognised; anything else is ignored.
type clientMessage struct {
	Event   string   `json:"event"`
	ClubIDs []string `json:"clubIds"`
}

// Client is one websocket connection registered with the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	cfg  config.RealtimeConfig
}

func (c *Client) enqueue(payload []byte) {
	// Non-blocking send: a slow consumer drops notifications rather
	// than stalling the broadcast.
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PingInterval * 2))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PingInterval * 2))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			// Malformed payloads are ignored, not rejected: the
			// connection simply joins nothing.
			continue
		}
		if msg.Event == "join_club_rooms" {
			c.hub.joinRooms(c, msg.ClubIDs)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Handler upgrades HTTP requests to websocket connections and registers
// them with the hub.
type Handler struct {
	hub      *Hub
	cfg      config.RealtimeConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs the websocket handler.
func NewHandler(hub *Hub, cfg config.RealtimeConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SendBufferSize <= 0 {
		cfg.SendBufferSize = 16
	}
	return &Handler{
		hub:    hub,
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			// Origin enforcement happens at the CORS layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, h.cfg.SendBufferSize),
		cfg:  h.cfg,
	}
	h.hub.register(client)

	go client.writePump()
	go client.readPump()
}
