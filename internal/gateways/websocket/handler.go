package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"taskboard/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS authenticates via the token query parameter; browsers cannot set an
// Authorization header on a WebSocket upgrade.
func (h *Hub) ServeWS(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			h.logger.Warnw("WebSocket connection rejected: token missing", "client_ip", c.ClientIP())
			c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
			return
		}

		identity, err := middleware.ParseToken(token, jwtSecret)
		if err != nil {
			h.logger.Warnw("WebSocket connection rejected: invalid token", "client_ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Errorw("Failed to upgrade connection", "user_id", identity.UserID, "error", err)
			return
		}

		client := &Client{
			hub:    h,
			conn:   conn,
			ID:     generateClientID(),
			UserID: identity.UserID,
			send:   make(chan []byte, 32),
		}

		h.logger.Infow("WebSocket connection established",
			"client_id", client.ID,
			"user_id", client.UserID,
			"client_ip", c.ClientIP(),
		)

		h.register <- client
		go client.writeLoop()
		client.readLoop()
	}
}

func (c *Client) writeLoop() {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// readLoop drains inbound frames until the peer disconnects; the gateway is
// push-only.
func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
