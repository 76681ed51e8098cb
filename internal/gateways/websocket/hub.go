package websocket

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"go.uber.org/zap"

	"taskboard/internal/utils"
)

type Client struct {
	hub    *Hub
	conn   ClientConn
	ID     string
	UserID uint64
	send   chan []byte
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// Hub tracks connected sockets per user and pushes notification events to the
// recipient's open connections.
type Hub struct {
	clients    map[uint64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	outbound   chan userMessage
	logger     *zap.SugaredLogger
}

type userMessage struct {
	userID  uint64
	payload []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uint64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan userMessage, 256),
		logger:     logger.Sugar(),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.logger.Infow("WebSocket client registered", "client_id", client.ID, "user_id", client.UserID)

		case client := <-h.unregister:
			if conns, ok := h.clients[client.UserID]; ok && conns[client] {
				delete(conns, client)
				close(client.send)
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
				}
				h.logger.Infow("WebSocket client unregistered", "client_id", client.ID, "user_id", client.UserID)
			}

		case msg := <-h.outbound:
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer; drop the connection rather than block
					// the hub.
					delete(h.clients[msg.userID], client)
					close(client.send)
				}
			}
		}
	}
}

// PushToUser queues a payload for every open socket of the user. Safe to call
// from any goroutine; drops the message when the hub is saturated.
func (h *Hub) PushToUser(userID uint64, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Errorw("Failed to marshal push payload", "user_id", userID, "error", err)
		return
	}
	select {
	case h.outbound <- userMessage{userID: userID, payload: data}:
	default:
		h.logger.Warnw("Push dropped: hub outbound queue full", "user_id", userID)
	}
}

// SubscribeNotifications forwards notification_created events from the bus to
// the recipient's sockets.
func (h *Hub) SubscribeNotifications(bus *utils.EventBus) {
	bus.Subscribe("notification_created", func(e utils.Event) {
		userID, ok := e.Data["user_id"].(uint64)
		if !ok {
			return
		}
		h.PushToUser(userID, e)
	})
}
