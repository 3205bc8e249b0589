package ws

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/risk"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

type subscribeMessage struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
	Grade   string `json:"grade"`
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	websocket.Handler(func(conn *websocket.Conn) {
		client := NewClient(conn)
		go h.writer(client)
		h.reader(client)
	}).ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) reader(client *Client) {
	defer func() {
		h.hub.UnsubscribeAll(client)
		client.close()
		_ = client.conn.Close()
	}()

	for {
		var raw string
		if err := websocket.Message.Receive(client.conn, &raw); err != nil {
			return
		}
		var msg subscribeMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(msg.Action)) != "subscribe" {
			continue
		}
		channel := subscriptionChannel(msg)
		if channel == "" {
			continue
		}
		h.hub.Subscribe(channel, client)
	}
}

func (h *Handler) writer(client *Client) {
	for payload := range client.out {
		if err := websocket.Message.Send(client.conn, string(payload)); err != nil {
			return
		}
	}
}

func subscriptionChannel(msg subscribeMessage) string {
	switch strings.ToLower(strings.TrimSpace(msg.Channel)) {
	case ChannelAssessed:
		return ChannelAssessed
	case "loans:grade":
		// grades are case-sensitive, same as the list filter
		grade := risk.Grade(strings.TrimSpace(msg.Grade))
		if !grade.Valid() {
			return ""
		}
		return GradeChannel(string(grade))
	default:
		return ""
	}
}
