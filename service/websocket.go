package service

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/pixhaven/pixhaven-server/cmd/models"
	"github.com/pixhaven/pixhaven-server/service/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	db  *gorm.DB
	hub *ws.Hub
}

func NewWebSocketHandler(db *gorm.DB) *WebSocketHandler {
	hub := ws.NewHub()
	go hub.Run()

	return &WebSocketHandler{db: db, hub: hub}
}

// Hub exposes the fan-out hub so write handlers can broadcast.
func (h *WebSocketHandler) Hub() *ws.Hub {
	return h.hub
}

func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.HandleWebSocket)
}

func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &ws.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.hub.Register(client)

	go client.WritePump()
	go h.readLoop(client)
}

// readLoop handles client-emitted events. The only supported request is
// user/notifications: {"channel":"user/notifications","data":{"user_id":...}},
// answered on the same channel with the user's full notification list.
func (h *WebSocketHandler) readLoop(client *ws.Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		var event struct {
			Channel string `json:"channel"`
			Data    struct {
				UserID string `json:"user_id"`
			} `json:"data"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("error unmarshaling socket event: %v", err)
			continue
		}

		switch event.Channel {
		case "user/notifications":
			h.sendNotificationList(client, event.Data.UserID)
		}
	}
}

func (h *WebSocketHandler) sendNotificationList(client *ws.Client, userID string) {
	var notifications []models.Notification
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		log.Printf("error loading notifications for socket reply: %v", err)
		return
	}

	reply, err := json.Marshal(ws.Event{Channel: "user/notifications", Data: notifications})
	if err != nil {
		log.Printf("error marshaling notification list: %v", err)
		return
	}

	// Best-effort: a full buffer or an already-dropped client loses the
	// reply rather than blocking or panicking the read loop.
	client.TrySend(reply)
}
