package ws

import (
	"encoding/json"
	"log"
)

// Event is the wire envelope for everything pushed over the socket:
// a channel name plus the raw row that triggered it.
type Event struct {
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

// Hub fans events out to every connected client. Broadcasts are global
// and fire-and-forget: no targeting, no acknowledgment, no replay. A
// client whose send buffer is full is dropped.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the client set; all map access happens on this goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.TrySend(message) {
					delete(h.clients, client)
					client.closeSend()
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast pushes one event to all connected clients.
func (h *Hub) Broadcast(channel string, data interface{}) {
	message, err := json.Marshal(Event{Channel: channel, Data: data})
	if err != nil {
		log.Printf("error marshaling %s event: %v", channel, err)
		return
	}
	h.broadcast <- message
}
