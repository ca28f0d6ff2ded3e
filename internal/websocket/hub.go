package websocket

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"

	"ngo-site/internal/metrics"
)

// Event tells open pages that a collection changed so they can refetch it
// instead of polling.
type Event struct {
	Resource string `json:"resource"` // donors | gallery | members
	Action   string `json:"action"`   // created | updated | deleted | reordered
	ID       string `json:"id,omitempty"`
}

type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans resource-change events out to every connected client. Clients
// whose send buffer is full are dropped rather than slowing the broadcast.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Event
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Event, 16),
	}
}

// Notify queues an event for broadcast. Safe on a nil hub, and never blocks
// the mutation that triggered it: if the queue is full the event is dropped.
func (h *Hub) Notify(resource, action, id string) {
	if h == nil {
		return
	}
	select {
	case h.Broadcast <- Event{Resource: resource, Action: action, ID: id}:
	default:
		log.Println("Dropped site-update event, broadcast queue full")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
			metrics.WebsocketClients.Set(float64(len(h.Clients)))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				metrics.WebsocketClients.Set(float64(len(h.Clients)))
			}

		case event := <-h.Broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				log.Println("Failed to marshal site-update event:", err)
				continue
			}
			for client := range h.Clients {
				select {
				case client.Send <- data:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
			metrics.WebsocketClients.Set(float64(len(h.Clients)))
		}
	}
}
