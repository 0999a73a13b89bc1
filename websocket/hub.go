// Package websocket pushes friend events (request sent, accepted,
// friendship removed) to a user's open connections. It carries no chat
// traffic; clients only send pings.
package websocket

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	userConns  map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

var HubInstance *Hub

func NewHub() *Hub {
	return &Hub{
		userConns:  make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.userConns[client.UserID]; ok && conns[client] {
				delete(conns, client)
				if len(conns) == 0 {
					delete(h.userConns, client.UserID)
				}
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser delivers to every open connection of the user. The read
// lock is held across the iteration so Run cannot mutate the connection
// set or close a Send channel mid-send; a client with a full buffer just
// misses the event, and its cleanup stays with ReadPump.
func (h *Hub) SendToUser(userID string, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.userConns[userID] {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}

func InitHub() {
	HubInstance = NewHub()
	go HubInstance.Run()
}

// NotifyUser delivers a friend event to every open connection of the
// user. A nil hub (tests, hub not started) is a no-op.
func NotifyUser(userID, event string, data interface{}) {
	if HubInstance == nil {
		return
	}
	HubInstance.SendToUser(userID, &Message{Event: event, Data: data})
}
