// Package realtime pushes state changes from one terminal to all the others
// over websocket connections. The hub is an injected dependency with an
// explicit lifecycle, not package-global state.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/utils"
)

// Event types pushed to terminals.
const (
	EventItemUpdated      = "item_updated"
	EventSettingsUpdated  = "settings_updated"
	EventOrderCreated     = "order_created"
	EventUserConnected    = "user_connected"
	EventUserDisconnected = "user_disconnected"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks every connected terminal. All connections form the shared POS
// broadcast group; the user id per connection supports direct sends.
// Delivery is at-most-once and best-effort: a terminal that reconnects must
// re-fetch authoritative state rather than rely on missed events.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]uint // conn -> user id
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uint)}
}

// Register adds a connection and tells the other terminals the user is online.
func (h *Hub) Register(conn *websocket.Conn, userID uint) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = userID
	h.mu.Unlock()

	h.broadcastExcept(Message{Event: EventUserConnected, Data: map[string]uint{"user_id": userID}}, userID)
}

// Unregister drops a connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	if h == nil {
		return
	}
	h.mu.Lock()
	userID, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()

	if ok {
		h.broadcastExcept(Message{Event: EventUserDisconnected, Data: map[string]uint{"user_id": userID}}, userID)
	}
}

// BroadcastItemUpdate pushes an updated item to every terminal except the one
// that made the change (it already applied it locally).
func (h *Hub) BroadcastItemUpdate(item models.Item, originUserID uint) {
	h.broadcastExcept(Message{Event: EventItemUpdated, Data: item}, originUserID)
}

// BroadcastSettingsUpdate pushes the new settings record to the other terminals.
func (h *Hub) BroadcastSettingsUpdate(settings models.Settings, originUserID uint) {
	h.broadcastExcept(Message{Event: EventSettingsUpdated, Data: settings}, originUserID)
}

// BroadcastOrderCreated announces a new order to the other terminals.
func (h *Hub) BroadcastOrderCreated(order models.Order, originUserID uint) {
	h.broadcastExcept(Message{Event: EventOrderCreated, Data: order}, originUserID)
}

// SendToUser delivers a message to every connection of one user.
func (h *Hub) SendToUser(userID uint, msg Message) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, id := range h.clients {
		if id != userID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error sending message to user %d: %v", userID, err)
		}
	}
}

// ClientCount returns the number of attached terminals.
func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcastExcept sends to the shared POS group, skipping the origin user.
// Write failures are logged and skipped; the dead connection is cleaned up by
// its read loop.
func (h *Hub) broadcastExcept(msg Message, originUserID uint) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, userID := range h.clients {
		if userID == originUserID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error sending %s to user %d: %v", msg.Event, userID, err)
		}
	}
}
