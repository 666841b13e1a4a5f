package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is the part of a websocket connection the hub writes to.
// *websocket.Conn satisfies it.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Event is the JSON envelope pushed to dashboard clients after a ledger mutation.
type Event struct {
	EventID string      `json:"event_id"`
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

type Hub struct {
	Clients    map[Client]bool
	Register   chan Client
	Unregister chan Client
	Broadcast  chan []byte
	quit       chan struct{}
	mutex      sync.Mutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[Client]bool),
		Register:   make(chan Client),
		Unregister: make(chan Client),
		Broadcast:  make(chan []byte, 64),
		quit:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			h.logger.Debug("ws client connected", zap.Int("clients", n))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Warn("dropping ws client", zap.Error(err))
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case <-h.quit:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every registered client.
func (h *Hub) Stop() {
	close(h.quit)
}

// Add registers conn. It reports false, without blocking, once the hub has stopped.
func (h *Hub) Add(conn Client) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.quit:
		return false
	}
}

// Remove unregisters and closes conn. After Stop the hub has already closed it.
func (h *Hub) Remove(conn Client) {
	select {
	case h.Unregister <- conn:
	case <-h.quit:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish queues a stock_update event for every client. It never blocks the caller:
// when the broadcast buffer is full the event is dropped.
func (h *Hub) Publish(action string, data interface{}, message string) {
	msg, err := json.Marshal(Event{
		EventID: uuid.NewString(),
		Type:    "stock_update",
		Action:  action,
		Data:    data,
		Message: message,
	})
	if err != nil {
		h.logger.Error("failed to encode ws event", zap.String("action", action), zap.Error(err))
		return
	}

	select {
	case h.Broadcast <- msg:
	default:
		h.logger.Warn("ws broadcast buffer full, event dropped", zap.String("action", action))
	}
}
