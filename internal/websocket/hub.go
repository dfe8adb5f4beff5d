package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/logger"
)

// at most this many inbound frames per second per client
const maxMessagesPerSecond = 10

// Client is one dashboard connection
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Role   model.UserRole
	Send   chan []byte

	messageCount  int
	lastResetTime time.Time
	rateMu        sync.Mutex
}

// NewClient wires a connection to the hub with a buffered send queue
func NewClient(hub *Hub, conn *Conn, userID uint, role model.UserRole) *Client {
	return &Client{
		Hub:           hub,
		Conn:          conn,
		UserID:        userID,
		Role:          role,
		Send:          make(chan []byte, 256),
		lastResetTime: time.Now(),
	}
}

// OrderEvent is pushed to every connected dashboard
type OrderEvent struct {
	Type  string       `json:"type"`
	Order OrderPayload `json:"order"`
	At    time.Time    `json:"at"`
}

type OrderPayload struct {
	ID           uint              `json:"id"`
	OrderNumber  string            `json:"order_number"`
	CustomerName string            `json:"customer_name"`
	Status       model.OrderStatus `json:"status"`
	TotalAmount  string            `json:"total_amount"`
	ItemCount    int               `json:"item_count"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Hub fans order events out to connected staff and admin clients.
// Run owns the client set; everything else talks to it over channels.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 1024),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id": client.UserID,
				"role":    client.Role,
				"clients": total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"user_id": client.UserID,
				})
				h.remove(client)
			}

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id": client.UserID,
		"clients": len(h.clients),
	})
}

// Stop ends Run and closes every client queue. Later calls are no-ops.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount reports how many dashboards are connected
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NotifyOrder broadcasts an order event. A full broadcast queue drops the
// event; order processing never waits on dashboards.
func (h *Hub) NotifyOrder(event string, order *model.Order) {
	if order == nil {
		return
	}
	data, err := json.Marshal(OrderEvent{
		Type: event,
		Order: OrderPayload{
			ID:           order.ID,
			OrderNumber:  order.OrderNumber,
			CustomerName: order.CustomerName,
			Status:       order.Status,
			TotalAmount:  order.TotalAmount.StringFixed(2),
			ItemCount:    len(order.Items),
			CreatedAt:    order.CreatedAt,
		},
		At: time.Now(),
	})
	if err != nil {
		logger.Error("Failed to marshal order event", err, map[string]interface{}{
			"order_number": order.OrderNumber,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"event":        event,
			"order_number": order.OrderNumber,
		})
	}
}

// HandleClientMessage answers pings; dashboards are otherwise read-only
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.rateMu.Lock()
	now := time.Now()
	if now.Sub(client.lastResetTime) >= time.Second {
		client.messageCount = 0
		client.lastResetTime = now
	}
	client.messageCount++
	count := client.messageCount
	client.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		h.mu.RLock()
		defer h.mu.RUnlock()
		if !h.clients[client] {
			return
		}
		select {
		case client.Send <- []byte(`{"type":"pong"}`):
		default:
		}
	}
}
