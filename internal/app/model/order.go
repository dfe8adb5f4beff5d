package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:  {OrderStatusDelivering, OrderStatusCancelled},
	OrderStatusDelivering: {OrderStatusCompleted, OrderStatusCancelled},
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	candidate := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range OrderStatuses {
		if st == candidate {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether the transition table allows s -> next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Label is the capitalized status used on receipts and dashboards.
func (s OrderStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// OrderLineSnapshot is one cart line frozen into the order's items column.
type OrderLineSnapshot struct {
	MenuItemID uint            `json:"menu_item_id"`
	Title      string          `json:"title"`
	Category   MenuCategory    `json:"category,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	ImageURL   string          `json:"image_url,omitempty"`
}

type Order struct {
	ID              uint                                   `gorm:"primarykey" json:"id"`
	OrderNumber     string                                 `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	CustomerID      uint                                   `gorm:"not null;index" json:"customer_id"`
	CustomerName    string                                 `gorm:"type:varchar(255)" json:"customer_name"`  // snapshot at checkout
	CustomerEmail   string                                 `gorm:"type:varchar(255)" json:"customer_email"` // snapshot at checkout
	CustomerPhone   string                                 `gorm:"type:varchar(50)" json:"customer_phone"`  // snapshot at checkout
	CustomerAddress string                                 `gorm:"type:text" json:"customer_address"`       // snapshot at checkout
	Items           datatypes.JSONSlice[OrderLineSnapshot] `json:"items"`
	Subtotal        decimal.Decimal                        `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee     decimal.Decimal                        `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	TotalAmount     decimal.Decimal                        `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Notes           string                                 `gorm:"type:text" json:"notes"`
	Status          OrderStatus                            `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt       time.Time                              `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                              `json:"updated_at"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	OrderNumber  string          `gorm:"type:varchar(50);index" json:"order_number"`
	MenuItemID   uint            `gorm:"not null;index" json:"menu_item_id"`
	MenuItemName string          `gorm:"type:varchar(255)" json:"menu_item_name"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
