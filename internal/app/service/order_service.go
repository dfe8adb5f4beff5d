package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/internal/metrics"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrStatusConflict    = errors.New("order status was changed by another request")
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// OrderNotifier receives order events after they are committed
type OrderNotifier interface {
	NotifyOrder(event string, order *model.Order)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, customerID uint, cart *model.Cart, notes string) (*model.Order, error)
	GetCustomerOrders(customerID uint) ([]model.Order, error)
	GetCustomerOrder(customerID, orderID uint) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, error)
	GetOrder(orderID uint) (*model.Order, error)
	UpdateStatus(orderID uint, status string, actor model.Actor) (*model.Order, error)
	DeleteOrder(orderID uint, actor model.Actor) error
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	deliveryFee decimal.Decimal
	receipts    ReceiptService
	notifier    OrderNotifier
	now         func() time.Time
}

// NewOrderService wires the order lifecycle. receipts and notifier may be nil.
func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	deliveryFee decimal.Decimal,
	receipts ReceiptService,
	notifier OrderNotifier,
) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		deliveryFee: deliveryFee,
		receipts:    receipts,
		notifier:    notifier,
		now:         time.Now,
	}
}

// PlaceOrder turns a cart into a pending order. The header and its items are
// written in a single transaction; the cart itself is left untouched.
func (s *orderService) PlaceOrder(ctx context.Context, customerID uint, cart *model.Cart, notes string) (*model.Order, error) {
	if cart == nil || cart.IsEmpty() {
		logger.Warn("Cannot place order: cart is empty", map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, ErrEmptyCart
	}

	logger.Info("Placing order", map[string]interface{}{
		"customer_id": customerID,
		"lines":       len(cart.Lines),
	})

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"customer_id": customerID,
			})
			panic(r)
		}
	}()

	customer, err := repository.NewCustomerRepository(tx).FindByID(customerID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot place order: customer not found", map[string]interface{}{
				"customer_id": customerID,
			})
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	menuRepo := repository.NewMenuRepository(tx)
	orderRepo := repository.NewOrderRepository(tx)

	snapshots := make([]model.OrderLineSnapshot, 0, len(cart.Lines))
	items := make([]model.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		menuItem, err := menuRepo.FindByID(line.MenuItemID)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Cart line refers to a missing menu item", map[string]interface{}{
					"customer_id":  customerID,
					"menu_item_id": line.MenuItemID,
					"title":        line.Title,
				})
				return nil, ErrMenuItemNotFound
			}
			return nil, err
		}

		price := line.Price()
		snapshots = append(snapshots, model.OrderLineSnapshot{
			MenuItemID: menuItem.ID,
			Title:      line.Title,
			Category:   menuItem.Category,
			Price:      price,
			Quantity:   line.Quantity,
			ImageURL:   line.ImageURL,
		})
		items = append(items, model.OrderItem{
			MenuItemID:   menuItem.ID,
			MenuItemName: menuItem.Name,
			Quantity:     line.Quantity,
			Price:        price,
			TotalPrice:   line.LineTotal(),
		})
	}

	subtotal := cart.Total()
	order := &model.Order{
		OrderNumber:     util.GenerateOrderNumber(s.now()),
		CustomerID:      customer.ID,
		CustomerName:    customer.FullName,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Items:           snapshots,
		Subtotal:        subtotal,
		DeliveryFee:     s.deliveryFee,
		TotalAmount:     subtotal.Add(s.deliveryFee),
		Notes:           notes,
		Status:          model.OrderStatusPending,
	}

	if err := orderRepo.Create(order); err != nil {
		tx.Rollback()
		return nil, err
	}

	for i := range items {
		items[i].OrderID = order.ID
		items[i].OrderNumber = order.OrderNumber
	}
	if err := orderRepo.CreateItems(items); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"customer_id":  customerID,
			"order_number": order.OrderNumber,
		})
		return nil, err
	}
	order.OrderItems = items

	logger.Info("Order placed successfully", map[string]interface{}{
		"customer_id":  customerID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount.StringFixed(2),
	})

	if s.receipts != nil {
		if _, err := s.receipts.Save(ctx, order); err != nil {
			logger.Warn("Order placed without receipt", map[string]interface{}{
				"order_number": order.OrderNumber,
				"error":        err.Error(),
			})
		}
	}

	total, _ := order.TotalAmount.Float64()
	metrics.RecordOrderPlaced(total)
	s.notify(EventOrderCreated, order)

	return order, nil
}

func (s *orderService) notify(event string, order *model.Order) {
	if s.notifier != nil {
		s.notifier.NotifyOrder(event, order)
	}
}

func (s *orderService) GetCustomerOrders(customerID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Customer orders fetched", map[string]interface{}{
		"customer_id": customerID,
		"count":       len(orders),
	})
	return orders, nil
}

// GetCustomerOrder hides orders owned by somebody else behind ErrOrderNotFound
func (s *orderService) GetCustomerOrder(customerID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"customer_id": customerID,
			"order_id":    orderID,
			"owner_id":    order.CustomerID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, error) {
	return s.orderRepo.FindAll(filter)
}

func (s *orderService) GetOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus applies one transition of the order state machine and records
// it in the activity log within the same transaction.
func (s *orderService) UpdateStatus(orderID uint, status string, actor model.Actor) (*model.Order, error) {
	to, ok := model.ParseOrderStatus(status)
	if !ok {
		logger.Warn("Rejected unknown order status", map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return nil, ErrInvalidStatus
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	orderRepo := repository.NewOrderRepository(tx)
	order, err := orderRepo.FindByID(orderID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	from := order.Status
	if !from.CanTransitionTo(to) {
		tx.Rollback()
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     from,
			"to":       to,
		})
		return nil, ErrInvalidTransition
	}

	affected, err := orderRepo.UpdateStatusGuard(orderID, from, to)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if affected == 0 {
		tx.Rollback()
		logger.Warn("Order status changed concurrently", map[string]interface{}{
			"order_id": orderID,
			"expected": from,
		})
		return nil, ErrStatusConflict
	}

	entry := newActivityEntry(actor, model.ActionUpdateOrderStatus, fmt.Sprintf("Order #%s: %s", order.OrderNumber, to))
	if err := repository.NewActivityRepository(tx).Create(entry); err != nil {
		tx.Rollback()
		return nil, err
	}

	// reload for the new updated_at
	order, err = orderRepo.FindByID(orderID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order status update", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"from":         from,
		"to":           to,
		"staff_id":     actor.Code,
	})

	metrics.RecordTransition(string(from), string(to))
	s.notify(EventOrderStatusChanged, order)
	return order, nil
}

func (s *orderService) DeleteOrder(orderID uint, actor model.Actor) error {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}

	entry := newActivityEntry(actor, model.ActionDeleteOrder, fmt.Sprintf("Order #%s", order.OrderNumber))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewOrderRepository(tx).Delete(orderID); err != nil {
			return err
		}
		return repository.NewActivityRepository(tx).Create(entry)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"staff_id":     actor.Code,
	})

	s.notify(EventOrderDeleted, order)
	return nil
}
