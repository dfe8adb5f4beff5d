package repository

import (
	"strings"
	"time"

	"github.com/fooddash/fooddash-backend/internal/analytics"
	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderSearchField string

const (
	SearchByAll           OrderSearchField = "all"
	SearchByOrderNumber   OrderSearchField = "order_number"
	SearchByCustomerName  OrderSearchField = "customer_name"
	SearchByCustomerEmail OrderSearchField = "customer_email"
)

// OrderFilter narrows order listings. Zero values mean no filter.
// From and To bound created_at as [From, To).
type OrderFilter struct {
	Status model.OrderStatus
	Search string
	By     OrderSearchField
	From   time.Time
	To     time.Time
	Limit  int
}

type OrderRepository interface {
	Create(order *model.Order) error
	CreateItems(items []model.OrderItem) error
	FindByID(id uint) (*model.Order, error)
	FindByCustomerID(customerID uint) ([]model.Order, error)
	FindAll(filter OrderFilter) ([]model.Order, error)
	UpdateStatusGuard(id uint, from, to model.OrderStatus) (int64, error)
	Delete(id uint) error
	CountByStatus() (map[model.OrderStatus]int64, error)
	ListFacts() ([]analytics.OrderFact, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"total_amount": order.TotalAmount.String(),
	})

	// order items are written explicitly by CreateItems
	if err := r.db.Omit("OrderItems").Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_number": order.OrderNumber,
			"customer_id":  order.CustomerID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return nil
}

func (r *orderRepository) CreateItems(items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.Create(&items).Error; err != nil {
		logger.Error("Failed to create order items in database", err, map[string]interface{}{
			"order_id": items[0].OrderID,
			"count":    len(items),
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.db.Preload("OrderItems").First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindByCustomerID(customerID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
	})

	var orders []model.Order
	if err := r.db.Preload("OrderItems").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	logger.Debug("Orders found by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
		"count":       len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindAll(filter OrderFilter) ([]model.Order, error) {
	logger.Debug("Finding orders in database", map[string]interface{}{
		"status": filter.Status,
		"search": filter.Search,
		"by":     filter.By,
		"from":   filter.From,
		"to":     filter.To,
	})

	query := r.db.Model(&model.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + term + "%"
		switch filter.By {
		case SearchByOrderNumber:
			query = query.Where("order_number LIKE ?", like)
		case SearchByCustomerName:
			query = query.Where("customer_name LIKE ?", like)
		case SearchByCustomerEmail:
			query = query.Where("customer_email LIKE ?", like)
		default:
			query = query.Where("order_number LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?", like, like, like)
		}
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders in database", err)
		return nil, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// UpdateStatusGuard moves the order from one status to another only if it
// still has the expected status. Zero rows affected means the order is gone
// or somebody else changed it first.
func (r *orderRepository) UpdateStatusGuard(id uint, from, to model.OrderStatus) (int64, error) {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"from":     from,
		"to":       to,
	})

	res := r.db.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		logger.Error("Failed to update order status in database", res.Error, map[string]interface{}{
			"order_id": id,
			"to":       to,
		})
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *orderRepository) Delete(id uint) error {
	logger.Debug("Deleting order from database", map[string]interface{}{
		"order_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			logger.Error("Failed to delete order items", err, map[string]interface{}{
				"order_id": id,
			})
			return err
		}
		res := tx.Delete(&model.Order{}, id)
		if res.Error != nil {
			logger.Error("Failed to delete order", res.Error, map[string]interface{}{
				"order_id": id,
			})
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *orderRepository) CountByStatus() (map[model.OrderStatus]int64, error) {
	var rows []struct {
		Status model.OrderStatus
		Count  int64
	}
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to count orders by status", err)
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(model.OrderStatuses))
	for _, st := range model.OrderStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

type orderFactRow struct {
	Status      string
	TotalAmount decimal.Decimal
	Items       datatypes.JSONSlice[model.OrderLineSnapshot]
	CreatedAt   string
}

// ListFacts reads every order with the creation timestamp as text, the way
// the reporting code parses it.
func (r *orderRepository) ListFacts() ([]analytics.OrderFact, error) {
	var rows []orderFactRow
	if err := r.db.Model(&model.Order{}).
		Select("status, total_amount, items, created_at").
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to load order facts", err)
		return nil, err
	}

	facts := make([]analytics.OrderFact, len(rows))
	for i, row := range rows {
		facts[i] = analytics.OrderFact{
			Status:      row.Status,
			TotalAmount: row.TotalAmount,
			Items:       row.Items,
			CreatedAt:   row.CreatedAt,
		}
	}

	logger.Debug("Order facts loaded", map[string]interface{}{
		"count": len(facts),
	})
	return facts, nil
}
