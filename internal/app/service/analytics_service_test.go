package service

import (
	"testing"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var analyticsNow = time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)

func seedAnalyticsOrder(t *testing.T, testDB *gorm.DB, number string, status model.OrderStatus, createdAt time.Time, lines ...model.OrderLineSnapshot) {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	fee := decimal.NewFromInt(50)
	order := &model.Order{
		OrderNumber: number,
		CustomerID:  1,
		Items:       lines,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		TotalAmount: subtotal.Add(fee),
		Status:      status,
		CreatedAt:   createdAt,
	}
	require.NoError(t, testDB.Omit("OrderItems").Create(order).Error)
}

func snapshot(title string, price int64, qty int) model.OrderLineSnapshot {
	return model.OrderLineSnapshot{Title: title, Price: decimal.NewFromInt(price), Quantity: qty}
}

func categorized(line model.OrderLineSnapshot, category model.MenuCategory) model.OrderLineSnapshot {
	line.Category = category
	return line
}

func setupAnalyticsServiceTest(t *testing.T) AnalyticsService {
	testDB := setupServiceDB(t)

	seedAnalyticsOrder(t, testDB, "ORD-1", model.OrderStatusCompleted,
		time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC), snapshot("Milk Tea", 99, 2))
	seedAnalyticsOrder(t, testDB, "ORD-2", model.OrderStatusCompleted,
		time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC), categorized(snapshot("Milk Tea", 99, 1), model.CategoryDrinks), snapshot("Pepperoni Pizza", 399, 1))
	seedAnalyticsOrder(t, testDB, "ORD-3", model.OrderStatusPending,
		time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC), snapshot("Pepperoni Pizza", 399, 3))
	seedAnalyticsOrder(t, testDB, "ORD-4", model.OrderStatusCompleted,
		time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), snapshot("Iced Tea", 49, 1))
	seedAnalyticsOrder(t, testDB, "ORD-5", model.OrderStatusCompleted,
		time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC), snapshot("Iced Tea", 49, 2))

	svc := NewAnalyticsService(repository.NewOrderRepository(testDB)).(*analyticsService)
	svc.now = func() time.Time { return analyticsNow }
	return svc
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	svc := setupAnalyticsServiceTest(t)

	summary, err := svc.Dashboard()
	require.NoError(t, err)

	// completed: 248 + 548 + 99 + 148
	assert.Equal(t, 5, summary.TotalOrders)
	assert.Equal(t, "1043.00", summary.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, summary.TodayOrders)
	assert.Equal(t, "248.00", summary.TodayRevenue.StringFixed(2))
	assert.Equal(t, 1, summary.PendingOrders)
	assert.Equal(t, 4, summary.StatusCounts[model.OrderStatusCompleted])
	assert.Equal(t, 0, summary.StatusCounts[model.OrderStatusCancelled])

	require.Len(t, summary.Recent, 7)
	assert.Equal(t, "2024-03-14", summary.Recent[0].Date)
	assert.Equal(t, "2024-03-20", summary.Recent[6].Date)
	assert.Equal(t, 2, summary.Recent[6].Count)
	assert.Equal(t, 1, summary.Recent[4].Count)
}

func TestAnalyticsService_MonthlyRevenue(t *testing.T) {
	svc := setupAnalyticsServiceTest(t)

	monthly, err := svc.MonthlyRevenue(2024)
	require.NoError(t, err)
	require.Len(t, monthly.Months, 12)
	assert.Equal(t, "99.00", monthly.Months[0].StringFixed(2))
	assert.True(t, monthly.Months[1].IsZero())
	assert.Equal(t, "796.00", monthly.Months[2].StringFixed(2))
	assert.Equal(t, "895.00", monthly.Total.StringFixed(2))

	// zero year means the current one
	current, err := svc.MonthlyRevenue(0)
	require.NoError(t, err)
	assert.Equal(t, 2024, current.Year)
}

func TestAnalyticsService_PopularItems(t *testing.T) {
	svc := setupAnalyticsServiceTest(t)

	items, err := svc.PopularItems(0)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Milk Tea", items[0].Title)
	assert.Equal(t, 2, items[0].OrderCount)
	assert.Equal(t, 3, items[0].TotalQuantity)
	assert.Equal(t, "297.00", items[0].TotalRevenue.StringFixed(2))
	assert.Equal(t, "Drinks", items[0].Category)

	// the pending pizza order is ignored
	for _, item := range items {
		if item.Title == "Pepperoni Pizza" {
			assert.Equal(t, 1, item.TotalQuantity)
			assert.Equal(t, "Unknown", item.Category)
		}
	}

	top, err := svc.PopularItems(1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestAnalyticsService_Totals(t *testing.T) {
	svc := setupAnalyticsServiceTest(t)

	total, err := svc.TotalRevenue()
	require.NoError(t, err)
	assert.Equal(t, "1043.00", total.StringFixed(2))

	today, err := svc.TodaysRevenue()
	require.NoError(t, err)
	assert.Equal(t, "248.00", today.StringFixed(2))

	count, err := svc.TodaysOrders()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pending, err := svc.PendingOrders()
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}
