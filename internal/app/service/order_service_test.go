package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	db       *gorm.DB
	svc      OrderService
	receipts *memoryReceiptStore
	notifier *recordingNotifier
	customer *model.Customer
	burger   *model.MenuItem
	fries    *model.MenuItem
}

func setupOrderServiceTest(t *testing.T) *orderFixture {
	testDB := setupServiceDB(t)
	f := &orderFixture{
		db:       testDB,
		receipts: newMemoryReceiptStore(),
		notifier: &recordingNotifier{},
		customer: createCustomer(t, testDB, "Juan Dela Cruz", "juan@example.com"),
		burger:   createMenuItem(t, testDB, "Classic Burger", model.CategoryBurger, 159),
		fries:    createMenuItem(t, testDB, "Crispy Fries", model.CategorySides, 79),
	}
	f.svc = NewOrderService(
		testDB,
		repository.NewOrderRepository(testDB),
		decimal.NewFromInt(50),
		NewReceiptService(f.receipts, "₱"),
		f.notifier,
	)
	return f
}

func (f *orderFixture) cart() *model.Cart {
	return &model.Cart{Lines: []model.CartLine{
		{MenuItemID: f.burger.ID, Title: "Classic Burger", UnitPrice: "₱159.00", Quantity: 2},
		{MenuItemID: f.fries.ID, Title: "Crispy Fries", UnitPrice: "₱79.00", Quantity: 1},
	}}
}

func (f *orderFixture) place(t *testing.T) *model.Order {
	order, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.cart(), "")
	require.NoError(t, err)
	return order
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	f := setupOrderServiceTest(t)
	cart := f.cart()

	order, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, cart, "no onions")
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Regexp(t, `^ORD-\d{14}-\d{4}$`, order.OrderNumber)
	assert.Equal(t, "397.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "50.00", order.DeliveryFee.StringFixed(2))
	assert.Equal(t, "447.00", order.TotalAmount.StringFixed(2))
	assert.True(t, order.TotalAmount.Equal(order.Subtotal.Add(order.DeliveryFee)))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "Juan Dela Cruz", order.CustomerName)
	assert.Equal(t, "12 Mabini St, Manila", order.CustomerAddress)
	assert.Equal(t, "no onions", order.Notes)

	// the cart is left for the caller to clear
	assert.Len(t, cart.Lines, 2)

	stored, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, stored.OrderItems, 2)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Classic Burger", stored.Items[0].Title)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, model.CategoryBurger, stored.Items[0].Category)
	assert.Equal(t, "318.00", stored.OrderItems[0].TotalPrice.StringFixed(2))
	assert.Equal(t, order.OrderNumber, stored.OrderItems[0].OrderNumber)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, EventOrderCreated, f.notifier.events[0].event)
}

func TestOrderService_PlaceOrder_SavesReceipt(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.place(t)

	require.Len(t, f.receipts.saved, 1)
	for key, content := range f.receipts.saved {
		assert.True(t, strings.HasPrefix(key, "receipts/order_"+order.OrderNumber+"_"))
		assert.True(t, strings.HasSuffix(key, ".txt"))
		assert.Contains(t, content, "Order Number: "+order.OrderNumber)
		assert.Contains(t, content, "Classic Burger x2")
		assert.Contains(t, content, "  ₱159.00 each = ₱318.00")
		assert.Contains(t, content, "TOTAL: ₱447.00")
		assert.Contains(t, content, "Status: Pending")
	}
}

func TestOrderService_PlaceOrder_ReceiptFailureKeepsOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.receipts.fail = true

	order := f.place(t)

	_, err := f.svc.GetOrder(order.ID)
	assert.NoError(t, err)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, &model.Cart{}, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.svc.PlaceOrder(context.Background(), f.customer.ID, nil, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_PlaceOrder_UnknownCustomer(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.svc.PlaceOrder(context.Background(), 9999, f.cart(), "")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestOrderService_PlaceOrder_MissingMenuItemRollsBack(t *testing.T) {
	f := setupOrderServiceTest(t)
	cart := f.cart()
	cart.Lines = append(cart.Lines, model.CartLine{MenuItemID: 9999, Title: "Ghost Meal", UnitPrice: "₱10.00", Quantity: 1})

	_, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, cart, "")
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	var orders, items int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Empty(t, f.receipts.saved)
	assert.Empty(t, f.notifier.events)
}

func TestOrderService_GetCustomerOrder_Ownership(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.place(t)
	other := createCustomer(t, f.db, "Ana Reyes", "ana@example.com")

	_, err := f.svc.GetCustomerOrder(other.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	found, err := f.svc.GetCustomerOrder(f.customer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	mine, err := f.svc.GetCustomerOrders(f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.GetCustomerOrders(other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestOrderService_UpdateStatus_FullLifecycle(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.place(t)

	for _, next := range []string{"preparing", "Delivering", "COMPLETED"} {
		updated, err := f.svc.UpdateStatus(order.ID, next, testActor)
		require.NoError(t, err, next)
		assert.Equal(t, strings.ToLower(next), string(updated.Status))
	}

	_, err := f.svc.UpdateStatus(order.ID, "cancelled", testActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var logs []model.ActivityLog
	require.NoError(t, f.db.Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 3)
	assert.Equal(t, model.ActionUpdateOrderStatus, logs[0].Action)
	assert.Equal(t, "Order #"+order.OrderNumber+": preparing", logs[0].Details)
	assert.Equal(t, "Maria Santos", logs[0].StaffName)
	assert.Equal(t, "EMP00001", logs[0].StaffID)
	assert.Equal(t, "Order #"+order.OrderNumber+": completed", logs[2].Details)

	// created + three transitions
	assert.Len(t, f.notifier.events, 4)
	assert.Equal(t, EventOrderStatusChanged, f.notifier.events[3].event)
}

func TestOrderService_UpdateStatus_Rejections(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.place(t)

	tests := []struct {
		name   string
		status string
		want   error
	}{
		{"unknown status", "shipped", ErrInvalidStatus},
		{"empty status", "", ErrInvalidStatus},
		{"skipping a step", "completed", ErrInvalidTransition},
		{"same state", "pending", ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateStatus(order.ID, tt.status, testActor)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.svc.UpdateStatus(9999, "preparing", testActor)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var count int64
	require.NoError(t, f.db.Model(&model.ActivityLog{}).Count(&count).Error)
	assert.Zero(t, count)

	stored, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, stored.Status)
}

func TestOrderService_UpdateStatus_CancelFromDelivering(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.place(t)

	_, err := f.svc.UpdateStatus(order.ID, "preparing", testActor)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(order.ID, "delivering", testActor)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(order.ID, "cancelled", testActor)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, updated.Status)

	_, err = f.svc.UpdateStatus(order.ID, "pending", testActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrderService_ListOrders_Filters(t *testing.T) {
	f := setupOrderServiceTest(t)
	first := f.place(t)
	second := f.place(t)
	_, err := f.svc.UpdateStatus(second.ID, "preparing", testActor)
	require.NoError(t, err)

	all, err := f.svc.ListOrders(repository.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.svc.ListOrders(repository.OrderFilter{Status: model.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	byNumber, err := f.svc.ListOrders(repository.OrderFilter{Search: second.OrderNumber, By: repository.SearchByOrderNumber})
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, second.ID, byNumber[0].ID)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.place(t)

	require.NoError(t, f.svc.DeleteOrder(order.ID, testActor))

	_, err := f.svc.GetOrder(order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var items int64
	require.NoError(t, f.db.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)

	var entry model.ActivityLog
	require.NoError(t, f.db.Where("action = ?", model.ActionDeleteOrder).First(&entry).Error)
	assert.Equal(t, "Order #"+order.OrderNumber, entry.Details)

	assert.ErrorIs(t, f.svc.DeleteOrder(order.ID, testActor), ErrOrderNotFound)
}

func TestOrderService_UpdateStatus_ReturnsFreshTimestamp(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.place(t)

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, f.db.Model(&model.Order{}).Where("id = ?", order.ID).UpdateColumn("updated_at", stale).Error)

	updated, err := f.svc.UpdateStatus(order.ID, "preparing", testActor)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(stale.Add(time.Hour)), "updated_at was %s", updated.UpdatedAt)

	stored, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, stored.UpdatedAt, updated.UpdatedAt, time.Second)
}

func TestOrderService_DeleteOrder_RollsBackWhenAuditFails(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.place(t)
	failActivityInserts(t, f.db)

	require.Error(t, f.svc.DeleteOrder(order.ID, testActor))

	stored, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.OrderItems, 2)
	// only the creation event
	assert.Len(t, f.notifier.events, 1)
}
