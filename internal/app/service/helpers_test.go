package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createCustomer(t *testing.T, testDB *gorm.DB, name, email string) *model.Customer {
	customer := &model.Customer{
		FullName:     name,
		Email:        email,
		Phone:        "09171234567",
		Address:      "12 Mabini St, Manila",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(customer).Error)
	return customer
}

func createMenuItem(t *testing.T, testDB *gorm.DB, name string, category model.MenuCategory, price int64) *model.MenuItem {
	item := &model.MenuItem{
		Name:     name,
		Category: category,
		Price:    decimal.NewFromInt(price),
	}
	require.NoError(t, testDB.Create(item).Error)
	return item
}

var testActor = model.Actor{Name: "Maria Santos", Code: "EMP00001", Role: model.RoleStaff}

type memoryReceiptStore struct {
	mu    sync.Mutex
	saved map[string]string
	fail  bool
}

func newMemoryReceiptStore() *memoryReceiptStore {
	return &memoryReceiptStore{saved: make(map[string]string)}
}

func (s *memoryReceiptStore) SaveReceipt(_ context.Context, key string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("disk full")
	}
	s.saved[key] = string(content)
	return "mem://" + key, nil
}

type recordedEvent struct {
	event string
	order model.Order
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) NotifyOrder(event string, order *model.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{event: event, order: *order})
}

// failActivityInserts makes every later insert into activity_logs fail
func failActivityInserts(t *testing.T, testDB *gorm.DB) {
	err := testDB.Callback().Create().Before("gorm:create").Register("test:fail_activity", func(tx *gorm.DB) {
		if tx.Statement.Table == "activity_logs" {
			_ = tx.AddError(errors.New("activity table is read only"))
		}
	})
	require.NoError(t, err)
}
