package service

import (
	"testing"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var activityNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func setupActivityServiceTest(t *testing.T) (*activityService, *gorm.DB) {
	testDB := setupServiceDB(t)
	svc := NewActivityService(repository.NewActivityRepository(testDB)).(*activityService)
	svc.now = func() time.Time { return activityNow }
	return svc, testDB
}

func seedActivity(t *testing.T, testDB *gorm.DB, action, details string, at time.Time) {
	entry := &model.ActivityLog{
		StaffName: "Maria Santos",
		StaffID:   "EMP00001",
		Action:    action,
		Details:   details,
		CreatedAt: at,
	}
	require.NoError(t, testDB.Create(entry).Error)
}

func TestActivityService_LogAndList(t *testing.T) {
	svc, _ := setupActivityServiceTest(t)

	require.NoError(t, svc.Log(testActor, model.ActionStaffLogin, ""))
	require.NoError(t, svc.Log(testActor, model.ActionAddMenuItem, "Milk Tea (₱99.00) - Drinks"))

	entries, err := svc.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "EMP00001", entries[0].StaffID)

	limited, err := svc.List(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestActivityService_Search(t *testing.T) {
	svc, testDB := setupActivityServiceTest(t)
	seedActivity(t, testDB, model.ActionAddMenuItem, "Milk Tea (₱99.00) - Drinks", activityNow)
	seedActivity(t, testDB, model.ActionUpdateOrderStatus, "Order #ORD-1: preparing", activityNow)

	found, err := svc.Search("milk")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, model.ActionAddMenuItem, found[0].Action)

	all, err := svc.Search("  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestActivityService_Periods(t *testing.T) {
	svc, testDB := setupActivityServiceTest(t)
	seedActivity(t, testDB, "today", "", activityNow.Add(-2*time.Hour))
	seedActivity(t, testDB, "two days ago", "", activityNow.AddDate(0, 0, -2))
	seedActivity(t, testDB, "five days ago", "", activityNow.AddDate(0, 0, -5))
	seedActivity(t, testDB, "twenty days ago", "", activityNow.AddDate(0, 0, -20))
	seedActivity(t, testDB, "last year", "", activityNow.AddDate(-1, 0, 0))

	tests := []struct {
		period ActivityPeriod
		want   int
	}{
		{PeriodToday, 1},
		{PeriodLast3Days, 2},
		{PeriodLastWeek, 3},
		{PeriodLastMonth, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			entries, err := svc.ByPeriod(tt.period)
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}

	_, err := svc.ByPeriod("yesterday")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	today, err := svc.Today()
	require.NoError(t, err)
	assert.Len(t, today, 1)
}

func TestActivityService_RangeIsInclusive(t *testing.T) {
	svc, testDB := setupActivityServiceTest(t)
	seedActivity(t, testDB, "start", "", time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC))
	seedActivity(t, testDB, "end", "", time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC))
	seedActivity(t, testDB, "after", "", time.Date(2024, 3, 6, 0, 30, 0, 0, time.UTC))

	entries, err := svc.Range(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	swapped, err := svc.Range(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, swapped, 2)
}

func TestActivityService_ClearAll(t *testing.T) {
	svc, testDB := setupActivityServiceTest(t)
	seedActivity(t, testDB, "one", "", activityNow)
	seedActivity(t, testDB, "two", "", activityNow)

	admin := model.Actor{Name: "Administrator", Code: "ADM00001", Role: model.RoleAdmin}
	removed, err := svc.ClearAll(admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	entries, err := svc.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionClearActivityLog, entries[0].Action)
	assert.Equal(t, "ADM00001", entries[0].StaffID)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestActivityService_ClearAllKeepsLogWhenMarkerFails(t *testing.T) {
	svc, testDB := setupActivityServiceTest(t)
	seedActivity(t, testDB, "one", "", activityNow)
	seedActivity(t, testDB, "two", "", activityNow)
	failActivityInserts(t, testDB)

	_, err := svc.ClearAll(model.Actor{Name: "Administrator", Code: "ADM00001", Role: model.RoleAdmin})
	require.Error(t, err)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestActivityService_PurgeOlderThan(t *testing.T) {
	svc, testDB := setupActivityServiceTest(t)
	seedActivity(t, testDB, "recent", "", activityNow.AddDate(0, 0, -3))
	seedActivity(t, testDB, "old", "", activityNow.AddDate(0, 0, -100))

	removed, err := svc.PurgeOlderThan(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = svc.PurgeOlderThan(0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
