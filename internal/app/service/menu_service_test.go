package service

import (
	"testing"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMenuServiceTest(t *testing.T) (MenuService, ActivityService, *gorm.DB) {
	testDB := setupServiceDB(t)
	activity := NewActivityService(repository.NewActivityRepository(testDB))
	return NewMenuService(repository.NewMenuRepository(testDB), activity, "₱"), activity, testDB
}

func TestMenuService_Create(t *testing.T) {
	svc, activity, _ := setupMenuServiceTest(t)

	item, err := svc.Create(MenuItemInput{
		Name:     "  Spicy Chicken Sandwich ",
		Category: "chicken meals",
		Price:    decimal.RequireFromString("189.5"),
	}, testActor)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Spicy Chicken Sandwich", item.Name)
	assert.Equal(t, model.CategoryChicken, item.Category)

	entries, err := activity.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionAddMenuItem, entries[0].Action)
	assert.Equal(t, "Spicy Chicken Sandwich (₱189.50) - Chicken", entries[0].Details)
}

func TestMenuService_Create_Validation(t *testing.T) {
	svc, _, _ := setupMenuServiceTest(t)

	_, err := svc.Create(MenuItemInput{Name: " ", Price: decimal.NewFromInt(10)}, testActor)
	assert.ErrorIs(t, err, ErrMenuNameRequired)

	_, err = svc.Create(MenuItemInput{Name: "Water", Price: decimal.Zero}, testActor)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.Create(MenuItemInput{Name: "Water", Price: decimal.NewFromInt(-5)}, testActor)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestMenuService_ListByCategoryAndSearch(t *testing.T) {
	svc, _, testDB := setupMenuServiceTest(t)
	createMenuItem(t, testDB, "Classic Burger", model.CategoryBurger, 159)
	createMenuItem(t, testDB, "Milk Tea", model.CategoryDrinks, 99)
	createMenuItem(t, testDB, "Iced Tea", model.CategoryDrinks, 49)

	drinks, err := svc.List("drink", "")
	require.NoError(t, err)
	assert.Len(t, drinks, 2)

	tea, err := svc.List("", "milk")
	require.NoError(t, err)
	require.Len(t, tea, 1)
	assert.Equal(t, "Milk Tea", tea[0].Name)

	all, err := svc.List("", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMenuService_UpdateAndDelete(t *testing.T) {
	svc, activity, testDB := setupMenuServiceTest(t)
	item := createMenuItem(t, testDB, "Classic Burger", model.CategoryBurger, 159)

	updated, err := svc.Update(item.ID, MenuItemInput{
		Name:     "Classic Burger",
		Category: "Burger",
		Price:    decimal.NewFromInt(169),
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "169.00", updated.Price.StringFixed(2))

	require.NoError(t, svc.Delete(item.ID, testActor))

	_, err = svc.Get(item.ID)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
	assert.ErrorIs(t, svc.Delete(item.ID, testActor), ErrMenuItemNotFound)

	_, err = svc.Update(item.ID, MenuItemInput{Name: "x", Price: decimal.NewFromInt(1)}, testActor)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	entries, err := activity.Search("Classic Burger")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.ElementsMatch(t, []string{model.ActionUpdateMenuItem, model.ActionDeleteMenuItem}, actions)
}

func TestMenuService_Import(t *testing.T) {
	svc, _, _ := setupMenuServiceTest(t)

	n, err := svc.Import([]MenuItemInput{
		{Name: "Halo-Halo", Category: "dessert", Price: decimal.NewFromInt(120)},
		{Name: "", Category: "drinks", Price: decimal.NewFromInt(50)},
		{Name: "Free Water", Category: "drinks", Price: decimal.Zero},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	items, err := svc.List("Dessert", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.MenuCategory("Dessert"), items[0].Category)
}
