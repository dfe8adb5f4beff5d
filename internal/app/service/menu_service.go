package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrMenuNameRequired = errors.New("menu item name is required")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
)

// MenuItemInput carries the editable fields of a menu item
type MenuItemInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	ImageURL    string
}

type MenuService interface {
	List(category, search string) ([]model.MenuItem, error)
	Get(id uint) (*model.MenuItem, error)
	Create(input MenuItemInput, actor model.Actor) (*model.MenuItem, error)
	Update(id uint, input MenuItemInput, actor model.Actor) (*model.MenuItem, error)
	Delete(id uint, actor model.Actor) error
	Import(inputs []MenuItemInput) (int, error)
}

type menuService struct {
	menuRepo       repository.MenuRepository
	activity       ActivityService
	currencySymbol string
}

func NewMenuService(menuRepo repository.MenuRepository, activity ActivityService, currencySymbol string) MenuService {
	return &menuService{
		menuRepo:       menuRepo,
		activity:       activity,
		currencySymbol: currencySymbol,
	}
}

func validateMenuInput(input MenuItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrMenuNameRequired
	}
	if !input.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

func (s *menuService) List(category, search string) ([]model.MenuItem, error) {
	filter := repository.MenuFilter{Search: strings.TrimSpace(search)}
	if strings.TrimSpace(category) != "" {
		filter.Category = model.NormalizeCategory(category)
	}
	return s.menuRepo.FindAll(filter)
}

func (s *menuService) Get(id uint) (*model.MenuItem, error) {
	item, err := s.menuRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *menuService) record(actor model.Actor, action, details string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(actor, action, details); err != nil {
		logger.Warn("Failed to record menu activity", map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		})
	}
}

func (s *menuService) Create(input MenuItemInput, actor model.Actor) (*model.MenuItem, error) {
	if err := validateMenuInput(input); err != nil {
		return nil, err
	}

	item := &model.MenuItem{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    model.NormalizeCategory(input.Category),
		Price:       input.Price.Round(2),
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}
	if err := s.menuRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Menu item created", map[string]interface{}{
		"menu_item_id": item.ID,
		"name":         item.Name,
		"staff_id":     actor.Code,
	})
	s.record(actor, model.ActionAddMenuItem,
		fmt.Sprintf("%s (%s) - %s", item.Name, util.FormatPrice(s.currencySymbol, item.Price), item.Category))
	return item, nil
}

func (s *menuService) Update(id uint, input MenuItemInput, actor model.Actor) (*model.MenuItem, error) {
	if err := validateMenuInput(input); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var changes []string
	name := strings.TrimSpace(input.Name)
	if name != item.Name {
		changes = append(changes, fmt.Sprintf("name %s → %s", item.Name, name))
	}
	price := input.Price.Round(2)
	if !price.Equal(item.Price) {
		changes = append(changes, fmt.Sprintf("price %s → %s",
			util.FormatPrice(s.currencySymbol, item.Price), util.FormatPrice(s.currencySymbol, price)))
	}
	category := model.NormalizeCategory(input.Category)
	if category != item.Category {
		changes = append(changes, fmt.Sprintf("category %s → %s", item.Category, category))
	}

	item.Name = name
	item.Description = strings.TrimSpace(input.Description)
	item.Category = category
	item.Price = price
	if url := strings.TrimSpace(input.ImageURL); url != "" {
		item.ImageURL = url
	}

	if err := s.menuRepo.Update(item); err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		changes = append(changes, "no field changes")
	}
	logger.Info("Menu item updated", map[string]interface{}{
		"menu_item_id": item.ID,
		"staff_id":     actor.Code,
	})
	s.record(actor, model.ActionUpdateMenuItem, item.Name+": "+strings.Join(changes, ", "))
	return item, nil
}

func (s *menuService) Delete(id uint, actor model.Actor) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.menuRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuItemNotFound
		}
		return err
	}

	logger.Info("Menu item deleted", map[string]interface{}{
		"menu_item_id": id,
		"staff_id":     actor.Code,
	})
	s.record(actor, model.ActionDeleteMenuItem, item.Name)
	return nil
}

// Import validates and inserts a batch of menu items, used by the seeder.
// Invalid rows are skipped and logged.
func (s *menuService) Import(inputs []MenuItemInput) (int, error) {
	items := make([]model.MenuItem, 0, len(inputs))
	for i, input := range inputs {
		if err := validateMenuInput(input); err != nil {
			logger.Warn("Skipping menu import row", map[string]interface{}{
				"row":   i + 1,
				"name":  input.Name,
				"error": err.Error(),
			})
			continue
		}
		items = append(items, model.MenuItem{
			Name:        strings.TrimSpace(input.Name),
			Description: strings.TrimSpace(input.Description),
			Category:    model.NormalizeCategory(input.Category),
			Price:       input.Price.Round(2),
			ImageURL:    strings.TrimSpace(input.ImageURL),
		})
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := s.menuRepo.BulkCreate(items); err != nil {
		return 0, err
	}

	logger.Info("Menu items imported", map[string]interface{}{
		"imported": len(items),
		"skipped":  len(inputs) - len(items),
	})
	return len(items), nil
}
