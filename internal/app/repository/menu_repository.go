package repository

import (
	"strings"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"gorm.io/gorm"
)

type MenuFilter struct {
	Category model.MenuCategory
	Search   string
}

type MenuRepository interface {
	Create(item *model.MenuItem) error
	BulkCreate(items []model.MenuItem) error
	FindByID(id uint) (*model.MenuItem, error)
	FindAll(filter MenuFilter) ([]model.MenuItem, error)
	Update(item *model.MenuItem) error
	Delete(id uint) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(item *model.MenuItem) error {
	logger.Debug("Creating menu item in database", map[string]interface{}{
		"name":     item.Name,
		"category": item.Category,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create menu item in database", err, map[string]interface{}{
			"name": item.Name,
		})
		return err
	}

	logger.Debug("Menu item created in database", map[string]interface{}{
		"menu_item_id": item.ID,
	})
	return nil
}

func (r *menuRepository) BulkCreate(items []model.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(&items, 100).Error; err != nil {
		logger.Error("Failed to bulk create menu items", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}
	return nil
}

func (r *menuRepository) FindByID(id uint) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.First(&item, id).Error; err != nil {
		logger.Error("Failed to find menu item by ID in database", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) FindAll(filter MenuFilter) ([]model.MenuItem, error) {
	logger.Debug("Finding menu items in database", map[string]interface{}{
		"category": filter.Category,
		"search":   filter.Search,
	})

	query := r.db.Model(&model.MenuItem{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var items []model.MenuItem
	if err := query.Order("category ASC, name ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to find menu items in database", err)
		return nil, err
	}

	logger.Debug("Menu items found in database", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (r *menuRepository) Update(item *model.MenuItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update menu item in database", err, map[string]interface{}{
			"menu_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *menuRepository) Delete(id uint) error {
	res := r.db.Delete(&model.MenuItem{}, id)
	if res.Error != nil {
		logger.Error("Failed to delete menu item from database", res.Error, map[string]interface{}{
			"menu_item_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
