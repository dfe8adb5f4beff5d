package db

import (
	"github.com/fooddash/fooddash-backend/config"
	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every table managed by AutoMigrate
func Models() []interface{} {
	return []interface{}{
		&model.Customer{},
		&model.Staff{},
		&model.Admin{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.ActivityLog{},
	}
}

// Migrate runs database migrations and the bootstrap seed
func Migrate(bootstrap *config.BootstrapConfig) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := Seed(DB, bootstrap); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed creates the bootstrap admin and a starter menu when the tables are empty
func Seed(db *gorm.DB, bootstrap *config.BootstrapConfig) error {
	logger.Info("Seeding initial data...")

	if err := seedAdmin(db, bootstrap); err != nil {
		logger.Error("Failed to seed admin", err)
		return err
	}
	if err := seedMenu(db); err != nil {
		logger.Error("Failed to seed menu", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedAdmin(db *gorm.DB, bootstrap *config.BootstrapConfig) error {
	var count int64
	if err := db.Model(&model.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Admins already exist, skipping bootstrap admin", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}
	if bootstrap == nil || bootstrap.AdminPassword == "" {
		logger.Warn("No admin account exists and BOOTSTRAP_ADMIN_PASSWORD is empty, skipping bootstrap admin")
		return nil
	}

	hash, err := util.HashPassword(bootstrap.AdminPassword)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := &model.Admin{
			Name:         bootstrap.AdminName,
			Email:        bootstrap.AdminEmail,
			PasswordHash: hash,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		code := model.AdminCodeFor(admin.ID)
		if err := tx.Model(admin).Update("admin_code", code).Error; err != nil {
			return err
		}
		logger.Info("Bootstrap admin created", map[string]interface{}{
			"admin_id": code,
			"email":    admin.Email,
		})
		return nil
	})
}

func seedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Menu already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	items := []model.MenuItem{
		{Name: "Classic Burger", Description: "Beef patty, cheddar, lettuce and house sauce", Category: model.CategoryBurger, Price: decimal.NewFromInt(159)},
		{Name: "Double Cheese Burger", Description: "Two patties, double cheddar", Category: model.CategoryBurger, Price: decimal.NewFromInt(219)},
		{Name: "Crispy Fries", Description: "Sea salt fries", Category: model.CategorySides, Price: decimal.NewFromInt(79)},
		{Name: "Onion Rings", Description: "Beer battered rings", Category: model.CategorySides, Price: decimal.NewFromInt(89)},
		{Name: "Fried Chicken (2pc)", Description: "Crispy fried chicken with gravy", Category: model.CategoryChicken, Price: decimal.NewFromInt(199)},
		{Name: "Pepperoni Pizza", Description: "12 inch pepperoni pizza", Category: model.CategoryPizza, Price: decimal.NewFromInt(399)},
		{Name: "Milk Tea", Description: "Brown sugar milk tea", Category: model.CategoryDrinks, Price: decimal.NewFromInt(99)},
		{Name: "Iced Tea", Description: "House blend iced tea", Category: model.CategoryDrinks, Price: decimal.NewFromInt(49)},
	}

	if err := db.Create(&items).Error; err != nil {
		return err
	}

	logger.Info("Menu seeded successfully", map[string]interface{}{
		"total_items": len(items),
	})
	return nil
}
