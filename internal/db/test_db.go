package db

import (
	"fmt"

	appLogger "github.com/fooddash/fooddash-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDSN keeps foreign keys on so order_items cascade like they do on postgres
const testDSN = "file::memory:?_foreign_keys=on"

// SetupTestDB opens a private in-memory sqlite database with every table
// from Models migrated. Callers close it with CleanupTestDB.
func SetupTestDB() (*gorm.DB, error) {
	testDB, err := gorm.Open(sqlite.Open(testDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open test database: %w", err)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		return nil, fmt.Errorf("test database handle: %w", err)
	}
	// each new connection would see its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(Models()...); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate test database: %w", err)
	}
	return testDB, nil
}

func CleanupTestDB(testDB *gorm.DB) {
	sqlDB, err := testDB.DB()
	if err != nil {
		appLogger.Warn("Test database already unusable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_ = sqlDB.Close()
}
