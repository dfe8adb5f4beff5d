package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuCategory string

const (
	CategoryBurger  MenuCategory = "Burger"
	CategorySides   MenuCategory = "Sides"
	CategoryChicken MenuCategory = "Chicken"
	CategoryPizza   MenuCategory = "Pizza"
	CategoryDrinks  MenuCategory = "Drinks"
	CategoryOther   MenuCategory = "Other"
)

// categoryKeywords is matched in order, first hit wins.
var categoryKeywords = []struct {
	keyword  string
	category MenuCategory
}{
	{"burger", CategoryBurger},
	{"side", CategorySides},
	{"chicken", CategoryChicken},
	{"pizza", CategoryPizza},
	{"drink", CategoryDrinks},
}

// NormalizeCategory maps free-text categories onto the menu filter set.
// Unknown non-empty values are capitalized and kept as is.
func NormalizeCategory(raw string) MenuCategory {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CategoryOther
	}
	lower := strings.ToLower(trimmed)
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.category
		}
	}
	runes := []rune(lower)
	return MenuCategory(strings.ToUpper(string(runes[0])) + string(runes[1:]))
}

type MenuItem struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    MenuCategory    `gorm:"type:varchar(50);index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
