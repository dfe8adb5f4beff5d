package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fooddash/fooddash-backend/config"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	"github.com/fooddash/fooddash-backend/internal/db"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Columns are matched by header name so the sheet may order them freely
const (
	colName        = "name"
	colDescription = "description"
	colCategory    = "category"
	colPrice       = "price"
	colImageURL    = "image_url"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <menu.xlsx> [--yes]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "--yes"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.GetDB().AutoMigrate(db.Models()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	inputs, skipped, err := readMenuFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Menu items to import: %d (skipped rows: %d)\n", len(inputs), skipped)

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	menuService := service.NewMenuService(repository.NewMenuRepository(db.GetDB()), nil, cfg.Order.CurrencySymbol)
	imported, err := menuService.Import(inputs)
	if err != nil {
		log.Fatal("Failed to import menu items:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total menu items imported: %d\n", imported)
}

func readMenuFromXLSX(filePath string) ([]service.MenuItemInput, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	return parseMenuRows(rows)
}

// parseMenuRows turns sheet rows into menu inputs. The first row is the
// header; rows without a name or with a zero price are skipped.
func parseMenuRows(rows [][]string) ([]service.MenuItemInput, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int)
	for i, header := range rows[0] {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
		index[key] = i
	}
	for _, required := range []string{colName, colPrice} {
		if _, ok := index[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var inputs []service.MenuItemInput
	skipped := 0
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		name := cell(row, colName)
		price := util.ParsePrice(cell(row, colPrice))
		if name == "" || !price.IsPositive() || seen[strings.ToLower(name)] {
			skipped++
			continue
		}
		seen[strings.ToLower(name)] = true

		inputs = append(inputs, service.MenuItemInput{
			Name:        name,
			Description: cell(row, colDescription),
			Category:    cell(row, colCategory),
			Price:       price,
			ImageURL:    cell(row, colImageURL),
		})
	}
	return inputs, skipped, nil
}
