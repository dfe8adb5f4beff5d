package main

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseMenuRows(t *testing.T) {
	rows := [][]string{
		{"Category", "Name", "Price", "Description", "Image URL"},
		{"burger", "Classic Burger", "₱159.00", "Beef patty", "https://cdn.example/burger.png"},
		{"Sides", "Large Fries", "P 79"},
		{"drinks", "", "₱45.00"},
		{"drinks", "Free Water", "0"},
		{"burger", "classic burger", "₱170.00"},
	}

	inputs, skipped, err := parseMenuRows(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, inputs, 2)

	assert.Equal(t, "Classic Burger", inputs[0].Name)
	assert.True(t, decimal.NewFromInt(159).Equal(inputs[0].Price))
	assert.Equal(t, "https://cdn.example/burger.png", inputs[0].ImageURL)

	assert.Equal(t, "Large Fries", inputs[1].Name)
	assert.Equal(t, "Sides", inputs[1].Category)
	assert.Empty(t, inputs[1].Description)
}

func TestParseMenuRows_MissingColumn(t *testing.T) {
	_, _, err := parseMenuRows([][]string{{"Name", "Category"}})
	assert.Error(t, err)

	_, _, err = parseMenuRows(nil)
	assert.Error(t, err)
}

func TestReadMenuFromXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Category", "Price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Halo-Halo", "Dessert", "₱99.50"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	inputs, skipped, err := readMenuFromXLSX(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, inputs, 1)
	assert.Equal(t, "99.5", inputs[0].Price.String())
}
