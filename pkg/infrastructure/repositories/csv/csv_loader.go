package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marsicprod-hub/batchcost/pkg/costing"
)

// Loader handles loading recipe and labor data from CSV files.
type Loader struct{}

// NewLoader creates a new CSV loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadItems loads recipe lines from a CSV file. Optional cost-source
// columns (manual_cost, pack_price, pack_net_qty) may be left empty.
// Rows failing local validation (quantity must be positive, prices must
// not be negative) are rejected with a row-numbered error before a
// request is ever constructed.
func (l *Loader) LoadItems(filename string) ([]costing.RecipeItem, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open items file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read items CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("items CSV must have header and at least one data row")
	}

	expectedHeader := []string{"ingredient_id", "quantity", "unit", "manual_cost", "pack_price", "pack_net_qty", "price_per_unit", "include_in_dough"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("items CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	var items []costing.RecipeItem
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("items CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}

		items = append(items, item)
	}

	return items, nil
}

// LoadLabor loads labor roles from a CSV file.
func (l *Loader) LoadLabor(filename string) ([]costing.LaborRole, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open labor file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read labor CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("labor CSV must have header and at least one data row")
	}

	expectedHeader := []string{"role", "hours", "hourly_rate"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("labor CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	var roles []costing.LaborRole
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("labor CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		role, err := parseLaborRole(record)
		if err != nil {
			return nil, fmt.Errorf("labor CSV row %d: %w", i+2, err)
		}

		roles = append(roles, role)
	}

	return roles, nil
}

func parseItem(record []string) (costing.RecipeItem, error) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return costing.RecipeItem{}, fmt.Errorf("invalid quantity %q: %w", record[1], err)
	}
	if !quantity.IsPositive() {
		return costing.RecipeItem{}, fmt.Errorf("quantity must be positive, got %s", quantity)
	}

	manualCost, err := parseOptionalDecimal(record[3], "manual_cost")
	if err != nil {
		return costing.RecipeItem{}, err
	}
	packPrice, err := parseOptionalDecimal(record[4], "pack_price")
	if err != nil {
		return costing.RecipeItem{}, err
	}
	packNetQty, err := parseOptionalDecimal(record[5], "pack_net_qty")
	if err != nil {
		return costing.RecipeItem{}, err
	}

	pricePerUnit := decimal.Zero
	if v := strings.TrimSpace(record[6]); v != "" {
		pricePerUnit, err = decimal.NewFromString(v)
		if err != nil {
			return costing.RecipeItem{}, fmt.Errorf("invalid price_per_unit %q: %w", record[6], err)
		}
	}
	if pricePerUnit.IsNegative() {
		return costing.RecipeItem{}, fmt.Errorf("price_per_unit must not be negative, got %s", pricePerUnit)
	}

	includeInDough, err := strconv.ParseBool(strings.TrimSpace(record[7]))
	if err != nil {
		return costing.RecipeItem{}, fmt.Errorf("invalid include_in_dough %q: %w", record[7], err)
	}

	return costing.RecipeItem{
		IngredientID:         strings.TrimSpace(record[0]),
		Quantity:             quantity,
		Unit:                 strings.TrimSpace(record[2]),
		ManualCost:           manualCost,
		PackPrice:            packPrice,
		PackNetQuantity:      packNetQty,
		PricePerUnit:         pricePerUnit,
		IncludeInDoughWeight: includeInDough,
	}, nil
}

func parseLaborRole(record []string) (costing.LaborRole, error) {
	hours, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return costing.LaborRole{}, fmt.Errorf("invalid hours %q: %w", record[1], err)
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return costing.LaborRole{}, fmt.Errorf("invalid hourly_rate %q: %w", record[2], err)
	}
	if rate.IsNegative() {
		return costing.LaborRole{}, fmt.Errorf("hourly_rate must not be negative, got %s", rate)
	}

	return costing.LaborRole{
		Role:       strings.TrimSpace(record[0]),
		Hours:      hours,
		HourlyRate: rate,
	}, nil
}

func parseOptionalDecimal(field, name string) (decimal.NullDecimal, error) {
	v := strings.TrimSpace(field)
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid %s %q: %w", name, field, err)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("%s must not be negative, got %s", name, d)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return false
		}
	}
	return true
}
