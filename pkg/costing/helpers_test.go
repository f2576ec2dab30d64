package costing

import (
	"testing"

	"github.com/shopspring/decimal"
)

// newTestEngine creates an engine with defaults suitable for most tests.
func newTestEngine() *Engine {
	return NewEngine()
}

// scenarioARequest builds the reference donut batch: three priced
// ingredient lines, oil, energy, labor, overhead, 100 theoretical units
// at 10% waste, 50% markup, 10% VAT, nickel rounding.
func scenarioARequest() *BatchRequest {
	return &BatchRequest{
		Items: []RecipeItem{
			{
				IngredientID:         "FLOUR",
				Quantity:             decimal.NewFromInt(5),
				Unit:                 "kg",
				PricePerUnit:         decimal.NewFromInt(3),
				IncludeInDoughWeight: true,
			},
			{
				IngredientID:         "SUGAR",
				Quantity:             decimal.NewFromInt(1),
				Unit:                 "kg",
				PricePerUnit:         decimal.NewFromInt(8),
				IncludeInDoughWeight: true,
			},
			{
				IngredientID: "FRYING_OIL",
				Quantity:     decimal.RequireFromString("0.5"),
				Unit:         "l",
				PricePerUnit: decimal.NewFromInt(12),
			},
		},
		BatchMultiplier:     decimal.NewFromInt(1),
		OilLitersUsed:       decimal.NewFromInt(2),
		OilPricePerLiter:    decimal.NewFromInt(12),
		OilChangeCost:       decimal.NewFromInt(500),
		BatchesPerOilChange: decimal.NewFromInt(10),
		EnergyKwh:           decimal.NewFromInt(5),
		EnergyRatePerKwh:    decimal.RequireFromString("2.5"),
		Labor: []LaborRole{
			{Role: "Baker", Hours: decimal.NewFromInt(2), HourlyRate: decimal.NewFromInt(50)},
		},
		OverheadAllocated: decimal.NewFromInt(100),
		TheoreticalOutput: decimal.NewFromInt(100),
		WastePercent:      decimal.RequireFromString("0.10"),
		PackagingPerUnit:  decimal.RequireFromString("0.50"),
		Markup:            decimal.RequireFromString("0.5"),
		VatPercent:        decimal.RequireFromString("0.10"),
		RoundingRule:      "0.05",
	}
}

// assertDecimalEqual fails the test when got differs from want.
func assertDecimalEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}
