package costing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEngine_IngredientCost_SkipsInvalidLines(t *testing.T) {
	engine := newTestEngine()

	req := &BatchRequest{
		BatchMultiplier: decimal.NewFromInt(1),
		Items: []RecipeItem{
			{IngredientID: "GOOD", Quantity: decimal.NewFromInt(2), PricePerUnit: decimal.NewFromInt(5)},
			{IngredientID: "NO_QTY", Quantity: decimal.Zero, PricePerUnit: decimal.NewFromInt(5)},
			{IngredientID: "NEG_PRICE", Quantity: decimal.NewFromInt(2), PricePerUnit: decimal.NewFromInt(-5)},
		},
	}

	assertDecimalEqual(t, "ingredient cost", engine.ingredientCost(req), "10")
}

func TestEngine_OilCosts(t *testing.T) {
	engine := newTestEngine()

	req := &BatchRequest{
		OilLitersUsed:       decimal.NewFromInt(2),
		OilPricePerLiter:    decimal.NewFromInt(12),
		OilChangeCost:       decimal.NewFromInt(500),
		BatchesPerOilChange: decimal.NewFromInt(10),
	}
	assertDecimalEqual(t, "oil usage", engine.oilUsageCost(req), "24")
	assertDecimalEqual(t, "oil amortization", engine.oilAmortizationCost(req), "50")

	// Zero batches per change must not divide.
	req.BatchesPerOilChange = decimal.Zero
	assertDecimalEqual(t, "oil amortization guarded", engine.oilAmortizationCost(req), "0")

	req.OilLitersUsed = decimal.Zero
	assertDecimalEqual(t, "oil usage guarded", engine.oilUsageCost(req), "0")
}

func TestEngine_EnergyCost(t *testing.T) {
	engine := newTestEngine()

	req := &BatchRequest{
		EnergyKwh:        decimal.NewFromInt(5),
		EnergyRatePerKwh: decimal.RequireFromString("2.5"),
	}
	assertDecimalEqual(t, "energy cost", engine.energyCost(req), "12.5")

	req.EnergyRatePerKwh = decimal.Zero
	assertDecimalEqual(t, "energy cost guarded", engine.energyCost(req), "0")
}

func TestEngine_LaborCost_SkipsInvalidRoles(t *testing.T) {
	engine := newTestEngine()

	req := &BatchRequest{
		Labor: []LaborRole{
			{Role: "Baker", Hours: decimal.NewFromInt(2), HourlyRate: decimal.NewFromInt(50)},
			{Role: "Helper", Hours: decimal.NewFromInt(3), HourlyRate: decimal.NewFromInt(20)},
			{Role: "NoHours", Hours: decimal.Zero, HourlyRate: decimal.NewFromInt(20)},
			{Role: "NoRate", Hours: decimal.NewFromInt(1), HourlyRate: decimal.Zero},
		},
	}

	assertDecimalEqual(t, "labor cost", engine.laborCost(req), "160")
}

func TestEngine_PackagingCost(t *testing.T) {
	engine := newTestEngine()

	req := &BatchRequest{PackagingPerUnit: decimal.RequireFromString("0.50")}
	assertDecimalEqual(t, "packaging", engine.packagingCost(req, 90), "45")
	assertDecimalEqual(t, "packaging no units", engine.packagingCost(req, 0), "0")

	req.PackagingPerUnit = decimal.Zero
	assertDecimalEqual(t, "packaging no per-unit", engine.packagingCost(req, 90), "0")
}

func TestEngine_ToppingCostPerUnit(t *testing.T) {
	engine := newTestEngine()

	req := &BatchRequest{
		ToppingPackPrice:          decimal.NewFromInt(40),
		ToppingPackWeightGrams:    decimal.NewFromInt(1000),
		ToppingWeightPerUnitGrams: decimal.NewFromInt(15),
	}
	assertDecimalEqual(t, "topping per unit", engine.toppingCostPerUnit(req), "0.6")

	req.ToppingPackWeightGrams = decimal.Zero
	assertDecimalEqual(t, "topping guarded", engine.toppingCostPerUnit(req), "0")
}

func TestEngine_DoughWeightTotal(t *testing.T) {
	engine := newTestEngine()

	req := &BatchRequest{
		BatchMultiplier: decimal.NewFromInt(2),
		Items: []RecipeItem{
			{IngredientID: "FLOUR", Quantity: decimal.NewFromInt(5), IncludeInDoughWeight: true},
			{IngredientID: "SUGAR", Quantity: decimal.NewFromInt(1), IncludeInDoughWeight: true},
			{IngredientID: "GLAZE", Quantity: decimal.NewFromInt(3)},
		},
	}

	assertDecimalEqual(t, "dough weight", engine.doughWeightTotal(req), "12")
}
