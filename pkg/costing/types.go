package costing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecipeItem is a single ingredient line in a batch recipe.
//
// Exactly one cost source is consulted per line, first match wins:
// a manual total cost, a pack price with a pack net quantity, or a
// direct price per unit. Optional sources use decimal.NullDecimal;
// an absent source simply falls through to the next one.
type RecipeItem struct {
	IngredientID string
	Quantity     decimal.Decimal
	Unit         string

	// ManualCost is the total cost of this line at batch multiplier 1.
	ManualCost decimal.NullDecimal
	// PackPrice and PackNetQuantity derive a unit cost from a purchased pack.
	PackPrice       decimal.NullDecimal
	PackNetQuantity decimal.NullDecimal
	// PricePerUnit is the fallback direct unit price.
	PricePerUnit decimal.Decimal

	// IncludeInDoughWeight marks the line as contributing to the dough
	// weight total used by weight-based output resolution.
	IncludeInDoughWeight bool
}

// LaborRole is one staffed role on a batch with its hours and rate.
type LaborRole struct {
	Role       string
	Hours      decimal.Decimal
	HourlyRate decimal.Decimal
}

// BatchRequest describes one production batch to be costed and priced.
// It is treated as immutable for the duration of a calculation.
type BatchRequest struct {
	Items           []RecipeItem
	BatchMultiplier decimal.Decimal

	// Frying oil consumption plus amortized oil-change maintenance.
	OilLitersUsed       decimal.Decimal
	OilPricePerLiter    decimal.Decimal
	OilChangeCost       decimal.Decimal
	BatchesPerOilChange decimal.Decimal

	EnergyKwh        decimal.Decimal
	EnergyRatePerKwh decimal.Decimal

	Labor []LaborRole

	// OverheadAllocated is a pre-computed overhead figure, passed through.
	OverheadAllocated decimal.Decimal

	// Output derivation. WastePercent is a ratio (0.10 = 10% waste) and is
	// clamped into [0, 0.99) before use.
	TheoreticalOutput    decimal.Decimal
	WastePercent         decimal.Decimal
	UseWeightBasedOutput bool
	DonutWeightGrams     decimal.Decimal

	PackagingPerUnit decimal.Decimal

	ToppingPackPrice          decimal.Decimal
	ToppingPackWeightGrams    decimal.Decimal
	ToppingWeightPerUnitGrams decimal.Decimal

	// Pricing parameters. Markup and VatPercent are ratios (0.5 = 50%).
	Markup       decimal.Decimal
	VatPercent   decimal.Decimal
	RoundingRule string

	// Risk model inputs. RiskAppetitePercent is clamped into [0, 1];
	// MarketPressurePercent may be negative (a soft market).
	PriceVolatilityPercent decimal.Decimal
	RiskAppetitePercent    decimal.Decimal
	MarketPressurePercent  decimal.Decimal

	TargetProfitPerBatch decimal.Decimal
	MonthlyFixedCost     decimal.Decimal
}

// Validate checks the structural invariants a request must satisfy before
// any aggregation runs. Violations wrap ErrInvalidRequest.
func (r *BatchRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: request has no recipe items", ErrInvalidRequest)
	}
	if !r.BatchMultiplier.IsPositive() {
		return fmt.Errorf("%w: batch multiplier must be positive, got %s",
			ErrInvalidRequest, r.BatchMultiplier)
	}
	nonNegative := []struct {
		name  string
		value decimal.Decimal
	}{
		{"oil liters used", r.OilLitersUsed},
		{"oil price per liter", r.OilPricePerLiter},
		{"oil change cost", r.OilChangeCost},
		{"batches per oil change", r.BatchesPerOilChange},
		{"energy kwh", r.EnergyKwh},
		{"energy rate per kwh", r.EnergyRatePerKwh},
		{"overhead allocated", r.OverheadAllocated},
		{"theoretical output", r.TheoreticalOutput},
		{"donut weight grams", r.DonutWeightGrams},
		{"packaging per unit", r.PackagingPerUnit},
		{"topping pack price", r.ToppingPackPrice},
		{"topping pack weight grams", r.ToppingPackWeightGrams},
		{"topping weight per unit grams", r.ToppingWeightPerUnitGrams},
		{"markup", r.Markup},
		{"vat percent", r.VatPercent},
		{"target profit per batch", r.TargetProfitPerBatch},
		{"monthly fixed cost", r.MonthlyFixedCost},
	}
	for _, f := range nonNegative {
		if f.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative, got %s",
				ErrInvalidRequest, f.name, f.value)
		}
	}
	return nil
}

// BatchCostResult is the complete output of one costing pass. It is
// assembled once by the engine and never mutated afterwards; the cache
// hands out the same immutable instance on hits.
type BatchCostResult struct {
	// Cost components. TotalBatchCost is the exact sum of the seven
	// batch-level components (topping is carried per unit, not here).
	IngredientCost      decimal.Decimal
	OilUsageCost        decimal.Decimal
	OilAmortizationCost decimal.Decimal
	EnergyCost          decimal.Decimal
	LaborCost           decimal.Decimal
	OverheadCost        decimal.Decimal
	PackagingCost       decimal.Decimal
	ToppingCostPerUnit  decimal.Decimal
	TotalBatchCost      decimal.Decimal

	// Output metrics. DonutCountByWeight keeps its fractional part so the
	// unit cost can retain precision in weight-based mode even though
	// SellableUnits is the integer quantity shown to callers.
	DoughWeightTotal   decimal.Decimal
	DonutCountByWeight decimal.Decimal
	SellableUnits      int64
	UnitCost           decimal.Decimal

	// Pricing metrics.
	CostPerDonutWithTopping        decimal.Decimal
	CostVolatilityScore            decimal.Decimal
	RiskBufferPercent              decimal.Decimal
	MinimumSafePrice               decimal.Decimal
	SuggestedPriceConservative     decimal.Decimal
	SuggestedPriceAggressive       decimal.Decimal
	SuggestedPrice                 decimal.Decimal
	RecommendedPriceLow            decimal.Decimal
	RecommendedPriceHigh           decimal.Decimal
	PriceIncVat                    decimal.Decimal
	Margin                         decimal.Decimal
	ContributionMarginPerUnit      decimal.Decimal
	ProfitPerUnitAtSuggestedPrice  decimal.Decimal
	ProfitPerBatchAtSuggestedPrice decimal.Decimal
	UnitsForTargetProfit           int64
	MonthlyBreakEvenUnits          int64
	PricingConfidenceScore         decimal.Decimal

	// Warnings are advisory, human-readable and ordered by trigger.
	Warnings           []string
	RecommendationNote string

	// Breakdown maps component names to values for downstream display.
	Breakdown map[string]decimal.Decimal

	CalculatedAt time.Time
}
