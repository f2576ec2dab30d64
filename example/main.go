package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marsicprod-hub/batchcost/pkg/costing"
)

func main() {
	ctx := context.Background()

	engine := costing.NewEngine()

	// A morning donut batch: flour and sugar priced per kilogram, frying
	// oil bought by the liter, two hours of kitchen labor.
	req := &costing.BatchRequest{
		Items: []costing.RecipeItem{
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
		Labor: []costing.LaborRole{
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

	fmt.Println("🍩 Costing a donut batch...")
	result, err := engine.Calculate(ctx, req)
	if err != nil {
		fmt.Printf("❌ Calculation failed: %v\n", err)
		return
	}

	fmt.Println("📊 Results:")
	fmt.Printf("  Total batch cost: %s\n", result.TotalBatchCost.StringFixed(2))
	fmt.Printf("  Sellable units:   %d\n", result.SellableUnits)
	fmt.Printf("  Unit cost:        %s\n", result.UnitCost.StringFixed(4))
	fmt.Printf("  Suggested price:  %s (incl. VAT %s)\n",
		result.SuggestedPrice.StringFixed(2), result.PriceIncVat.StringFixed(2))
	fmt.Printf("  Price band:       %s - %s\n",
		result.RecommendedPriceLow.StringFixed(2), result.RecommendedPriceHigh.StringFixed(2))
	fmt.Printf("  Confidence:       %s\n", result.PricingConfidenceScore.StringFixed(2))
	fmt.Println()

	if len(result.Warnings) > 0 {
		fmt.Println("⚠️  Warnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	fmt.Printf("💡 %s\n", result.RecommendationNote)
}
