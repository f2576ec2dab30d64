package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/marsicprod-hub/batchcost/pkg/costing"
)

var hundred = decimal.NewFromInt(100)

// generateOutput renders a calculation result in the requested format.
func generateOutput(result *costing.BatchCostResult, format string) error {
	switch format {
	case "text":
		return generateTextOutput(result)
	case "json":
		return generateJSONOutput(result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func generateTextOutput(result *costing.BatchCostResult) error {
	var output string

	output += "═══════════════════════════════════════════════════════════════\n"
	output += "                  BATCH COSTING RESULTS\n"
	output += "═══════════════════════════════════════════════════════════════\n\n"

	output += "💰 COST BREAKDOWN\n"
	output += fmt.Sprintf("  Ingredients:      %12s\n", result.IngredientCost.StringFixed(2))
	output += fmt.Sprintf("  Oil usage:        %12s\n", result.OilUsageCost.StringFixed(2))
	output += fmt.Sprintf("  Oil amortization: %12s\n", result.OilAmortizationCost.StringFixed(2))
	output += fmt.Sprintf("  Energy:           %12s\n", result.EnergyCost.StringFixed(2))
	output += fmt.Sprintf("  Labor:            %12s\n", result.LaborCost.StringFixed(2))
	output += fmt.Sprintf("  Overhead:         %12s\n", result.OverheadCost.StringFixed(2))
	output += fmt.Sprintf("  Packaging:        %12s\n", result.PackagingCost.StringFixed(2))
	output += "  ────────────────────────────────\n"
	output += fmt.Sprintf("  Total batch cost: %12s\n\n", result.TotalBatchCost.StringFixed(2))

	output += "📦 OUTPUT\n"
	output += fmt.Sprintf("  Sellable units:   %12d\n", result.SellableUnits)
	output += fmt.Sprintf("  Unit cost:        %12s\n", result.UnitCost.StringFixed(4))
	output += fmt.Sprintf("  With topping:     %12s\n\n", result.CostPerDonutWithTopping.StringFixed(4))

	output += "🏷️  PRICING\n"
	output += fmt.Sprintf("  Minimum safe:     %12s\n", result.MinimumSafePrice.StringFixed(2))
	output += fmt.Sprintf("  Conservative:     %12s\n", result.SuggestedPriceConservative.StringFixed(2))
	output += fmt.Sprintf("  Aggressive:       %12s\n", result.SuggestedPriceAggressive.StringFixed(2))
	output += fmt.Sprintf("  Suggested:        %12s\n", result.SuggestedPrice.StringFixed(2))
	output += fmt.Sprintf("  Incl. VAT:        %12s\n", result.PriceIncVat.StringFixed(2))
	output += fmt.Sprintf("  Recommended band: %s - %s\n",
		result.RecommendedPriceLow.StringFixed(2), result.RecommendedPriceHigh.StringFixed(2))
	output += fmt.Sprintf("  Margin:           %12s%%\n", result.Margin.Mul(hundred).StringFixed(1))
	output += fmt.Sprintf("  Risk buffer:      %12s%%\n", result.RiskBufferPercent.Mul(hundred).StringFixed(1))
	output += fmt.Sprintf("  Confidence:       %12s\n\n", result.PricingConfidenceScore.StringFixed(2))

	if result.UnitsForTargetProfit > 0 || result.MonthlyBreakEvenUnits > 0 {
		output += "📈 ANALYTICS\n"
		if result.UnitsForTargetProfit > 0 {
			output += fmt.Sprintf("  Units for target profit: %d\n", result.UnitsForTargetProfit)
		}
		if result.MonthlyBreakEvenUnits > 0 {
			output += fmt.Sprintf("  Monthly break-even units: %d\n", result.MonthlyBreakEvenUnits)
		}
		output += "\n"
	}

	if len(result.Warnings) > 0 {
		output += "⚠️  WARNINGS\n"
		for _, w := range result.Warnings {
			output += fmt.Sprintf("  - %s\n", w)
		}
		output += "\n"
	}

	output += fmt.Sprintf("💡 %s\n", result.RecommendationNote)

	fmt.Print(output)
	return nil
}

func generateJSONOutput(result *costing.BatchCostResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printDiagnostics(stats costing.CacheStats) {
	fmt.Println("🔍 DIAGNOSTICS")
	fmt.Printf("  Cache hits:   %d\n", stats.Hits)
	fmt.Printf("  Cache misses: %d\n", stats.Misses)
	fmt.Printf("  Calculations: %d\n", stats.TotalCalculations)
	fmt.Printf("  Hit rate:     %.2f\n", stats.HitRate)
}
