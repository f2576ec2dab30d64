package costing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEngine_Calculate_ScenarioA(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	result, err := engine.Calculate(ctx, scenarioARequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	assertDecimalEqual(t, "IngredientCost", result.IngredientCost, "29")
	assertDecimalEqual(t, "OilUsageCost", result.OilUsageCost, "24")
	assertDecimalEqual(t, "OilAmortizationCost", result.OilAmortizationCost, "50")
	assertDecimalEqual(t, "EnergyCost", result.EnergyCost, "12.5")
	assertDecimalEqual(t, "LaborCost", result.LaborCost, "100")
	assertDecimalEqual(t, "OverheadCost", result.OverheadCost, "100")
	assertDecimalEqual(t, "PackagingCost", result.PackagingCost, "45")
	assertDecimalEqual(t, "TotalBatchCost", result.TotalBatchCost, "360.5")

	if result.SellableUnits != 90 {
		t.Errorf("expected 90 sellable units, got %d", result.SellableUnits)
	}
	assertDecimalEqual(t, "UnitCost rounded", result.UnitCost.Round(4), "4.0056")

	// No topping in this scenario, so the pricing base equals unit cost.
	if !result.CostPerDonutWithTopping.Equal(result.UnitCost) {
		t.Errorf("expected base cost %s to equal unit cost %s",
			result.CostPerDonutWithTopping, result.UnitCost)
	}

	if !result.PriceIncVat.Equal(result.SuggestedPrice.Mul(decimal.RequireFromString("1.10"))) {
		t.Errorf("expected VAT-inclusive price %s to be suggested %s times 1.10",
			result.PriceIncVat, result.SuggestedPrice)
	}

	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
	if result.RecommendationNote != "Strong confidence in the suggested price." {
		t.Errorf("unexpected recommendation note: %q", result.RecommendationNote)
	}
	if result.CalculatedAt.IsZero() {
		t.Error("expected CalculatedAt to be set")
	}
}

func TestEngine_Calculate_TotalIsExactComponentSum(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	result, err := engine.Calculate(ctx, scenarioARequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	sum := result.IngredientCost.
		Add(result.OilUsageCost).
		Add(result.OilAmortizationCost).
		Add(result.EnergyCost).
		Add(result.LaborCost).
		Add(result.OverheadCost).
		Add(result.PackagingCost)
	if !result.TotalBatchCost.Equal(sum) {
		t.Errorf("TotalBatchCost %s drifted from component sum %s", result.TotalBatchCost, sum)
	}
}

func TestEngine_Calculate_WeightBasedOutput(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	req := &BatchRequest{
		Items: []RecipeItem{
			{
				IngredientID:         "DOUGH",
				Quantity:             decimal.NewFromInt(3700),
				Unit:                 "g",
				PricePerUnit:         decimal.RequireFromString("0.05"),
				IncludeInDoughWeight: true,
			},
		},
		BatchMultiplier:      decimal.NewFromInt(1),
		UseWeightBasedOutput: true,
		DonutWeightGrams:     decimal.NewFromInt(40),
	}

	result, err := engine.Calculate(ctx, req)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// 3700g of dough at 40g per donut: 92 whole donuts, but the unit
	// cost divides the 185 batch cost by the fractional count 92.5.
	if result.SellableUnits != 92 {
		t.Errorf("expected 92 sellable units, got %d", result.SellableUnits)
	}
	assertDecimalEqual(t, "DonutCountByWeight", result.DonutCountByWeight, "92.5")
	assertDecimalEqual(t, "TotalBatchCost", result.TotalBatchCost, "185")
	assertDecimalEqual(t, "UnitCost", result.UnitCost, "2")
}

func TestEngine_Calculate_ScenarioB_WasteClamped(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	req := scenarioARequest()
	req.WastePercent = decimal.RequireFromString("1.5")

	result, err := engine.Calculate(ctx, req)
	if err != nil {
		t.Fatalf("expected clamping rather than a fatal error, got %v", err)
	}

	if len(result.Warnings) == 0 || result.Warnings[0] != WarnWasteClamped {
		t.Errorf("expected first warning %q, got %v", WarnWasteClamped, result.Warnings)
	}
	// 100 theoretical units at the clamped 99% waste floor to 1 unit.
	if result.SellableUnits != 1 {
		t.Errorf("expected 1 sellable unit after clamping, got %d", result.SellableUnits)
	}
	if !containsWarning(result.Warnings, WarnHighWaste) {
		t.Errorf("expected high-waste warning, got %v", result.Warnings)
	}
}

func TestEngine_Calculate_ScenarioC_UnresolvableOutput(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	req := scenarioARequest()
	req.TheoreticalOutput = decimal.Zero

	result, err := engine.Calculate(ctx, req)
	if result != nil {
		t.Error("expected no result on unresolvable output")
	}
	var outputErr *UnresolvableOutputError
	if !errors.As(err, &outputErr) {
		t.Fatalf("expected UnresolvableOutputError, got %v", err)
	}
	if outputErr.WeightBased {
		t.Error("expected the waste-based path to be reported")
	}
}

func TestEngine_Calculate_ScenarioD_TargetProfitUnreachable(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	// A coarse rounding rule collapses the suggested price to zero, so
	// the contribution margin goes negative while costs stay valid.
	req := &BatchRequest{
		Items: []RecipeItem{
			{IngredientID: "FLOUR", Quantity: decimal.NewFromInt(1), PricePerUnit: decimal.NewFromInt(2)},
		},
		BatchMultiplier:      decimal.NewFromInt(1),
		TheoreticalOutput:    decimal.NewFromInt(1),
		TargetProfitPerBatch: decimal.NewFromInt(100),
		RoundingRule:         "10",
	}

	result, err := engine.Calculate(ctx, req)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if !result.ContributionMarginPerUnit.IsNegative() {
		t.Fatalf("expected negative contribution margin, got %s", result.ContributionMarginPerUnit)
	}
	if result.UnitsForTargetProfit != 0 {
		t.Errorf("expected 0 units for target profit, got %d", result.UnitsForTargetProfit)
	}
	if !containsWarning(result.Warnings, WarnTargetProfitUnreachable) {
		t.Errorf("expected target-profit warning, got %v", result.Warnings)
	}
	if result.RecommendationNote != "Suggested price is below sustainable margin; revisit costs or markup before selling." {
		t.Errorf("unexpected recommendation note: %q", result.RecommendationNote)
	}
}

func TestEngine_Calculate_NilRequest(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Calculate(context.Background(), nil)
	if !errors.Is(err, ErrNilRequest) {
		t.Errorf("expected ErrNilRequest, got %v", err)
	}
}

func TestEngine_Calculate_InvalidRequest(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name   string
		mutate func(*BatchRequest)
	}{
		{"no_items", func(r *BatchRequest) { r.Items = nil }},
		{"zero_multiplier", func(r *BatchRequest) { r.BatchMultiplier = decimal.Zero }},
		{"negative_overhead", func(r *BatchRequest) { r.OverheadAllocated = decimal.NewFromInt(-1) }},
		{"negative_markup", func(r *BatchRequest) { r.Markup = decimal.RequireFromString("-0.1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := scenarioARequest()
			tt.mutate(req)
			_, err := engine.Calculate(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestEngine_Calculate_CacheHitSkipsRecomputation(t *testing.T) {
	ctx := context.Background()

	core, logs := observer.New(zap.DebugLevel)
	engine := NewEngineWithConfig(EngineConfig{Logger: zap.New(core)})

	first, err := engine.Calculate(ctx, scenarioARequest())
	if err != nil {
		t.Fatalf("first Calculate failed: %v", err)
	}
	second, err := engine.Calculate(ctx, scenarioARequest())
	if err != nil {
		t.Fatalf("second Calculate failed: %v", err)
	}

	if first != second {
		t.Error("expected the cached result instance to be returned")
	}

	stats := engine.Diagnostics()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalCalculations != 1 {
		t.Errorf("expected 1 hit, 1 miss, 1 calculation; got %+v", stats)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %f", stats.HitRate)
	}

	hitLogs := logs.FilterMessage("returning cached batch cost result").Len()
	if hitLogs != 1 {
		t.Errorf("expected exactly 1 cache-hit log entry, got %d", hitLogs)
	}
}

func TestEngine_ClearCache_ForcesRecomputation(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	if _, err := engine.Calculate(ctx, scenarioARequest()); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	engine.ClearCache()
	if _, err := engine.Calculate(ctx, scenarioARequest()); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	stats := engine.Diagnostics()
	if stats.Hits != 0 {
		t.Errorf("expected no hits after cache clear, got %d", stats.Hits)
	}
	if stats.TotalCalculations != 2 {
		t.Errorf("expected 2 calculations, got %d", stats.TotalCalculations)
	}
}

func TestEngine_CalculateAsync(t *testing.T) {
	engine := newTestEngine()

	outcome := <-engine.CalculateAsync(context.Background(), scenarioARequest())
	if outcome.Err != nil {
		t.Fatalf("CalculateAsync failed: %v", outcome.Err)
	}
	if outcome.Result == nil || outcome.Result.SellableUnits != 90 {
		t.Errorf("unexpected async result: %+v", outcome.Result)
	}
}

func TestEngine_CalculateAsync_CancelledBeforeDispatch(t *testing.T) {
	engine := newTestEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := <-engine.CalculateAsync(ctx, scenarioARequest())
	if !errors.Is(outcome.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", outcome.Err)
	}
	if outcome.Result != nil {
		t.Error("expected no result for a cancelled dispatch")
	}
}

func TestEngine_CalculateAll_AbortsOnFirstError(t *testing.T) {
	engine := newTestEngine()

	bad := scenarioARequest()
	bad.Items = nil

	results, err := engine.CalculateAll(context.Background(),
		[]*BatchRequest{scenarioARequest(), bad, scenarioARequest()})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if results != nil {
		t.Error("expected no partial results on abort")
	}
}

func TestEngine_CalculateAllSettled_IsolatesFailures(t *testing.T) {
	engine := newTestEngine()

	bad := scenarioARequest()
	bad.Items = nil

	outcomes := engine.CalculateAllSettled(context.Background(),
		[]*BatchRequest{scenarioARequest(), bad, scenarioARequest()})
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Errorf("expected first and last requests to succeed: %v, %v",
			outcomes[0].Err, outcomes[2].Err)
	}
	if !errors.Is(outcomes[1].Err, ErrInvalidRequest) {
		t.Errorf("expected the middle request to fail with ErrInvalidRequest, got %v", outcomes[1].Err)
	}
}

func TestEngine_Calculate_CustomStrategy(t *testing.T) {
	engine := NewEngineWithConfig(EngineConfig{
		Strategy: NewTieredMarkupStrategy([]MarkupTier{
			{Threshold: decimal.Zero, Markup: decimal.RequireFromString("2.0")},
		}),
	})

	result, err := engine.Calculate(context.Background(), scenarioARequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// Tripling cost dominates every band member, so the suggested price
	// must clear the fixed-markup level by a wide margin.
	fixedNominal := result.CostPerDonutWithTopping.Mul(decimal.RequireFromString("1.5"))
	if !result.SuggestedPrice.GreaterThan(fixedNominal) {
		t.Errorf("expected tiered price %s above fixed-markup nominal %s",
			result.SuggestedPrice, fixedNominal)
	}
}

func containsWarning(warnings []string, want string) bool {
	for _, w := range warnings {
		if w == want {
			return true
		}
	}
	return false
}
