package costing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EngineConfig holds configuration for the costing engine.
type EngineConfig struct {
	// Strategy converts base unit cost into a nominal price.
	// Defaults to FixedMarkupStrategy.
	Strategy PricingStrategy
	// CacheTTL is the memoization window (0 = DefaultCacheTTL).
	CacheTTL time.Duration
	// Logger receives skipped-line and cache diagnostics. Logging is
	// observational only and never affects calculation outcomes.
	// Defaults to zap.NewNop().
	Logger *zap.Logger
}

// Engine orchestrates one batch costing pass: validation, cache lookup,
// aggregation, output resolution, strategy pricing, risk enrichment,
// rounding, and result assembly. Data flows strictly one way.
type Engine struct {
	strategy PricingStrategy
	cache    *resultCache
	log      *zap.Logger
}

// NewEngine creates a costing engine with default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(EngineConfig{})
}

// NewEngineWithConfig creates a costing engine with custom configuration.
func NewEngineWithConfig(cfg EngineConfig) *Engine {
	if cfg.Strategy == nil {
		cfg.Strategy = FixedMarkupStrategy{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{
		strategy: cfg.Strategy,
		cache:    newResultCache(cfg.CacheTTL),
		log:      cfg.Logger,
	}
}

// Calculate runs one full costing pass. A context already cancelled when
// the call is dispatched skips the work; cancellation never interrupts a
// calculation in progress, since all work is CPU-bound and synchronous.
func (e *Engine) Calculate(ctx context.Context, req *BatchRequest) (*BatchCostResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if res, ok := e.cache.get(key); ok {
		e.log.Debug("returning cached batch cost result", zap.String("key", key))
		return res, nil
	}

	res, err := e.compute(req)
	if err != nil {
		return nil, err
	}
	e.cache.put(key, res)
	return res, nil
}

// Outcome is the settled result of one asynchronous or isolated
// calculation.
type Outcome struct {
	Result *BatchCostResult
	Err    error
}

// CalculateAsync runs Calculate off the caller's goroutine and delivers
// the outcome on the returned channel. Cancellation is only honored
// before dispatch.
func (e *Engine) CalculateAsync(ctx context.Context, req *BatchRequest) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		res, err := e.Calculate(ctx, req)
		out <- Outcome{Result: res, Err: err}
	}()
	return out
}

// CalculateAll processes requests in order and aborts on the first
// failure, returning the error unwrapped. Partial results are discarded.
func (e *Engine) CalculateAll(ctx context.Context, reqs []*BatchRequest) ([]*BatchCostResult, error) {
	results := make([]*BatchCostResult, 0, len(reqs))
	for _, req := range reqs {
		res, err := e.Calculate(ctx, req)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// CalculateAllSettled processes every request regardless of individual
// failures and reports each outcome, errors included, in request order.
func (e *Engine) CalculateAllSettled(ctx context.Context, reqs []*BatchRequest) []Outcome {
	outcomes := make([]Outcome, 0, len(reqs))
	for _, req := range reqs {
		res, err := e.Calculate(ctx, req)
		outcomes = append(outcomes, Outcome{Result: res, Err: err})
	}
	return outcomes
}

// Diagnostics returns a snapshot of cache hit/miss/total counters and the
// derived hit rate.
func (e *Engine) Diagnostics() CacheStats {
	return e.cache.stats()
}

// ClearCache drops every memoized result. Call after ingredient-price
// updates so stale costs cannot be served.
func (e *Engine) ClearCache() {
	e.cache.clear()
	e.log.Debug("result cache cleared")
}

// compute performs the aggregation pipeline on an already validated
// request and assembles an immutable result.
func (e *Engine) compute(req *BatchRequest) (*BatchCostResult, error) {
	res := &BatchCostResult{CalculatedAt: time.Now()}

	res.IngredientCost = e.ingredientCost(req)
	res.OilUsageCost = e.oilUsageCost(req)
	res.OilAmortizationCost = e.oilAmortizationCost(req)
	res.EnergyCost = e.energyCost(req)
	res.LaborCost = e.laborCost(req)
	res.OverheadCost = req.OverheadAllocated

	out, err := e.resolveOutput(req)
	if err != nil {
		return nil, err
	}
	res.DoughWeightTotal = out.DoughWeightTotal
	res.DonutCountByWeight = out.DonutCountByWeight
	res.SellableUnits = out.SellableUnits
	if out.WasteClamped {
		res.Warnings = append(res.Warnings, WarnWasteClamped)
	}

	res.PackagingCost = e.packagingCost(req, out.SellableUnits)

	res.TotalBatchCost = res.IngredientCost.
		Add(res.OilUsageCost).
		Add(res.OilAmortizationCost).
		Add(res.EnergyCost).
		Add(res.LaborCost).
		Add(res.OverheadCost).
		Add(res.PackagingCost)

	res.UnitCost = res.TotalBatchCost.Div(out.Divisor)
	res.ToppingCostPerUnit = e.toppingCostPerUnit(req)
	res.CostPerDonutWithTopping = res.UnitCost.Add(res.ToppingCostPerUnit)

	nominal := e.strategy.Price(res.CostPerDonutWithTopping, req)
	e.enrichPricing(req, res, out, nominal)

	res.Breakdown = buildBreakdown(res)
	return res, nil
}

func buildBreakdown(res *BatchCostResult) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"IngredientCost":            res.IngredientCost,
		"OilUsageCost":              res.OilUsageCost,
		"OilAmortizationCost":       res.OilAmortizationCost,
		"EnergyCost":                res.EnergyCost,
		"LaborCost":                 res.LaborCost,
		"OverheadCost":              res.OverheadCost,
		"PackagingCost":             res.PackagingCost,
		"ToppingCostPerUnit":        res.ToppingCostPerUnit,
		"TotalBatchCost":            res.TotalBatchCost,
		"UnitCost":                  res.UnitCost,
		"CostPerDonutWithTopping":   res.CostPerDonutWithTopping,
		"RiskBufferPercent":         res.RiskBufferPercent,
		"MinimumSafePrice":          res.MinimumSafePrice,
		"SuggestedPrice":            res.SuggestedPrice,
		"PriceIncVat":               res.PriceIncVat,
		"Margin":                    res.Margin,
		"ContributionMarginPerUnit": res.ContributionMarginPerUnit,
		"PricingConfidenceScore":    res.PricingConfidenceScore,
	}
}
