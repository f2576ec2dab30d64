package costing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cost aggregators. Each one is a pure function of the request and
// returns zero when its required inputs are non-positive, so a sparse
// request never produces division errors or negative components.

func (e *Engine) ingredientCost(req *BatchRequest) decimal.Decimal {
	total := decimal.Zero
	for _, item := range req.Items {
		cost, ok := e.lineCost(item, req.BatchMultiplier)
		if ok {
			total = total.Add(cost)
		}
	}
	return total
}

func (e *Engine) oilUsageCost(req *BatchRequest) decimal.Decimal {
	if !req.OilLitersUsed.IsPositive() || !req.OilPricePerLiter.IsPositive() {
		return decimal.Zero
	}
	return req.OilLitersUsed.Mul(req.OilPricePerLiter)
}

// oilAmortizationCost spreads one oil-change cost across the batches
// between changes.
func (e *Engine) oilAmortizationCost(req *BatchRequest) decimal.Decimal {
	if !req.OilChangeCost.IsPositive() || !req.BatchesPerOilChange.IsPositive() {
		return decimal.Zero
	}
	return req.OilChangeCost.Div(req.BatchesPerOilChange)
}

func (e *Engine) energyCost(req *BatchRequest) decimal.Decimal {
	if !req.EnergyKwh.IsPositive() || !req.EnergyRatePerKwh.IsPositive() {
		return decimal.Zero
	}
	return req.EnergyKwh.Mul(req.EnergyRatePerKwh)
}

func (e *Engine) laborCost(req *BatchRequest) decimal.Decimal {
	total := decimal.Zero
	for _, role := range req.Labor {
		if !role.Hours.IsPositive() || !role.HourlyRate.IsPositive() {
			e.log.Warn("skipping invalid labor role",
				zap.String("role", role.Role),
				zap.String("hours", role.Hours.String()),
				zap.String("hourly_rate", role.HourlyRate.String()))
			continue
		}
		total = total.Add(role.Hours.Mul(role.HourlyRate))
	}
	return total
}

func (e *Engine) packagingCost(req *BatchRequest, sellableUnits int64) decimal.Decimal {
	if !req.PackagingPerUnit.IsPositive() || sellableUnits <= 0 {
		return decimal.Zero
	}
	return req.PackagingPerUnit.Mul(decimal.NewFromInt(sellableUnits))
}

func (e *Engine) toppingCostPerUnit(req *BatchRequest) decimal.Decimal {
	if !req.ToppingPackPrice.IsPositive() ||
		!req.ToppingPackWeightGrams.IsPositive() ||
		!req.ToppingWeightPerUnitGrams.IsPositive() {
		return decimal.Zero
	}
	return req.ToppingPackPrice.
		Div(req.ToppingPackWeightGrams).
		Mul(req.ToppingWeightPerUnitGrams)
}

// doughWeightTotal sums quantity times multiplier over the lines flagged
// as part of the dough, feeding weight-based output resolution.
func (e *Engine) doughWeightTotal(req *BatchRequest) decimal.Decimal {
	total := decimal.Zero
	for _, item := range req.Items {
		if !item.IncludeInDoughWeight || !item.Quantity.IsPositive() {
			continue
		}
		total = total.Add(item.Quantity.Mul(req.BatchMultiplier))
	}
	return total
}
