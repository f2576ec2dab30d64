package costing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// lineCost resolves the total cost of one recipe line at the given batch
// multiplier. Resolution order, first match wins:
//
//  1. manual total cost, scaled directly by the multiplier
//  2. pack price / pack net quantity, times quantity and multiplier
//  3. direct price per unit, times quantity and multiplier
//
// Invalid lines (non-positive quantity, negative price) contribute zero
// and are logged, never fatal. A manual cost is a line total, not a rate,
// so it applies even when the quantity is non-positive; such a line still
// yields no per-unit observation in lineUnitCost. The second return
// reports whether the line was counted.
func (e *Engine) lineCost(item RecipeItem, multiplier decimal.Decimal) (decimal.Decimal, bool) {
	if item.ManualCost.Valid {
		if item.ManualCost.Decimal.IsNegative() {
			e.log.Warn("skipping recipe line with negative manual cost",
				zap.String("ingredient", item.IngredientID),
				zap.String("manual_cost", item.ManualCost.Decimal.String()))
			return decimal.Zero, false
		}
		return item.ManualCost.Decimal.Mul(multiplier), true
	}

	if !item.Quantity.IsPositive() {
		e.log.Warn("skipping recipe line with non-positive quantity",
			zap.String("ingredient", item.IngredientID),
			zap.String("quantity", item.Quantity.String()))
		return decimal.Zero, false
	}

	unit, ok := e.lineUnitCost(item)
	if !ok {
		return decimal.Zero, false
	}
	return unit.Mul(item.Quantity).Mul(multiplier), true
}

// lineUnitCost derives the per-unit cost of a line using the same
// resolution order as lineCost. The risk model reuses it to observe a
// unit price per ingredient for volatility scoring.
func (e *Engine) lineUnitCost(item RecipeItem) (decimal.Decimal, bool) {
	if item.ManualCost.Valid {
		if item.ManualCost.Decimal.IsNegative() || !item.Quantity.IsPositive() {
			return decimal.Zero, false
		}
		return item.ManualCost.Decimal.Div(item.Quantity), true
	}

	if item.PackPrice.Valid && item.PackNetQuantity.Valid &&
		!item.PackPrice.Decimal.IsNegative() && item.PackNetQuantity.Decimal.IsPositive() {
		return item.PackPrice.Decimal.Div(item.PackNetQuantity.Decimal), true
	}

	if item.PricePerUnit.IsNegative() {
		e.log.Warn("skipping recipe line with negative unit price",
			zap.String("ingredient", item.IngredientID),
			zap.String("price_per_unit", item.PricePerUnit.String()))
		return decimal.Zero, false
	}
	return item.PricePerUnit, true
}
