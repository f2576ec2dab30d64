package costing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	one           = decimal.NewFromInt(1)
	maxWasteClamp = decimal.RequireFromString("0.99")
)

// outputResolution carries everything the rest of the pipeline needs to
// know about sellable output: the integer unit count shown to callers,
// and the possibly fractional divisor used for unit cost.
type outputResolution struct {
	DoughWeightTotal   decimal.Decimal
	DonutCountByWeight decimal.Decimal
	SellableUnits      int64
	// Divisor is the decimal donut count in weight-based mode (keeping
	// fractional precision for unit cost), else the integer unit count.
	Divisor decimal.Decimal
	// WastePercent is the clamped value actually applied.
	WastePercent decimal.Decimal
	WasteClamped bool
}

// resolveOutput derives the sellable-unit count, either from dough weight
// divided by unit weight, or from theoretical output adjusted for waste.
// A zero or negative resolved count is a fatal UnresolvableOutputError.
func (e *Engine) resolveOutput(req *BatchRequest) (outputResolution, error) {
	out := outputResolution{
		DoughWeightTotal: e.doughWeightTotal(req),
	}

	out.WastePercent = req.WastePercent
	if out.WastePercent.IsNegative() {
		out.WastePercent = decimal.Zero
		out.WasteClamped = true
	} else if out.WastePercent.GreaterThan(maxWasteClamp) {
		out.WastePercent = maxWasteClamp
		out.WasteClamped = true
	}
	if out.WasteClamped {
		e.log.Warn("waste percent outside [0, 0.99), clamped",
			zap.String("declared", req.WastePercent.String()),
			zap.String("applied", out.WastePercent.String()))
	}

	if req.UseWeightBasedOutput {
		if out.DoughWeightTotal.IsPositive() && req.DonutWeightGrams.IsPositive() {
			out.DonutCountByWeight = out.DoughWeightTotal.Div(req.DonutWeightGrams)
		}
		if !out.DonutCountByWeight.IsPositive() {
			e.log.Error("weight-based output resolved to zero units",
				zap.String("dough_weight", out.DoughWeightTotal.String()),
				zap.String("donut_weight_grams", req.DonutWeightGrams.String()))
			return out, &UnresolvableOutputError{
				WeightBased: true,
				Detail:      "dough weight divided by unit weight is not positive",
			}
		}
		out.SellableUnits = max(1, out.DonutCountByWeight.Floor().IntPart())
		out.Divisor = out.DonutCountByWeight
		return out, nil
	}

	if !req.TheoreticalOutput.IsPositive() {
		e.log.Error("waste-based output resolved to zero units",
			zap.String("theoretical_output", req.TheoreticalOutput.String()))
		return out, &UnresolvableOutputError{
			WeightBased: false,
			Detail:      "theoretical output is not positive",
		}
	}
	adjusted := req.TheoreticalOutput.Mul(one.Sub(out.WastePercent))
	out.SellableUnits = max(1, adjusted.Floor().IntPart())
	out.Divisor = decimal.NewFromInt(out.SellableUnits)
	return out, nil
}
