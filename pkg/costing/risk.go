package costing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Advisory warning texts, in the order the enricher emits them.
const (
	WarnWasteClamped            = "waste percent was outside [0, 0.99) and has been clamped"
	WarnHighWaste               = "waste exceeds 12% of output; sellable units are significantly reduced"
	WarnHighOverheadShare       = "overhead exceeds 35% of total batch cost"
	WarnHighVolatility          = "ingredient price volatility is high; unit cost may drift"
	WarnThinContributionMargin  = "contribution margin is at or below the minimum unit price floor"
	WarnTargetProfitUnreachable = "target profit per batch is unreachable at the suggested price"
	WarnBreakEvenUnreachable    = "monthly break-even is unreachable at the suggested price"
)

var (
	two = decimal.NewFromInt(2)

	// Volatility blend: observed coefficient of variation vs declared.
	cvWeight       = decimal.RequireFromString("0.65")
	declaredWeight = decimal.RequireFromString("0.35")

	// Risk buffer sizing.
	bufferBase             = decimal.RequireFromString("0.03")
	bufferVolatilityWeight = decimal.RequireFromString("0.20")
	bufferWasteWeight      = decimal.RequireFromString("0.12")
	bufferOverheadWeight   = decimal.RequireFromString("0.08")
	appetiteFactorBase     = decimal.RequireFromString("1.15")
	appetiteFactorSlope    = decimal.RequireFromString("0.60")
	bufferFloor            = decimal.RequireFromString("0.02")
	bufferCeil             = decimal.RequireFromString("0.35")

	// Price band multipliers and appetite cutoffs.
	conservativeBase  = decimal.RequireFromString("1.04")
	conservativeSlope = decimal.RequireFromString("0.06")
	aggressiveBase    = decimal.RequireFromString("1.06")
	aggressiveSlope   = decimal.RequireFromString("0.08")
	lowAppetiteCut    = decimal.RequireFromString("0.35")
	highAppetiteCut   = decimal.RequireFromString("0.75")

	// Warning thresholds.
	wasteWarnThreshold      = decimal.RequireFromString("0.12")
	overheadWarnThreshold   = decimal.RequireFromString("0.35")
	volatilityWarnThreshold = decimal.RequireFromString("0.35")
	minUnitPriceFloor       = decimal.RequireFromString("0.01")

	// Confidence model.
	confVolatilityWeight = decimal.RequireFromString("0.45")
	confWasteWeight      = decimal.RequireFromString("0.25")
	confOverheadWeight   = decimal.RequireFromString("0.20")
	confPressureWeight   = decimal.RequireFromString("0.10")
	confFloor            = decimal.RequireFromString("0.05")
	confCeil             = decimal.RequireFromString("0.98")

	// Recommendation note tiers.
	lowConfidenceCut  = decimal.RequireFromString("0.40")
	highConfidenceCut = decimal.RequireFromString("0.70")
)

// enrichPricing turns the base unit cost and the strategy's nominal price
// into the full risk-aware price band plus margin, break-even, warning,
// and confidence analytics. Costs and output must already be filled in.
func (e *Engine) enrichPricing(req *BatchRequest, res *BatchCostResult, out outputResolution, nominal decimal.Decimal) {
	baseCost := res.CostPerDonutWithTopping

	volatility := e.volatilityScore(req)
	res.CostVolatilityScore = volatility

	overheadShare := decimal.Zero
	if res.TotalBatchCost.IsPositive() {
		overheadShare = res.OverheadCost.Div(res.TotalBatchCost)
	}

	appetite := clampDecimal(req.RiskAppetitePercent, decimal.Zero, one)

	// Risk buffer: base signal scaled by appetite, clamped to [2%, 35%].
	bufferSignal := bufferBase.
		Add(bufferVolatilityWeight.Mul(volatility)).
		Add(bufferWasteWeight.Mul(out.WastePercent)).
		Add(bufferOverheadWeight.Mul(overheadShare))
	appetiteFactor := appetiteFactorBase.Sub(appetiteFactorSlope.Mul(appetite))
	buffer := clampDecimal(bufferSignal.Mul(appetiteFactor), bufferFloor, bufferCeil)
	res.RiskBufferPercent = buffer

	// Price band.
	minimumSafe := baseCost.Mul(one.Add(buffer))
	marketAdjusted := nominal.Mul(one.Add(req.MarketPressurePercent))
	strategyAdjusted := decimal.Max(minimumSafe, marketAdjusted)

	conservativeMult := conservativeBase.Add(one.Sub(appetite).Mul(conservativeSlope))
	aggressiveMult := aggressiveBase.Add(appetite.Mul(aggressiveSlope))
	conservative := decimal.Max(strategyAdjusted, minimumSafe.Mul(conservativeMult))
	aggressive := decimal.Max(strategyAdjusted, strategyAdjusted.Mul(aggressiveMult))

	var chosen decimal.Decimal
	switch {
	case appetite.LessThanOrEqual(lowAppetiteCut):
		chosen = conservative
	case appetite.GreaterThanOrEqual(highAppetiteCut):
		chosen = strategyAdjusted.Add(aggressive).Div(two)
	default:
		chosen = strategyAdjusted
	}

	// Each candidate rounds independently.
	res.MinimumSafePrice = RoundToIncrement(minimumSafe, req.RoundingRule)
	res.SuggestedPriceConservative = RoundToIncrement(conservative, req.RoundingRule)
	res.SuggestedPriceAggressive = RoundToIncrement(aggressive, req.RoundingRule)
	res.SuggestedPrice = RoundToIncrement(chosen, req.RoundingRule)
	res.RecommendedPriceLow = decimal.Min(
		res.SuggestedPriceConservative, res.SuggestedPriceAggressive, res.SuggestedPrice)
	res.RecommendedPriceHigh = decimal.Max(
		res.SuggestedPriceConservative, res.SuggestedPriceAggressive, res.SuggestedPrice)

	res.PriceIncVat = res.SuggestedPrice.Mul(one.Add(req.VatPercent))

	if res.SuggestedPrice.IsPositive() {
		res.Margin = res.SuggestedPrice.Sub(baseCost).Div(res.SuggestedPrice)
	}
	contribution := res.SuggestedPrice.Sub(baseCost)
	res.ContributionMarginPerUnit = contribution
	res.ProfitPerUnitAtSuggestedPrice = contribution
	res.ProfitPerBatchAtSuggestedPrice = contribution.Mul(out.Divisor)

	targetUnreachable := false
	if req.TargetProfitPerBatch.IsPositive() {
		if contribution.IsPositive() {
			res.UnitsForTargetProfit = req.TargetProfitPerBatch.Div(contribution).Ceil().IntPart()
		} else {
			targetUnreachable = true
		}
	}
	breakEvenUnreachable := false
	if req.MonthlyFixedCost.IsPositive() {
		if contribution.IsPositive() {
			res.MonthlyBreakEvenUnits = req.MonthlyFixedCost.Div(contribution).Ceil().IntPart()
		} else {
			breakEvenUnreachable = true
		}
	}

	if out.WastePercent.GreaterThan(wasteWarnThreshold) {
		res.Warnings = append(res.Warnings, WarnHighWaste)
	}
	if overheadShare.GreaterThan(overheadWarnThreshold) {
		res.Warnings = append(res.Warnings, WarnHighOverheadShare)
	}
	if volatility.GreaterThan(volatilityWarnThreshold) {
		res.Warnings = append(res.Warnings, WarnHighVolatility)
	}
	if contribution.LessThanOrEqual(minUnitPriceFloor) {
		res.Warnings = append(res.Warnings, WarnThinContributionMargin)
	}
	if targetUnreachable {
		res.Warnings = append(res.Warnings, WarnTargetProfitUnreachable)
	}
	if breakEvenUnreachable {
		res.Warnings = append(res.Warnings, WarnBreakEvenUnreachable)
	}

	confidence := one.
		Sub(confVolatilityWeight.Mul(volatility)).
		Sub(confWasteWeight.Mul(out.WastePercent)).
		Sub(confOverheadWeight.Mul(overheadShare))
	if req.MarketPressurePercent.IsNegative() {
		confidence = confidence.Sub(confPressureWeight.Mul(req.MarketPressurePercent.Neg()))
	}
	res.PricingConfidenceScore = clampDecimal(confidence, confFloor, confCeil)

	res.RecommendationNote = recommendationNote(contribution, res.PricingConfidenceScore)
}

// volatilityScore blends the observed coefficient of variation of
// per-line ingredient unit costs with the request's declared volatility.
// With fewer than two observations, or a non-positive mean, only the
// declared volatility (clamped to [0, 1]) is used.
func (e *Engine) volatilityScore(req *BatchRequest) decimal.Decimal {
	declared := clampDecimal(req.PriceVolatilityPercent, decimal.Zero, one)

	var observed []decimal.Decimal
	for _, item := range req.Items {
		if unit, ok := e.lineUnitCost(item); ok {
			observed = append(observed, unit)
		}
	}
	if len(observed) < 2 {
		return declared
	}

	n := decimal.NewFromInt(int64(len(observed)))
	sum := decimal.Zero
	for _, u := range observed {
		sum = sum.Add(u)
	}
	mean := sum.Div(n)
	if !mean.IsPositive() {
		return declared
	}

	variance := decimal.Zero
	for _, u := range observed {
		diff := u.Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(n)

	// decimal carries no square root; one hop through float64 and back.
	// A variance past float64 range means the CV sits at the cap anyway.
	sd := math.Sqrt(variance.InexactFloat64())
	if math.IsInf(sd, 0) || math.IsNaN(sd) {
		return clampDecimal(cvWeight.Add(declaredWeight.Mul(declared)), decimal.Zero, one)
	}
	stdDev := decimal.NewFromFloat(sd)

	cv := clampDecimal(stdDev.Div(mean), decimal.Zero, one)
	blended := cvWeight.Mul(cv).Add(declaredWeight.Mul(declared))
	return clampDecimal(blended, decimal.Zero, one)
}

func recommendationNote(contribution, confidence decimal.Decimal) string {
	if contribution.LessThanOrEqual(decimal.Zero) {
		return "Suggested price is below sustainable margin; revisit costs or markup before selling."
	}
	switch {
	case confidence.LessThan(lowConfidenceCut):
		return "Low confidence in the suggested price; validate ingredient prices before committing."
	case confidence.LessThan(highConfidenceCut):
		return "Moderate confidence in the suggested price; monitor volatile inputs."
	default:
		return "Strong confidence in the suggested price."
	}
}

func clampDecimal(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
