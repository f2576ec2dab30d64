package costing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PricingStrategy converts a base unit cost into a nominal suggested
// price. The engine depends only on this interface, so alternative
// policies can be supplied without touching the orchestration.
type PricingStrategy interface {
	Price(baseUnitCost decimal.Decimal, req *BatchRequest) decimal.Decimal
}

// FixedMarkupStrategy prices at cost times (1 + the request's markup).
// It is the default strategy.
type FixedMarkupStrategy struct{}

func (FixedMarkupStrategy) Price(baseUnitCost decimal.Decimal, req *BatchRequest) decimal.Decimal {
	return baseUnitCost.Mul(one.Add(req.Markup))
}

// MarkupTier is one rung of a cost-plus ladder: lines whose base unit
// cost reaches Threshold are priced with Markup.
type MarkupTier struct {
	Threshold decimal.Decimal
	Markup    decimal.Decimal
}

// TieredMarkupStrategy applies the markup of the highest tier whose
// threshold the base unit cost reaches, falling back to the request's
// own markup when no tier matches.
type TieredMarkupStrategy struct {
	tiers []MarkupTier
}

// NewTieredMarkupStrategy builds a tiered strategy. Tiers are sorted by
// threshold ascending; order of the input does not matter.
func NewTieredMarkupStrategy(tiers []MarkupTier) *TieredMarkupStrategy {
	sorted := make([]MarkupTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold.LessThan(sorted[j].Threshold)
	})
	return &TieredMarkupStrategy{tiers: sorted}
}

func (s *TieredMarkupStrategy) Price(baseUnitCost decimal.Decimal, req *BatchRequest) decimal.Decimal {
	markup := req.Markup
	for _, tier := range s.tiers {
		if baseUnitCost.GreaterThanOrEqual(tier.Threshold) {
			markup = tier.Markup
		}
	}
	return baseUnitCost.Mul(one.Add(markup))
}
