package costing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundToIncrement normalizes a price to the nearest multiple of the
// monetary increment encoded in rule (for example "0.05"). Ties round
// half away from zero, the behavior of decimal.Round: 2.025 with rule
// "0.05" becomes 2.05, not 2.00.
//
// An empty, unparseable, or non-positive rule returns the price
// unchanged; a bad rounding rule is never an error.
func RoundToIncrement(price decimal.Decimal, rule string) decimal.Decimal {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return price
	}
	increment, err := decimal.NewFromString(rule)
	if err != nil || !increment.IsPositive() {
		return price
	}
	return price.Div(increment).Round(0).Mul(increment)
}
