package costing

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// DefaultCacheTTL is how long a memoized result stays valid.
const DefaultCacheTTL = 60 * time.Minute

// CacheStats is a point-in-time snapshot of the cache counters.
type CacheStats struct {
	Hits              int64
	Misses            int64
	TotalCalculations int64
	HitRate           float64
}

// resultCache memoizes full calculation results. Lookups and stores are
// linearizable (go-cache holds its own lock) and the counters are
// atomic, so concurrent calculations never lose updates.
type resultCache struct {
	store *gocache.Cache

	hits   atomic.Int64
	misses atomic.Int64
	total  atomic.Int64
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &resultCache{
		store: gocache.New(ttl, 10*time.Minute),
	}
}

func (c *resultCache) get(key string) (*BatchCostResult, bool) {
	if v, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		return v.(*BatchCostResult), true
	}
	c.misses.Add(1)
	return nil, false
}

func (c *resultCache) put(key string, res *BatchCostResult) {
	c.store.Set(key, res, gocache.DefaultExpiration)
	c.total.Add(1)
}

// clear drops every entry. Ingredient-price updates rely on this being a
// real full invalidation, not just a counter reset.
func (c *resultCache) clear() {
	c.store.Flush()
}

func (c *resultCache) stats() CacheStats {
	s := CacheStats{
		Hits:              c.hits.Load(),
		Misses:            c.misses.Load(),
		TotalCalculations: c.total.Load(),
	}
	if lookups := s.Hits + s.Misses; lookups > 0 {
		s.HitRate = float64(s.Hits) / float64(lookups)
	}
	return s
}

// cacheKey derives the memoization key from the economically significant
// scalar fields, formatted to two decimals, plus an FNV-64a hash over the
// full item and labor sequences. The hash keeps two structurally
// different recipes that share the same scalars from colliding.
func cacheKey(req *BatchRequest) string {
	scalars := []decimal.Decimal{
		req.BatchMultiplier,
		req.OilPricePerLiter,
		req.EnergyRatePerKwh,
		req.Markup,
		req.WastePercent,
		req.PriceVolatilityPercent,
		req.RiskAppetitePercent,
		req.MarketPressurePercent,
		req.TargetProfitPerBatch,
		req.MonthlyFixedCost,
	}

	var b strings.Builder
	for _, s := range scalars {
		b.WriteString(s.StringFixed(2))
		b.WriteByte('|')
	}

	h := fnv.New64a()
	for _, item := range req.Items {
		fmt.Fprintf(h, "%s|%s|%s|%v|%v|%v|%s|%t;",
			item.IngredientID,
			item.Quantity.String(),
			item.Unit,
			nullDecimalKey(item.ManualCost),
			nullDecimalKey(item.PackPrice),
			nullDecimalKey(item.PackNetQuantity),
			item.PricePerUnit.String(),
			item.IncludeInDoughWeight)
	}
	for _, role := range req.Labor {
		fmt.Fprintf(h, "%s|%s|%s;", role.Role, role.Hours.String(), role.HourlyRate.String())
	}

	fmt.Fprintf(&b, "%016x", h.Sum64())
	return b.String()
}

func nullDecimalKey(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}
