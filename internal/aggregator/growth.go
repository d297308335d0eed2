package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"

	"PeriodStats/internal/model"
)

// growthPrecision is the number of decimal places kept for growth rates.
const growthPrecision = 2

var hundred = decimal.NewFromInt(100)

// Annotate returns a copy of stats where every period but the chronologically
// first carries its close and volume growth against the preceding period.
// A growth rate stays nil when the predecessor's average is zero.
func Annotate(stats map[string]model.PeriodStatistics) map[string]model.PeriodStatistics {
	keys := sortedKeys(stats)
	out := make(map[string]model.PeriodStatistics, len(stats))

	for i, key := range keys {
		cur := stats[key]
		cur.CloseGrowthRate = nil
		cur.VolumeGrowthRate = nil

		if i > 0 {
			prev := stats[keys[i-1]]
			cur.CloseGrowthRate = GrowthRate(
				decimal.NewFromFloat(prev.AverageClose), decimal.NewFromFloat(cur.AverageClose))
			cur.VolumeGrowthRate = GrowthRate(
				decimal.NewFromInt(prev.AverageVolume), decimal.NewFromInt(cur.AverageVolume))
		}
		out[key] = cur
	}
	return out
}

// GrowthRate is the percentage change from prev to cur rounded to two
// decimals, or nil when prev is zero.
func GrowthRate(prev, cur decimal.Decimal) *float64 {
	if prev.IsZero() {
		return nil
	}
	rate := cur.Sub(prev).Div(prev).Mul(hundred).Round(growthPrecision).InexactFloat64()
	return &rate
}

func sortedKeys(stats map[string]model.PeriodStatistics) []string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
