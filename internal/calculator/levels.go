package calculator

import "github.com/shopspring/decimal"

// DefaultLevelPercentages are the distances, in percent, reported around the current price.
var DefaultLevelPercentages = []float64{0.5, 0.7, 0.9, 1, 1.3, 1.5, 2, 2.3, 2.6, 2.9, 3, 3.5, 4, 4.3}

// PriceLevel is the price reached by moving a percentage up or down from a reference.
type PriceLevel struct {
	Percentage float64
	Up         float64
	Down       float64
}

// PriceLevels returns the up/down prices at each percentage around current, rounded to cents.
func PriceLevels(current float64, percentages []float64) []PriceLevel {
	base := decimal.NewFromFloat(current)
	levels := make([]PriceLevel, len(percentages))
	for i, p := range percentages {
		change := base.Mul(decimal.NewFromFloat(p)).Div(decimal.NewFromInt(100))
		levels[i] = PriceLevel{
			Percentage: p,
			Up:         base.Add(change).Round(2).InexactFloat64(),
			Down:       base.Sub(change).Round(2).InexactFloat64(),
		}
	}
	return levels
}
