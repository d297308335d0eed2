package calculator

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"PeriodStats/internal/model"
)

var (
	// ErrInvalidWindow is returned for a window that is not positive.
	ErrInvalidWindow = errors.New("window must be positive")
	// ErrNonPositiveFactor is returned when a growth rate of -100% or less
	// leaves nothing to compound.
	ErrNonPositiveFactor = errors.New("growth factor must be positive")
	// ErrGrowthOverflow is returned when compounding leaves the float64 range.
	ErrGrowthOverflow = errors.New("compounded growth overflows")
)

// DefaultWindows are the trailing window lengths reported by default.
var DefaultWindows = []int{1, 2, 5, 10, 20, 30}

// GeometricGrowth is the compounding-equivalent growth over a trailing window.
type GeometricGrowth struct {
	Window int
	// Used counts the records that contributed a growth rate.
	Used int
	// Value is the growth in percent; nil when no record contributed.
	Value *float64
}

// Sufficient reports whether every slot of the window contributed.
func (g GeometricGrowth) Sufficient() bool {
	return g.Used == g.Window
}

// TrailingGeometricMeanGrowth compounds the close growth rates of the last
// window records and returns the equivalent constant rate per period.
// Records without a close growth rate are excluded from the window.
func TrailingGeometricMeanGrowth(series []model.PeriodRecord, window int) (GeometricGrowth, error) {
	if window <= 0 {
		return GeometricGrowth{}, ErrInvalidWindow
	}

	start := len(series) - window
	if start < 0 {
		start = 0
	}

	result := GeometricGrowth{Window: window}
	product := 1.0
	for _, rec := range series[start:] {
		if rec.CloseGrowthRate == nil {
			continue
		}
		factor := 1 + *rec.CloseGrowthRate/100
		if factor <= 0 {
			return GeometricGrowth{}, ErrNonPositiveFactor
		}
		product *= factor
		result.Used++
	}

	if result.Used == 0 {
		return result, nil
	}

	mean := (math.Pow(product, 1/float64(result.Used)) - 1) * 100
	if math.IsInf(mean, 0) || math.IsNaN(mean) {
		return GeometricGrowth{}, ErrGrowthOverflow
	}
	value := decimal.NewFromFloat(mean).Round(2).InexactFloat64()
	result.Value = &value
	return result, nil
}

// SummarizeGrowth evaluates TrailingGeometricMeanGrowth for every window.
func SummarizeGrowth(series []model.PeriodRecord, windows []int) ([]GeometricGrowth, error) {
	out := make([]GeometricGrowth, 0, len(windows))
	for _, w := range windows {
		g, err := TrailingGeometricMeanGrowth(series, w)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
