package calculator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/shopspring/decimal"

	"PeriodStats/internal/model"
)

func growthSeries(rates ...*float64) []model.PeriodRecord {
	series := make([]model.PeriodRecord, len(rates))
	for i, r := range rates {
		series[i] = model.PeriodRecord{
			Date:             fmt.Sprintf("2024-01-%02d", i+1),
			PeriodStatistics: model.PeriodStatistics{AverageClose: 100, CloseGrowthRate: r},
		}
	}
	return series
}

func pct(v float64) *float64 { return &v }

func TestTrailingGeometricMeanGrowth_ConstantRate(t *testing.T) {
	for _, g := range []float64{2.5, -1.75, 0, 12} {
		series := growthSeries(nil, pct(g), pct(g), pct(g), pct(g), pct(g))
		got, err := TrailingGeometricMeanGrowth(series, 5)
		assert.NoError(t, err)
		assert.True(t, got.Sufficient())
		assert.NotNil(t, got.Value)
		assert.Equal(t, g, *got.Value)
	}
}

func TestTrailingGeometricMeanGrowth_PartialWindow(t *testing.T) {
	series := growthSeries(pct(1), pct(2), pct(3))
	got, err := TrailingGeometricMeanGrowth(series, 5)
	assert.NoError(t, err)
	assert.Equal(t, 5, got.Window)
	assert.Equal(t, 3, got.Used)
	assert.False(t, got.Sufficient())
	assert.NotNil(t, got.Value)
	assert.Equal(t, 2.0, *got.Value)
}

func TestTrailingGeometricMeanGrowth_ExcludesUndefinedRates(t *testing.T) {
	series := growthSeries(nil, pct(10), pct(10))
	got, err := TrailingGeometricMeanGrowth(series, 3)
	assert.NoError(t, err)
	assert.Equal(t, 2, got.Used)
	assert.False(t, got.Sufficient())
	assert.Equal(t, 10.0, *got.Value)

	// Only the trailing window is considered.
	got, err = TrailingGeometricMeanGrowth(series, 2)
	assert.NoError(t, err)
	assert.True(t, got.Sufficient())
	assert.Equal(t, 10.0, *got.Value)
}

func TestTrailingGeometricMeanGrowth_MixedRates(t *testing.T) {
	got, err := TrailingGeometricMeanGrowth(growthSeries(pct(10), pct(-10)), 2)
	assert.NoError(t, err)
	assert.Equal(t, -0.5, *got.Value)
}

func TestTrailingGeometricMeanGrowth_InsufficientData(t *testing.T) {
	got, err := TrailingGeometricMeanGrowth(growthSeries(nil), 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Used)
	assert.Nil(t, got.Value)

	got, err = TrailingGeometricMeanGrowth(nil, 3)
	assert.NoError(t, err)
	assert.Nil(t, got.Value)
	assert.False(t, got.Sufficient())
}

func TestTrailingGeometricMeanGrowth_Errors(t *testing.T) {
	_, err := TrailingGeometricMeanGrowth(growthSeries(pct(1)), 0)
	assert.True(t, errors.Is(err, ErrInvalidWindow))

	_, err = TrailingGeometricMeanGrowth(growthSeries(pct(5), pct(-100)), 2)
	assert.True(t, errors.Is(err, ErrNonPositiveFactor))

	_, err = TrailingGeometricMeanGrowth(growthSeries(pct(1e308), pct(1e308)), 2)
	assert.True(t, errors.Is(err, ErrGrowthOverflow))
}

func TestSummarizeGrowth_DoesNotMutate(t *testing.T) {
	series := growthSeries(nil, pct(1), pct(2), pct(3))
	before := make([]model.PeriodRecord, len(series))
	copy(before, series)

	got, err := SummarizeGrowth(series, DefaultWindows)
	assert.NoError(t, err)
	assert.Equal(t, len(DefaultWindows), len(got))
	assert.Equal(t, 3.0, *got[0].Value)
	assert.True(t, got[0].Sufficient())
	assert.Equal(t, 3, got[len(got)-1].Used)

	again, err := SummarizeGrowth(series, DefaultWindows)
	assert.NoError(t, err)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("summary not repeatable:\n%s", diff)
	}
	if diff := cmp.Diff(before, series); diff != "" {
		t.Errorf("series mutated:\n%s", diff)
	}
}

func TestPriceLevels(t *testing.T) {
	got := PriceLevels(250, []float64{0.5, 1, 4.3})
	want := []PriceLevel{
		{Percentage: 0.5, Up: 251.25, Down: 248.75},
		{Percentage: 1, Up: 252.5, Down: 247.5},
		{Percentage: 4.3, Up: 260.75, Down: 239.25},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected levels (-want +got):\n%s", diff)
	}
	assert.Equal(t, len(DefaultLevelPercentages), len(PriceLevels(1, DefaultLevelPercentages)))
}

func TestCurrentPrice(t *testing.T) {
	series := model.DailySeries{
		"2024-01-03": {Close: decimal.RequireFromString("101.5")},
		"2024-01-05": {Close: decimal.RequireFromString("103.25")},
		"2024-01-04": {Close: decimal.RequireFromString("102")},
	}
	price, ok := CurrentPrice(series)
	assert.True(t, ok)
	assert.Equal(t, 103.25, price)

	price, ok = CurrentPrice(model.DailySeries{})
	assert.False(t, ok)
	assert.Equal(t, 0.0, price)
}
