package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"PeriodStats/internal/aggregator"
	"PeriodStats/internal/calculator"
	"PeriodStats/internal/model"
)

// StaticFetcher returns fixed series for development and testing.
type StaticFetcher struct {
	Series map[string]model.DailySeries
	Errs   map[string]error
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) FetchDailySeries(_ context.Context, symbol string) (model.DailySeries, error) {
	if err := s.Errs[symbol]; err != nil {
		return nil, err
	}
	series, ok := s.Series[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: no series for %s", ErrMissingInputData, symbol)
	}
	return series, nil
}

// Collector orchestrates data fetching and period aggregation.
type Collector struct {
	Fetcher Fetcher
	Logger  *zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, logger *zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Logger: logger}
}

// Collect fetches the daily series of symbol and derives its published document.
// An empty series is not an error: the document carries empty sequences and a zero price.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.SymbolData, error) {
	series, err := c.Fetcher.FetchDailySeries(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch daily series: %w", err)
	}

	data, err := aggregator.Build(series)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", symbol, err)
	}

	price, ok := calculator.CurrentPrice(series)
	if !ok {
		c.Logger.Warn().Str("symbol", symbol).Msg("empty daily series, current price unavailable")
	}
	data.Price = price

	c.Logger.Info().Str("symbol", symbol).Int("days", len(series)).
		Int("months", len(data.MonthlyData)).Int("weeks", len(data.WeeklyData)).
		Int("biweeks", len(data.BiweeklyData)).Msg("series aggregated")
	return data, nil
}
