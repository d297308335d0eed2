package collector

import (
	"context"

	"PeriodStats/internal/model"
)

// Fetcher defines the interface for fetching a daily series.
type Fetcher interface {
	FetchDailySeries(ctx context.Context, symbol string) (model.DailySeries, error)
	Name() string
}
