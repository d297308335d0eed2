package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"PeriodStats/internal/model"
)

// FileFetcher implements Fetcher over saved TIME_SERIES_DAILY payloads,
// one <SYMBOL>.json per instrument.
type FileFetcher struct {
	Dir string
}

// NewFileFetcher creates a fetcher reading payloads from dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Dir: dir}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchDailySeries(_ context.Context, symbol string) (model.DailySeries, error) {
	path := filepath.Join(f.Dir, symbol+".json")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", path, err)
	}

	series, err := ParseDailySeries(body)
	if err != nil {
		return nil, fmt.Errorf("parse payload %s: %w", path, err)
	}
	return series, nil
}
