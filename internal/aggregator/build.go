package aggregator

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"PeriodStats/internal/model"
)

// Series runs one scheme end to end: bucket, aggregate, annotate, materialize.
func Series(series model.DailySeries, scheme model.Scheme) ([]model.PeriodRecord, error) {
	buckets, err := Bucket(series, scheme)
	if err != nil {
		return nil, fmt.Errorf("bucket %s: %w", scheme, err)
	}
	return Materialize(Annotate(Aggregate(buckets, scheme))), nil
}

// Build derives the monthly, weekly and bi-weekly sequences of a series.
// The schemes share no state and are computed concurrently.
func Build(series model.DailySeries) (*model.SymbolData, error) {
	results := make([][]model.PeriodRecord, len(model.Schemes))

	var g errgroup.Group
	for i, scheme := range model.Schemes {
		g.Go(func() error {
			records, err := Series(series, scheme)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := model.NewSymbolData()
	for i, scheme := range model.Schemes {
		data.SetSeries(scheme, results[i])
	}
	return data, nil
}
