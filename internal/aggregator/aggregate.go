package aggregator

import (
	"github.com/shopspring/decimal"

	"PeriodStats/internal/model"
)

// Aggregate reduces every bucket to its average close and average volume.
// Closes are rounded to the scheme's precision and volumes to the nearest
// integer, both half away from zero.
func Aggregate(buckets Buckets, scheme model.Scheme) map[string]model.PeriodStatistics {
	stats := make(map[string]model.PeriodStatistics, len(buckets))
	for key, records := range buckets {
		if len(records) == 0 {
			continue
		}
		stats[key] = reduce(records, scheme.ClosePrecision())
	}
	return stats
}

func reduce(records []model.DailyRecord, precision int32) model.PeriodStatistics {
	closeSum := decimal.Zero
	volumeSum := decimal.Zero
	for _, rec := range records {
		closeSum = closeSum.Add(rec.Close)
		volumeSum = volumeSum.Add(decimal.NewFromInt(rec.Volume))
	}
	n := decimal.NewFromInt(int64(len(records)))

	return model.PeriodStatistics{
		AverageClose:  closeSum.Div(n).Round(precision).InexactFloat64(),
		AverageVolume: volumeSum.Div(n).Round(0).IntPart(),
	}
}
