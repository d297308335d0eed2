package aggregator

import "PeriodStats/internal/model"

// Materialize lays the statistics out as records in ascending date order.
func Materialize(stats map[string]model.PeriodStatistics) []model.PeriodRecord {
	records := make([]model.PeriodRecord, 0, len(stats))
	for _, key := range sortedKeys(stats) {
		records = append(records, model.PeriodRecord{
			PeriodStatistics: stats[key],
			Date:             key,
		})
	}
	return records
}
