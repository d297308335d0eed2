// Package calculator derives scalar figures from daily and period series.
package calculator

import "PeriodStats/internal/model"

// CurrentPrice returns the close of the most recent date in the series.
// The series is scanned for its greatest date rather than trusting upstream order.
func CurrentPrice(series model.DailySeries) (float64, bool) {
	latest, ok := series.Latest()
	if !ok {
		return 0, false
	}
	return latest.Close.InexactFloat64(), true
}
