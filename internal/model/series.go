package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO 8601 calendar-day layout used for series keys.
const DateLayout = "2006-01-02"

// DailyRecord holds the close and volume traded on a single day.
type DailyRecord struct {
	Date   string
	Close  decimal.Decimal
	Volume int64
}

// DailySeries maps an ISO date to its daily record. It carries no order.
type DailySeries map[string]DailyRecord

// SortedDates returns the series dates in ascending order.
func (s DailySeries) SortedDates() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Latest returns the record with the greatest date.
func (s DailySeries) Latest() (DailyRecord, bool) {
	var (
		latest DailyRecord
		found  bool
	)
	for d, rec := range s {
		if !found || d > latest.Date {
			latest = rec
			latest.Date = d
			found = true
		}
	}
	return latest, found
}
