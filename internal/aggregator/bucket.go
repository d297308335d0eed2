// Package aggregator folds a daily series into monthly, weekly and bi-weekly
// period statistics annotated with period-over-period growth.
package aggregator

import (
	"errors"
	"fmt"
	"time"

	"PeriodStats/internal/model"
)

// ErrMalformedDate is returned when a series key is not an ISO calendar date.
var ErrMalformedDate = errors.New("malformed series date")

// Buckets maps a period key to its member records in ascending date order.
type Buckets map[string][]model.DailyRecord

// Bucket groups the series by the period key of the given scheme.
// Every record lands in exactly one bucket; an empty series yields no buckets.
func Bucket(series model.DailySeries, scheme model.Scheme) (Buckets, error) {
	buckets := make(Buckets)
	for _, date := range series.SortedDates() {
		key, err := PeriodKey(date, scheme)
		if err != nil {
			return nil, err
		}
		rec := series[date]
		rec.Date = date
		buckets[key] = append(buckets[key], rec)
	}
	return buckets, nil
}

// PeriodKey derives the bucket key of a date under the given scheme.
func PeriodKey(date string, scheme model.Scheme) (string, error) {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedDate, date)
	}

	switch scheme {
	case model.Monthly:
		return date[:7], nil
	case model.Weekly:
		return weekStart(day).Format(model.DateLayout), nil
	case model.BiWeekly:
		return biWeekStart(day).Format(model.DateLayout), nil
	default:
		return "", fmt.Errorf("unsupported scheme %s", scheme)
	}
}

// weekStart returns the Monday on or before day.
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// biWeekStart folds a week into the previous one when its Monday's day of
// month modulo 14 is 7 or more.
// NOTE: the rule follows day-of-month, not a fixed anchor, so spans restart
// every month and some buckets cover a single week.
func biWeekStart(day time.Time) time.Time {
	monday := weekStart(day)
	if monday.Day()%14 < 7 {
		return monday
	}
	return monday.AddDate(0, 0, -7)
}
