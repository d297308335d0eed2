package collector

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"PeriodStats/internal/model"
)

// Paths into an Alpha Vantage TIME_SERIES_DAILY payload. Dots in keys are escaped.
const (
	timeSeriesPath = "Time Series (Daily)"
	closePath      = `4\. close`
	volumePath     = `5\. volume`
)

// vendorMessagePaths carry the vendor's explanation when no series is returned.
var vendorMessagePaths = []string{"Error Message", "Note", "Information"}

var (
	// ErrMissingInputData is returned when the payload lacks the daily time series.
	ErrMissingInputData = errors.New("missing daily time series")
	// ErrMalformedRecord is returned when a daily entry has an unusable date, close or volume.
	ErrMalformedRecord = errors.New("malformed daily record")
)

// ParseDailySeries extracts the close and volume of every day in a
// TIME_SERIES_DAILY payload. Only the keyed structure is validated.
func ParseDailySeries(body []byte) (model.DailySeries, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: payload is not valid json", ErrMissingInputData)
	}

	root := gjson.ParseBytes(body)
	ts := root.Get(timeSeriesPath)
	if !ts.IsObject() {
		for _, p := range vendorMessagePaths {
			if msg := root.Get(p); msg.Exists() {
				return nil, fmt.Errorf("%w: %s", ErrMissingInputData, msg.String())
			}
		}
		return nil, ErrMissingInputData
	}

	series := make(model.DailySeries)
	var parseErr error
	ts.ForEach(func(key, value gjson.Result) bool {
		rec, err := parseRecord(key.String(), value)
		if err != nil {
			parseErr = err
			return false
		}
		series[rec.Date] = rec
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return series, nil
}

func parseRecord(date string, value gjson.Result) (model.DailyRecord, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return model.DailyRecord{}, fmt.Errorf("%w: date %q", ErrMalformedRecord, date)
	}

	closePrice, err := parseNumber(value.Get(closePath))
	if err != nil {
		return model.DailyRecord{}, fmt.Errorf("%w: %s close: %v", ErrMalformedRecord, date, err)
	}
	if !closePrice.IsPositive() {
		return model.DailyRecord{}, fmt.Errorf("%w: %s close %s is not positive", ErrMalformedRecord, date, closePrice)
	}

	volume, err := parseNumber(value.Get(volumePath))
	if err != nil {
		return model.DailyRecord{}, fmt.Errorf("%w: %s volume: %v", ErrMalformedRecord, date, err)
	}
	if volume.IsNegative() {
		return model.DailyRecord{}, fmt.Errorf("%w: %s volume %s is negative", ErrMalformedRecord, date, volume)
	}

	return model.DailyRecord{
		Date:   date,
		Close:  closePrice,
		Volume: volume.IntPart(),
	}, nil
}

// parseNumber reads a field the vendor may encode as a json number or a numeric string.
func parseNumber(field gjson.Result) (decimal.Decimal, error) {
	if !field.Exists() {
		return decimal.Decimal{}, errors.New("missing value")
	}

	switch field.Type {
	case gjson.String:
		return decimal.NewFromString(field.Str)
	case gjson.Number:
		return decimal.NewFromString(field.Raw)
	default:
		return decimal.Decimal{}, fmt.Errorf("unexpected value %s", field.Raw)
	}
}
