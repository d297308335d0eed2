package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"

	"PeriodStats/internal/model"
)

const dailyPayload = `{
    "Meta Data": {
        "1. Information": "Daily Prices (open, high, low, close) and Volumes",
        "2. Symbol": "QQQ",
        "3. Last Refreshed": "2024-02-01",
        "4. Output Size": "Full size",
        "5. Time Zone": "US/Eastern"
    },
    "Time Series (Daily)": {
        "2024-02-01": {
            "1. open": "412.0000",
            "2. high": "416.0000",
            "3. low": "410.5000",
            "4. close": "415.5000",
            "5. volume": "41235000"
        },
        "2024-01-31": {
            "1. open": "418.0000",
            "2. high": "419.0000",
            "3. low": "411.0000",
            "4. close": "411.6500",
            "5. volume": "53291000"
        },
        "2024-01-30": {
            "1. open": "421.0000",
            "2. high": "422.0000",
            "3. low": "418.0000",
            "4. close": 419.72,
            "5. volume": 31005000
        }
    }
}`

func TestParseDailySeries(t *testing.T) {
	series, err := ParseDailySeries([]byte(dailyPayload))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(series))

	rec := series["2024-01-31"]
	assert.Equal(t, "2024-01-31", rec.Date)
	assert.Equal(t, "411.65", rec.Close.String())
	assert.Equal(t, int64(53291000), rec.Volume)

	// Numeric fields are accepted as well as strings.
	assert.Equal(t, "419.72", series["2024-01-30"].Close.String())
	assert.Equal(t, int64(31005000), series["2024-01-30"].Volume)
}

func TestParseDailySeries_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"invalid json", `{"Time Series (Daily)": `, ErrMissingInputData},
		{"missing series", `{"Meta Data": {}}`, ErrMissingInputData},
		{"series not an object", `{"Time Series (Daily)": []}`, ErrMissingInputData},
		{"rate limited", `{"Note": "Thank you for using Alpha Vantage!"}`, ErrMissingInputData},
		{"vendor error", `{"Error Message": "Invalid API call."}`, ErrMissingInputData},
		{"bad date", `{"Time Series (Daily)": {"01/02/2024": {"4. close": "1", "5. volume": "1"}}}`, ErrMalformedRecord},
		{"missing close", `{"Time Series (Daily)": {"2024-01-02": {"5. volume": "1"}}}`, ErrMalformedRecord},
		{"non numeric close", `{"Time Series (Daily)": {"2024-01-02": {"4. close": "n/a", "5. volume": "1"}}}`, ErrMalformedRecord},
		{"zero close", `{"Time Series (Daily)": {"2024-01-02": {"4. close": "0", "5. volume": "1"}}}`, ErrMalformedRecord},
		{"negative volume", `{"Time Series (Daily)": {"2024-01-02": {"4. close": "1", "5. volume": "-5"}}}`, ErrMalformedRecord},
		{"null volume", `{"Time Series (Daily)": {"2024-01-02": {"4. close": "1", "5. volume": null}}}`, ErrMalformedRecord},
	}

	for _, test := range tests {
		_, err := ParseDailySeries([]byte(test.body))
		if !errors.Is(err, test.want) {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, err)
		}
	}
}

func TestParseDailySeries_EmptySeries(t *testing.T) {
	series, err := ParseDailySeries([]byte(`{"Time Series (Daily)": {}}`))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(series))
}

func TestAlphaVantageFetcher(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"function":   r.URL.Query().Get("function"),
			"symbol":     r.URL.Query().Get("symbol"),
			"outputsize": r.URL.Query().Get("outputsize"),
			"apikey":     r.URL.Query().Get("apikey"),
		}
		if r.URL.Query().Get("symbol") == "FAIL" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(dailyPayload))
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "demo", "")
	assert.Equal(t, "alphavantage", f.Name())

	series, err := f.FetchDailySeries(context.Background(), "QQQ")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(series))
	assert.Equal(t, "TIME_SERIES_DAILY", query["function"])
	assert.Equal(t, "QQQ", query["symbol"])
	assert.Equal(t, "full", query["outputsize"])
	assert.Equal(t, "demo", query["apikey"])

	_, err = f.FetchDailySeries(context.Background(), "FAIL")
	assert.Error(t, err)
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "SPY.json"), []byte(dailyPayload), 0o644)
	assert.NoError(t, err)

	f := NewFileFetcher(dir)
	series, err := f.FetchDailySeries(context.Background(), "SPY")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(series))

	_, err = f.FetchDailySeries(context.Background(), "MISSING")
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	series, err := ParseDailySeries([]byte(dailyPayload))
	assert.NoError(t, err)

	logger := zerolog.Nop()
	c := NewCollector(&StaticFetcher{
		Series: map[string]model.DailySeries{"QQQ": series, "EMPTY": {}},
	}, &logger)

	data, err := c.Collect(context.Background(), "QQQ")
	assert.NoError(t, err)
	assert.Equal(t, 415.5, data.Price)
	assert.Equal(t, 2, len(data.MonthlyData))
	assert.Equal(t, "2024-01", data.MonthlyData[0].Date)
	assert.Equal(t, 415.69, data.MonthlyData[0].AverageClose)
	assert.Equal(t, 1, len(data.WeeklyData))
	assert.Equal(t, 415.6233, data.WeeklyData[0].AverageClose)

	empty, err := c.Collect(context.Background(), "EMPTY")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, empty.Price)
	assert.Equal(t, 0, len(empty.MonthlyData))

	_, err = c.Collect(context.Background(), "UNKNOWN")
	assert.True(t, errors.Is(err, ErrMissingInputData))
}
