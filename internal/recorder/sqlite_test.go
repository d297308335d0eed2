package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"

	"PeriodStats/internal/model"
)

func rate(v float64) *float64 { return &v }

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	logger := zerolog.Nop()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), &logger)
	assert.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordSymbol(t *testing.T) {
	r := newTestRecorder(t)

	data := model.NewSymbolData()
	data.Price = 415.5
	data.MonthlyData = []model.PeriodRecord{
		{Date: "2024-01", PeriodStatistics: model.PeriodStatistics{AverageClose: 100, AverageVolume: 0}},
		{Date: "2024-02", PeriodStatistics: model.PeriodStatistics{AverageClose: 110, AverageVolume: 50, CloseGrowthRate: rate(10)}},
	}
	data.WeeklyData = []model.PeriodRecord{
		{Date: "2024-01-29", PeriodStatistics: model.PeriodStatistics{AverageClose: 105.1234, AverageVolume: 7}},
	}

	run := NewRun("static", 1)
	assert.NoError(t, r.RecordSymbol(run.ID, "QQQ", data))

	monthly, err := r.PeriodRecords(run.ID, "QQQ", model.Monthly)
	assert.NoError(t, err)
	if diff := cmp.Diff(data.MonthlyData, monthly); diff != "" {
		t.Errorf("monthly records round trip (-want +got):\n%s", diff)
	}
	// Absent growth is stored as NULL, not zero.
	assert.Nil(t, monthly[0].CloseGrowthRate)
	assert.Nil(t, monthly[1].VolumeGrowthRate)

	weekly, err := r.PeriodRecords(run.ID, "QQQ", model.Weekly)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(weekly))

	biweekly, err := r.PeriodRecords(run.ID, "QQQ", model.BiWeekly)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(biweekly))

	var price float64
	err = r.db.QueryRow(`SELECT price FROM symbol_snapshots WHERE run_id = ? AND symbol = ?`, run.ID, "QQQ").Scan(&price)
	assert.NoError(t, err)
	assert.Equal(t, 415.5, price)
}

func TestSQLiteRecorder_RecordRunAndFailure(t *testing.T) {
	r := newTestRecorder(t)

	run := NewRun("alphavantage", 2)
	assert.Equal(t, 36, len(run.ID))

	assert.NoError(t, r.RecordFailure(&SymbolFailure{RunID: run.ID, Symbol: "MAGS", Reason: "missing daily time series"}))

	run.Succeeded = 1
	run.Failed = 1
	run.FinishedAt = time.Now().UTC()
	assert.NoError(t, r.RecordRun(run))

	var succeeded, failed int
	err := r.db.QueryRow(`SELECT succeeded, failed FROM runs WHERE id = ?`, run.ID).Scan(&succeeded, &failed)
	assert.NoError(t, err)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	var reason string
	err = r.db.QueryRow(`SELECT reason FROM symbol_failures WHERE run_id = ? AND symbol = ?`, run.ID, "MAGS").Scan(&reason)
	assert.NoError(t, err)
	assert.Equal(t, "missing daily time series", reason)

	// Reopening an existing database keeps the schema.
	assert.NoError(t, r.migrate())
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordSymbol("id", "QQQ", model.NewSymbolData()))
	assert.NoError(t, rec.RecordFailure(&SymbolFailure{}))
	assert.NoError(t, rec.RecordRun(&Run{}))
	assert.NoError(t, rec.Close())
}
