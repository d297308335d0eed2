package recorder

import (
	"time"

	"github.com/google/uuid"

	"PeriodStats/internal/model"
)

// Run summarizes one refresh over the configured symbols.
type Run struct {
	ID         string
	Source     string // fetcher name
	StartedAt  time.Time
	FinishedAt time.Time
	Symbols    int
	Succeeded  int
	Failed     int
}

// NewRun starts a run record with a fresh id.
func NewRun(source string, symbols int) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: time.Now().UTC(),
		Symbols:   symbols,
	}
}

// SymbolFailure records why a symbol was skipped during a run.
type SymbolFailure struct {
	RunID  string
	Symbol string
	Reason string
}

// Recorder persists refresh history for analysis.
type Recorder interface {
	RecordSymbol(runID, symbol string, data *model.SymbolData) error
	RecordFailure(f *SymbolFailure) error
	RecordRun(run *Run) error
	Close() error
}
