package recorder

import "PeriodStats/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSymbol(_, _ string, _ *model.SymbolData) error { return nil }
func (n *NoopRecorder) RecordFailure(_ *SymbolFailure) error { return nil }
func (n *NoopRecorder) RecordRun(_ *Run) error { return nil }
func (n *NoopRecorder) Close() error { return nil }
