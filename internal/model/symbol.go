package model

import "encoding/json"

// SymbolData is the published document for one instrument.
type SymbolData struct {
	Price        float64           `json:"price"`
	MonthlyData  []PeriodRecord    `json:"monthlyData"`
	WeeklyData   []PeriodRecord    `json:"weeklyData"`
	BiweeklyData []PeriodRecord    `json:"biweeklyData"`
	News         []json.RawMessage `json:"news"`
}

// NewSymbolData returns a document whose sequences serialize as empty arrays.
func NewSymbolData() *SymbolData {
	return &SymbolData{
		MonthlyData:  []PeriodRecord{},
		WeeklyData:   []PeriodRecord{},
		BiweeklyData: []PeriodRecord{},
		News:         []json.RawMessage{},
	}
}

// Series returns the period records for the given scheme.
func (d *SymbolData) Series(s Scheme) []PeriodRecord {
	switch s {
	case Monthly:
		return d.MonthlyData
	case Weekly:
		return d.WeeklyData
	case BiWeekly:
		return d.BiweeklyData
	default:
		return nil
	}
}

// SetSeries stores the period records for the given scheme.
func (d *SymbolData) SetSeries(s Scheme, records []PeriodRecord) {
	switch s {
	case Monthly:
		d.MonthlyData = records
	case Weekly:
		d.WeeklyData = records
	case BiWeekly:
		d.BiweeklyData = records
	}
}
