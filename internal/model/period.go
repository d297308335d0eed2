package model

import "fmt"

// Scheme identifies a period bucketing scheme.
type Scheme int

const (
	Monthly Scheme = iota
	Weekly
	BiWeekly
)

// Schemes lists every scheme in output order.
var Schemes = []Scheme{Monthly, Weekly, BiWeekly}

func (s Scheme) String() string {
	switch s {
	case Monthly:
		return "monthly"
	case Weekly:
		return "weekly"
	case BiWeekly:
		return "biweekly"
	default:
		return "unknown"
	}
}

// ClosePrecision is the number of decimal places kept for a bucket's average close.
func (s Scheme) ClosePrecision() int32 {
	if s == Monthly {
		return 2
	}
	return 4
}

// ParseScheme maps a scheme name back to its Scheme.
func ParseScheme(name string) (Scheme, error) {
	for _, s := range Schemes {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown scheme %q", name)
}

// PeriodStatistics are the aggregates of one period bucket.
// Growth rates are percentages and stay nil when undefined.
type PeriodStatistics struct {
	AverageClose     float64  `json:"averageClose"`
	AverageVolume    int64    `json:"averageVolume"`
	CloseGrowthRate  *float64 `json:"closeGrowthRate,omitempty"`
	VolumeGrowthRate *float64 `json:"volumeGrowthRate,omitempty"`
}

// PeriodRecord is a period's statistics labelled with its bucket key.
type PeriodRecord struct {
	PeriodStatistics
	Date string `json:"date"`
}
