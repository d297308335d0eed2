package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"

	"PeriodStats/internal/calculator"
	"PeriodStats/internal/model"
	"PeriodStats/internal/recorder"
)

// ReportOptions selects the growth windows and price levels shown in a report.
type ReportOptions struct {
	Windows          []int
	LevelPercentages []float64
}

// FormatSymbolReport formats the latest periods, trailing growth and price levels of a symbol.
func FormatSymbolReport(symbol string, data *model.SymbolData, opts ReportOptions) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b>\n\n", symbol))
	if data.Price == 0 {
		b.WriteString("Current price: unavailable\n")
	} else {
		b.WriteString(fmt.Sprintf("Current price: %.2f\n", data.Price))
	}

	b.WriteString("\n📅 <b>Latest periods</b>\n")
	for _, scheme := range model.Schemes {
		series := data.Series(scheme)
		if len(series) == 0 {
			b.WriteString(fmt.Sprintf("  %s: no data\n", scheme))
			continue
		}
		last := series[len(series)-1]
		b.WriteString(fmt.Sprintf("  %s %s: avg %.2f (%s), vol %s (%s)\n",
			scheme, last.Date, last.AverageClose, formatRate(last.CloseGrowthRate),
			formatVolume(last.AverageVolume), formatRate(last.VolumeGrowthRate)))
	}

	if len(opts.Windows) > 0 {
		b.WriteString("\n📈 <b>Average growth (geometric)</b>\n")
		for _, scheme := range model.Schemes {
			b.WriteString(fmt.Sprintf("  %s: %s\n", scheme, formatGrowth(data.Series(scheme), opts.Windows)))
		}
	}

	if data.Price > 0 && len(opts.LevelPercentages) > 0 {
		b.WriteString("\n🎯 <b>Price levels</b>\n")
		for _, lvl := range calculator.PriceLevels(data.Price, opts.LevelPercentages) {
			b.WriteString(fmt.Sprintf("  ±%g%%: %.2f / %.2f\n", lvl.Percentage, lvl.Up, lvl.Down))
		}
	}

	return b.String()
}

// FormatSchemeHistory lists the last n periods of one scheme, newest first.
func FormatSchemeHistory(symbol string, scheme model.Scheme, series []model.PeriodRecord, n int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>%s</b> %s\n\n", symbol, scheme))
	if len(series) == 0 {
		b.WriteString("no data\n")
		return b.String()
	}
	start := len(series) - n
	if start < 0 {
		start = 0
	}
	for i := len(series) - 1; i >= start; i-- {
		rec := series[i]
		b.WriteString(fmt.Sprintf("  %s: avg %.2f (%s), vol %s (%s)\n",
			rec.Date, rec.AverageClose, formatRate(rec.CloseGrowthRate),
			formatVolume(rec.AverageVolume), formatRate(rec.VolumeGrowthRate)))
	}
	return b.String()
}

// FormatRunSummary formats the outcome of a refresh run.
func FormatRunSummary(run *recorder.Run, failures []*recorder.SymbolFailure) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔄 <b>Refresh</b> | %s\n\n", run.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Source: %s\n", run.Source))
	b.WriteString(fmt.Sprintf("Published: %d/%d\n", run.Succeeded, run.Symbols))
	for _, f := range failures {
		b.WriteString(fmt.Sprintf("❌ %s: %s\n", f.Symbol, html.EscapeString(f.Reason)))
	}
	return b.String()
}

// formatGrowth renders the trailing geometric growth per window as "w: rate (used/window)".
func formatGrowth(series []model.PeriodRecord, windows []int) string {
	summary, err := calculator.SummarizeGrowth(series, windows)
	if err != nil {
		return fmt.Sprintf("unavailable (%s)", html.EscapeString(err.Error()))
	}

	parts := make([]string, len(summary))
	for i, g := range summary {
		value := "insufficient data"
		if g.Value != nil {
			value = fmt.Sprintf("%+.2f%%", *g.Value)
		}
		parts[i] = fmt.Sprintf("%d: %s (%d/%d)", g.Window, value, g.Used, g.Window)
	}
	return strings.Join(parts, ", ")
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *rate)
}

func formatVolume(v int64) string {
	if v < 1000 {
		return fmt.Sprintf("%d", v)
	}
	return strings.ReplaceAll(humanize.SIWithDigits(float64(v), 1, ""), " ", "")
}
