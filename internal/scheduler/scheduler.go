package scheduler

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"PeriodStats/internal/collector"
	"PeriodStats/internal/model"
	"PeriodStats/internal/notifier"
	"PeriodStats/internal/publisher"
	"PeriodStats/internal/recorder"
)

// Options controls which symbols a refresh covers and how reports look.
type Options struct {
	Symbols []string
	Workers int
	Report  notifier.ReportOptions
}

// Scheduler runs the refresh job on a cron schedule and on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Publisher *publisher.JSONPublisher
	Recorder  recorder.Recorder
	Notifier  notifier.Notifier
	Logger    *zerolog.Logger
	Options   Options
	Ctx       context.Context

	// mu serializes refresh runs.
	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, pub *publisher.JSONPublisher,
	rec recorder.Recorder, n notifier.Notifier, logger *zerolog.Logger, opts Options) *Scheduler {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Publisher: pub,
		Recorder:  rec,
		Notifier:  n,
		Logger:    logger,
		Options:   opts,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.RunNow); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.Refresh(s.Ctx)
}

// symbolResult is the outcome of refreshing one symbol.
type symbolResult struct {
	symbol string
	data   *model.SymbolData
	err    error
}

// Refresh collects, publishes and records every configured symbol. A failing
// symbol is recorded and skipped; it never aborts the others.
func (s *Scheduler) Refresh(ctx context.Context) (*recorder.Run, []*recorder.SymbolFailure) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := recorder.NewRun(s.Collector.Fetcher.Name(), len(s.Options.Symbols))
	log := s.Logger.With().Str("run", run.ID).Logger()
	log.Info().Int("symbols", run.Symbols).Str("source", run.Source).Msg("running refresh")

	results := make([]symbolResult, len(s.Options.Symbols))
	var g errgroup.Group
	g.SetLimit(s.Options.Workers)
	for i, symbol := range s.Options.Symbols {
		g.Go(func() error {
			data, err := s.refreshSymbol(ctx, run.ID, symbol)
			results[i] = symbolResult{symbol: symbol, data: data, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var failures []*recorder.SymbolFailure
	for _, res := range results {
		if res.err != nil {
			run.Failed++
			log.Error().Err(res.err).Str("symbol", res.symbol).Msg("symbol skipped")
			f := &recorder.SymbolFailure{RunID: run.ID, Symbol: res.symbol, Reason: res.err.Error()}
			if err := s.Recorder.RecordFailure(f); err != nil {
				log.Error().Err(err).Str("symbol", res.symbol).Msg("record failure")
			}
			failures = append(failures, f)
			continue
		}
		run.Succeeded++
		s.trySend(ctx, notifier.FormatSymbolReport(res.symbol, res.data, s.Options.Report))
	}

	run.FinishedAt = time.Now().UTC()
	if err := s.Recorder.RecordRun(run); err != nil {
		log.Error().Err(err).Msg("record run")
	}
	s.trySend(ctx, notifier.FormatRunSummary(run, failures))

	log.Info().Int("succeeded", run.Succeeded).Int("failed", run.Failed).
		Dur("elapsed", run.FinishedAt.Sub(run.StartedAt)).Msg("refresh finished")
	return run, failures
}

func (s *Scheduler) refreshSymbol(ctx context.Context, runID, symbol string) (*model.SymbolData, error) {
	data, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := s.Publisher.Publish(symbol, data); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	if err := s.Recorder.RecordSymbol(runID, symbol, data); err != nil {
		s.Logger.Error().Err(err).Str("symbol", symbol).Msg("record symbol")
	}
	return data, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}

	switch fields[0] {
	case "/refresh":
		s.Refresh(ctx)
		return ""
	case "/growth":
		if len(fields) < 2 {
			return "usage: /growth SYMBOL [monthly|weekly|biweekly]"
		}
		symbol := strings.ToUpper(fields[1])
		if !slices.Contains(s.Options.Symbols, symbol) {
			return fmt.Sprintf("unknown symbol %s", html.EscapeString(symbol))
		}
		data, err := s.Publisher.Load(symbol)
		if err != nil {
			s.Logger.Warn().Err(err).Str("symbol", symbol).Msg("load published document")
			return fmt.Sprintf("no published data for %s", symbol)
		}
		if len(fields) < 3 {
			return notifier.FormatSymbolReport(symbol, data, s.Options.Report)
		}
		scheme, err := model.ParseScheme(strings.ToLower(fields[2]))
		if err != nil {
			return html.EscapeString(err.Error())
		}
		return notifier.FormatSchemeHistory(symbol, scheme, data.Series(scheme), historyLength)
	case "/symbols":
		return "Symbols: " + strings.Join(s.Options.Symbols, ", ")
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /refresh\n• /growth SYMBOL [monthly|weekly|biweekly]\n• /symbols"

// historyLength is the number of periods listed by /growth SYMBOL scheme.
const historyLength = 12

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.Notify(ctx, text); err != nil {
		s.Logger.Error().Err(err).Msg("send notification")
	}
}
