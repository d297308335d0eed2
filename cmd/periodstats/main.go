package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"PeriodStats/internal/collector"
	"PeriodStats/internal/config"
	"PeriodStats/internal/notifier"
	"PeriodStats/internal/publisher"
	"PeriodStats/internal/recorder"
	"PeriodStats/internal/scheduler"
)

func main() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	cfgPath := flag.String("config", defaultPath, "path to the YAML config file")
	once := flag.Bool("once", false, "run a single refresh and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		bootLogger().Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		bootLogger().Fatal().Err(err).Msg("config validation")
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Pretty)
	logger.Info().Str("config", *cfgPath).Strs("symbols", cfg.Symbols).Msg("PeriodStats starting")

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.FileDir != "" {
		fetcher = collector.NewFileFetcher(cfg.DataSource.FileDir)
	} else {
		fetcher = collector.NewAlphaVantageFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	logger.Info().Str("source", fetcher.Name()).Msg("data source ready")

	col := collector.NewCollector(fetcher, &logger)
	pub := publisher.NewJSONPublisher(cfg.Output.Dir)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, &logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init notifier
	var n notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, &logger)
		n = tn
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, col, pub, rec, n, &logger, scheduler.Options{
		Symbols: cfg.Symbols,
		Workers: cfg.Schedule.Workers,
		Report: notifier.ReportOptions{
			Windows:          cfg.Report.Windows,
			LevelPercentages: cfg.Report.LevelPercentages,
		},
	})

	if *once {
		run, _ := sched.Refresh(ctx)
		logger.Info().Int("succeeded", run.Succeeded).Int("failed", run.Failed).Msg("single refresh done")
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info().Msg("telegram polling started")
	}

	logger.Info().Str("cron", cfg.Schedule.RefreshCron).Msg("PeriodStats is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, stopping...")
}

func newLogger(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}

func bootLogger() *zerolog.Logger {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	return &logger
}
