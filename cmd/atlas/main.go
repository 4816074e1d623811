package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"SessionAtlas/internal/collector"
	"SessionAtlas/internal/config"
	"SessionAtlas/internal/notifier"
	"SessionAtlas/internal/pipeline"
	"SessionAtlas/internal/recorder"
	"SessionAtlas/internal/scheduler"

	"github.com/rs/zerolog"
)

func newLogger(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
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

func newSource(cfg *config.Config, logger zerolog.Logger) collector.Source {
	src := cfg.Source
	switch src.Kind {
	case config.SourceCSV:
		return collector.NewCSVSource(src.Path, logger)
	case config.SourceKlines:
		return collector.NewKlinesSource(src.BaseURL, src.APIKey, src.Symbol, src.Interval, src.Limit, cfg.Proxy, logger)
	default:
		return collector.NewYahooSource(src.Symbol, src.Interval, src.Range, cfg.Proxy, logger)
	}
}

func newRecorder(cfg *config.Config, logger zerolog.Logger) recorder.Recorder {
	if cfg.Database.Driver == "" {
		return recorder.NewNoopRecorder()
	}
	if cfg.Database.Driver == recorder.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
			logger.Warn().Err(err).Msg("create database dir")
		}
	}
	rec, err := recorder.NewSQLRecorder(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("init sql recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return rec
}

func main() {
	cfgPath := flag.String("config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	once := flag.Bool("once", false, "run the pipeline once and exit even when a schedule is configured")
	flag.Parse()

	boot := newLogger("info", true)

	path := *cfgPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		boot.Fatal().Err(err).Msg("config validation")
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Pretty)
	logger.Info().Str("config", path).Msg("SessionAtlas starting")
	if fixed := cfg.SanitizeThresholds(); len(fixed) > 0 {
		logger.Warn().Strs("fields", fixed).Msg("invalid thresholds replaced with defaults")
	}

	src := newSource(cfg, logger)
	logger.Info().Str("source", src.Name()).Str("symbol", cfg.Source.Symbol).Msg("data source ready")

	runner := pipeline.NewRunner(cfg.Thresholds, logger)
	col := collector.NewCollector(src, runner)

	rec := newRecorder(cfg, logger)
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tn *notifier.TelegramNotifier
	var msg scheduler.Messenger
	if cfg.NotifyEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		msg = tn
	}

	sched := scheduler.NewScheduler(ctx, col, msg, rec, cfg.Output.Dir, cfg.Source.Symbol, logger)

	if *once || cfg.Schedule.Cron == "" {
		if _, err := sched.RunOnce(ctx); err != nil {
			logger.Error().Err(err).Msg("run failed")
			rec.Close()
			os.Exit(1)
		}
		return
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		logger.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, running pipeline now")
		go func() {
			if _, err := sched.RunOnce(ctx); err != nil {
				logger.Error().Err(err).Msg("startup run failed")
			}
		}()
	}

	logger.Info().Msg("SessionAtlas is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, stopping")
}
