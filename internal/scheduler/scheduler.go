package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SessionAtlas/internal/collector"
	"SessionAtlas/internal/export"
	"SessionAtlas/internal/notifier"
	"SessionAtlas/internal/pipeline"
	"SessionAtlas/internal/recorder"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Messenger delivers run reports.
type Messenger interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the collect, export, record and notify cycle on a cron
// schedule or on demand. Runs never overlap.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Messenger // nil disables notifications
	Recorder  recorder.Recorder
	OutputDir string // empty disables CSV export
	Symbol    string
	Ctx       context.Context

	runMu  sync.Mutex
	mu     sync.RWMutex
	last   *pipeline.Result
	lastAt time.Time
	logger zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, msg Messenger, rec recorder.Recorder, outputDir, symbol string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  msg,
		Recorder:  rec,
		OutputDir: outputDir,
		Symbol:    symbol,
		Ctx:       ctx,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the pipeline run under a six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scheduledRun); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	s.logger.Info().Str("cron", spec).Msg("run task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) scheduledRun() {
	if _, err := s.RunOnce(s.Ctx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled run failed")
	}
}

// RunOnce fetches bars, derives the tables, writes them out, records them
// and sends the summary. Export failures abort the run; recording and
// notification failures are logged.
func (s *Scheduler) RunOnce(ctx context.Context) (*pipeline.Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	s.logger.Info().Str("symbol", s.Symbol).Msg("running pipeline")

	res, err := s.Collector.Collect(ctx)
	if err != nil {
		s.trySend(ctx, fmt.Sprintf("❌ SessionAtlas run failed: %v", err))
		return nil, fmt.Errorf("collect: %w", err)
	}

	if s.OutputDir != "" {
		paths, err := export.WriteAll(s.OutputDir, res)
		if err != nil {
			s.trySend(ctx, fmt.Sprintf("❌ SessionAtlas export failed: %v", err))
			return nil, fmt.Errorf("export: %w", err)
		}
		s.logger.Info().Int("files", len(paths)).Str("dir", s.OutputDir).Msg("tables exported")
	}

	if err := s.Recorder.RecordRun(res); err != nil {
		s.logger.Error().Err(err).Msg("record run")
	}

	s.mu.Lock()
	s.last = res
	s.lastAt = time.Now()
	s.mu.Unlock()

	s.trySend(ctx, notifier.FormatRunSummary(s.Symbol, res))
	s.logger.Info().Dur("took", time.Since(start)).Msg("pipeline run finished")
	return res, nil
}

// Latest returns the result of the last successful run, or nil.
func (s *Scheduler) Latest() (*pipeline.Result, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastAt
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/latest":
		res, at := s.Latest()
		if res == nil {
			return "No run has completed yet."
		}
		return notifier.FormatRunSummary(s.Symbol, res) + "\nUpdated " + at.Format("2006-01-02 15:04")
	case "/run":
		if _, err := s.RunOnce(ctx); err != nil {
			return fmt.Sprintf("❌ run failed: %v", err)
		}
		// RunOnce already sent the summary.
		return ""
	default:
		return "Commands:\n• /latest last run summary\n• /run run the pipeline now"
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}
