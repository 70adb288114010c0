package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

type syllabusStatsRepository interface {
	CountByStatus(ctx context.Context) (map[models.SyllabusStatus]int, error)
	CountDelayed(ctx context.Context, now time.Time) (int, error)
}

// MonitorConfig schedules the gauge refresh.
type MonitorConfig struct {
	Schedule string
	Timeout  time.Duration
}

// SyllabusMonitor periodically publishes status and delay gauges.
type SyllabusMonitor struct {
	repo    syllabusStatsRepository
	metrics *MetricsService
	logger  *zap.Logger
	config  MonitorConfig
	now     func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// NewSyllabusMonitor constructs a SyllabusMonitor.
func NewSyllabusMonitor(repo syllabusStatsRepository, metrics *MetricsService, logger *zap.Logger, config MonitorConfig) *SyllabusMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Schedule == "" {
		config.Schedule = "@every 5m"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &SyllabusMonitor{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		config:  config,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Refresh recomputes the gauges once.
func (m *SyllabusMonitor) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	now := m.now()
	counts, err := m.repo.CountByStatus(ctx)
	if err != nil {
		return err
	}
	delayed, err := m.repo.CountDelayed(ctx, now)
	if err != nil {
		return err
	}
	m.metrics.SetSyllabusStats(counts, delayed, now)
	return nil
}

// Start refreshes immediately and then on the configured schedule.
func (m *SyllabusMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cron != nil {
		return nil
	}

	logger := cronLogger{log: m.logger.Named("cron").Sugar()}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	if _, err := c.AddFunc(m.config.Schedule, func() { m.run(ctx) }); err != nil {
		return fmt.Errorf("schedule syllabus monitor %q: %w", m.config.Schedule, err)
	}
	m.run(ctx)
	c.Start()
	m.cron = c
	m.logger.Info("syllabus monitor started", zap.String("schedule", m.config.Schedule))
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (m *SyllabusMonitor) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	m.logger.Info("syllabus monitor stopped")
}

func (m *SyllabusMonitor) run(ctx context.Context) {
	if err := m.Refresh(ctx); err != nil {
		m.logger.Warn("syllabus gauge refresh failed", zap.Error(err))
	}
}

// cronLogger routes scheduler events into zap. Routine events are logged at debug level.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
