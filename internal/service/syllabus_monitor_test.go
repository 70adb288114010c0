package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

type stubStatsRepo struct {
	counts  map[models.SyllabusStatus]int
	delayed int
	err     error
	calls   atomic.Int32
}

func (r *stubStatsRepo) CountByStatus(context.Context) (map[models.SyllabusStatus]int, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return r.counts, nil
}

func (r *stubStatsRepo) CountDelayed(context.Context, time.Time) (int, error) {
	return r.delayed, nil
}

func TestSyllabusMonitorRefreshPublishesGauges(t *testing.T) {
	metrics := NewMetricsService()
	repo := &stubStatsRepo{
		counts:  map[models.SyllabusStatus]int{models.SyllabusStatusPending: 4, models.SyllabusStatusCompleted: 2},
		delayed: 3,
	}
	monitor := NewSyllabusMonitor(repo, metrics, nil, MonitorConfig{})
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	monitor.now = func() time.Time { return at }

	require.NoError(t, monitor.Refresh(context.Background()))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.syllabusEntries.WithLabelValues("pending")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.syllabusEntries.WithLabelValues("completed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.syllabusEntries.WithLabelValues("skipped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.syllabusDelayed))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(metrics.syllabusRefresh))
}

func TestSyllabusMonitorRefreshError(t *testing.T) {
	repo := &stubStatsRepo{err: errors.New("db down")}
	monitor := NewSyllabusMonitor(repo, nil, nil, MonitorConfig{})
	assert.Error(t, monitor.Refresh(context.Background()))
}

func TestSyllabusMonitorStartRefreshesImmediately(t *testing.T) {
	repo := &stubStatsRepo{counts: map[models.SyllabusStatus]int{}}
	monitor := NewSyllabusMonitor(repo, nil, nil, MonitorConfig{Schedule: "@every 1h"})

	require.NoError(t, monitor.Start(context.Background()))
	assert.Equal(t, int32(1), repo.calls.Load())
	require.NoError(t, monitor.Start(context.Background()))
	assert.Equal(t, int32(1), repo.calls.Load())
	monitor.Stop()
	monitor.Stop()
}

func TestSyllabusMonitorRejectsBadSchedule(t *testing.T) {
	monitor := NewSyllabusMonitor(&stubStatsRepo{}, nil, nil, MonitorConfig{Schedule: "every now and then"})
	assert.Error(t, monitor.Start(context.Background()))
}

func TestCronLoggerWritesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := cronLogger{log: zap.New(core).Sugar()}

	logger.Info("skip", "entry", 1)
	logger.Error(errors.New("boom"), "panic", "entry", 1)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "skip", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.EqualValues(t, 1, entries[1].ContextMap()["entry"])
}
