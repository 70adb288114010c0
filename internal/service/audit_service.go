package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/jobs"
)

const (
	auditQueueName    = "audit"
	auditResource     = "syllabus"
	auditWriteTimeout = 5 * time.Second
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// Actor identifies who performed a request.
type Actor struct {
	UserID    string
	IPAddress string
	UserAgent string
}

type actorKey struct{}

// WithActor attaches the request actor to ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// AuditConfig sizes the audit worker pool.
type AuditConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// AuditService writes audit logs in the background so requests never wait on them.
type AuditService struct {
	repo    auditRepository
	queue   *jobs.Queue[models.AuditLog]
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAuditService constructs an AuditService. Call Start before recording.
func NewAuditService(repo auditRepository, metrics *MetricsService, logger *zap.Logger, cfg AuditConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue[models.AuditLog](auditQueueName, s.write, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the audit workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes buffered records and stops the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record queues an audit log for action on the given resource id. Failures are logged, never returned.
func (s *AuditService) Record(ctx context.Context, action, resourceID string, values interface{}) {
	if s == nil {
		return
	}
	log := models.AuditLog{
		ID:        uuid.NewString(),
		Action:    action,
		Resource:  auditResource,
		CreatedAt: time.Now().UTC(),
	}
	if resourceID != "" {
		log.ResourceID = &resourceID
	}
	if actor, ok := ActorFromContext(ctx); ok {
		if actor.UserID != "" {
			userID := actor.UserID
			log.UserID = &userID
		}
		log.IPAddress = actor.IPAddress
		log.UserAgent = actor.UserAgent
	}
	if values != nil {
		payload, err := json.Marshal(values)
		if err != nil {
			s.logger.Warn("audit payload not serialisable", zap.String("action", action), zap.Error(err))
		} else {
			log.NewValues = payload
		}
	}

	if err := s.queue.TryEnqueue(jobs.Job[models.AuditLog]{ID: log.ID, Payload: log}); err != nil {
		s.metrics.RecordAuditDropped()
		s.logger.Warn("audit log dropped", zap.String("action", action), zap.String("resource_id", resourceID), zap.Error(err))
	}
}

func (s *AuditService) write(ctx context.Context, job jobs.Job[models.AuditLog]) error {
	ctx, cancel := context.WithTimeout(ctx, auditWriteTimeout)
	defer cancel()
	log := job.Payload
	return s.repo.Create(ctx, &log)
}
