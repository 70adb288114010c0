package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-syllabus-api/api/swagger"
	"github.com/noah-isme/sma-syllabus-api/internal/handler"
	"github.com/noah-isme/sma-syllabus-api/internal/repository"
	"github.com/noah-isme/sma-syllabus-api/internal/router"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	"github.com/noah-isme/sma-syllabus-api/pkg/cache"
	"github.com/noah-isme/sma-syllabus-api/pkg/config"
	"github.com/noah-isme/sma-syllabus-api/pkg/database"
	"github.com/noah-isme/sma-syllabus-api/pkg/logger"
	"github.com/noah-isme/sma-syllabus-api/pkg/validation"
)

// @title SMA Syllabus API
// @version 1.0.0
// @description Syllabus tracking and progress reporting for classes, subjects and teachers.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional; reference lookups fall through to Postgres without it.
	var redisClient redis.UniversalClient
	if cfg.Syllabus.ReferenceCacheEnable {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, reference cache disabled", zap.Error(err))
		} else {
			redisClient = client
			defer client.Close() //nolint:errcheck
		}
	}

	metrics := service.NewMetricsService()
	validate := validation.New()

	syllabusRepo := repository.NewSyllabusRepository(db)
	userRepo := repository.NewUserRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "syllabus", logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Syllabus.ReferenceCacheTTL, logr, redisClient != nil)
	references := service.NewReferenceService(referenceRepo, userRepo, cacheSvc, cfg.Syllabus.ReferenceCacheTTL, logr)
	tokens := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})

	audit := service.NewAuditService(auditRepo, metrics, logr, service.AuditConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
		RetryDelay: cfg.Audit.RetryDelay,
	})
	audit.Start(ctx)
	defer audit.Stop()

	syllabus := service.NewSyllabusService(syllabusRepo, references, audit, metrics, validate, logr, service.SyllabusConfig{
		DefaultPageSize:    cfg.Syllabus.DefaultPageSize,
		MaxPageSize:        cfg.Syllabus.MaxPageSize,
		RecentEntriesLimit: cfg.Syllabus.RecentEntriesLimit,
	})
	exporter := service.NewSyllabusExportService(syllabus)

	if cfg.Monitor.Enabled {
		monitor := service.NewSyllabusMonitor(syllabusRepo, metrics, logr, service.MonitorConfig{
			Schedule: cfg.Monitor.Schedule,
			Timeout:  cfg.Monitor.Timeout,
		})
		if err := monitor.Start(ctx); err != nil {
			return err
		}
		defer monitor.Stop()
	}

	dependencies := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		dependencies["cache"] = handler.PingFunc(cacheRepo.Ping)
	}

	engine := router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		EnableDocs:     cfg.EnableDocs && cfg.Env != config.EnvProduction,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         tokens,
		Syllabus:       handler.NewSyllabusHandler(syllabus, exporter),
		Observability:  handler.NewMetricsHandler(metrics.Handler(), dependencies),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
