package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/handler"
	"github.com/noah-isme/sma-syllabus-api/internal/middleware"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	"github.com/noah-isme/sma-syllabus-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-syllabus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-syllabus-api/pkg/middleware/requestid"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// Options carries everything the HTTP surface depends on.
type Options struct {
	APIPrefix      string
	EnableDocs     bool
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Tokens         tokenValidator
	Syllabus       *handler.SyllabusHandler
	Observability  *handler.MetricsHandler
}

// New builds the gin engine with global middleware and every route registered.
func New(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))

	if opts.Observability != nil {
		r.GET("/health", opts.Observability.Health)
		r.GET("/ready", opts.Observability.Ready)
		r.GET("/metrics", opts.Observability.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.Use(middleware.JWT(opts.Tokens), middleware.Actor())
	registerSyllabus(api, opts.Syllabus)

	return r
}

func registerSyllabus(api *gin.RouterGroup, h *handler.SyllabusHandler) {
	if h == nil {
		return
	}
	admins := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)
	ownProgress := middleware.RBAC(string(models.RoleSuperAdmin), string(models.RoleAdmin), middleware.Self)

	syllabus := api.Group("/syllabus")
	syllabus.GET("", h.List)
	syllabus.POST("", staff, h.Create)
	syllabus.POST("/bulk-update", staff, h.BulkUpdate)
	syllabus.GET("/export", staff, h.Export)
	syllabus.GET("/stats/overview", admins, h.Overview)
	syllabus.GET("/progress/:class_id/:subject_id", h.ClassSubjectProgress)
	syllabus.GET("/teacher/:teacher_id/progress", ownProgress, h.TeacherProgress)
	syllabus.GET("/:id", h.Get)
	syllabus.PUT("/:id", staff, h.Update)
	syllabus.PUT("/:id/status", staff, h.UpdateStatus)
	syllabus.DELETE("/:id", staff, h.Delete)
}
