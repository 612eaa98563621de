package server

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/photo-effects/internal/adapter/handler"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/metrics"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/session"
)

type Router struct {
	engine         *gin.Engine
	imageHandler   *handler.ImageHandler
	apiHandler     *handler.APIHandler
	healthHandler  *handler.HealthHandler
	flash          *session.FlashStore
	rateLimiter    *middleware.RateLimiter
	httpMetrics    metrics.HTTPMetrics
	metricsHandler http.Handler
	logger         *zap.Logger
}

type RouterConfig struct {
	ImageHandler  *handler.ImageHandler
	APIHandler    *handler.APIHandler
	HealthHandler *handler.HealthHandler
	Flash         *session.FlashStore
	Templates     *template.Template
	// RateLimiter is optional; nil disables limiting.
	RateLimiter *middleware.RateLimiter
	HTTPMetrics metrics.HTTPMetrics
	// MetricsHandler is optional; nil leaves /metrics unrouted.
	MetricsHandler http.Handler
	Logger         *zap.Logger
	Environment    string
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(cfg.Templates)

	httpMetrics := cfg.HTTPMetrics
	if httpMetrics == nil {
		httpMetrics = metrics.Noop{}
	}

	r := &Router{
		engine:         engine,
		imageHandler:   cfg.ImageHandler,
		apiHandler:     cfg.APIHandler,
		healthHandler:  cfg.HealthHandler,
		flash:          cfg.Flash,
		rateLimiter:    cfg.RateLimiter,
		httpMetrics:    httpMetrics,
		metricsHandler: cfg.MetricsHandler,
		logger:         cfg.Logger,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Metrics(r.httpMetrics))
	r.engine.Use(middleware.Recovery(r.logger, r.flash))
}

// limit wraps mutating routes with the rate limiter when one is configured.
func (r *Router) limit(scope string) []gin.HandlerFunc {
	if r.rateLimiter == nil {
		return nil
	}
	return []gin.HandlerFunc{r.rateLimiter.Limit(scope)}
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthHandler.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}

	r.engine.GET("/", r.imageHandler.Index)
	r.engine.GET("/uploads/:id", r.imageHandler.Serve)
	r.engine.GET("/download/:id/:format", r.imageHandler.Download)
	r.engine.POST("/download/:id/:format", r.imageHandler.Download)

	r.engine.POST("/upload", append(r.limit(middleware.ScopeUpload), r.imageHandler.Upload)...)
	transforms := r.engine.Group("", r.limit(middleware.ScopeTransform)...)
	for _, kind := range valueobject.TransformKinds() {
		transforms.POST("/"+kind.Slug()+"/:id", r.imageHandler.Transform(kind))
	}

	api := r.engine.Group("/api/v1")
	{
		api.GET("/transforms", r.apiHandler.Catalog)

		images := api.Group("/images")
		{
			images.GET("/:id", r.apiHandler.Get)
			images.GET("/:id/export/:format", r.apiHandler.Export)
			images.POST("", append(r.limit(middleware.ScopeUpload), r.apiHandler.Upload)...)
			images.POST("/:id/transforms/:kind", append(r.limit(middleware.ScopeTransform), r.apiHandler.Transform)...)
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
