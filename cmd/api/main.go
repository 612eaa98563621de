package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/photo-effects/internal/adapter/handler"
	adapterstorage "github.com/marcos-nsantos/photo-effects/internal/adapter/storage"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/cache"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/config"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/imageproc"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/metrics"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/observability"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/server"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/session"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/storage"
	"github.com/marcos-nsantos/photo-effects/internal/usecase/editor"
	"github.com/marcos-nsantos/photo-effects/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Storage
	var imageStorage adapterstorage.ImageStorage
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		s3Storage, err := storage.NewS3Storage(cfg.S3)
		if err != nil {
			logger.Fatal("failed to create s3 storage", zap.Error(err))
		}
		imageStorage = s3Storage
	default:
		localStorage, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
		if err != nil {
			logger.Fatal("failed to open upload directory", zap.Error(err))
		}
		defer localStorage.Close()
		imageStorage = localStorage
	}
	logger.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	// Metrics
	var (
		imageMetrics   metrics.ImageMetrics = metrics.Noop{}
		httpMetrics    metrics.HTTPMetrics  = metrics.Noop{}
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		prom, err := metrics.NewProm(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)
		if err != nil {
			logger.Fatal("failed to register metrics", zap.Error(err))
		}
		imageMetrics = prom
		httpMetrics = prom
		metricsHandler = metrics.Handler(prometheus.DefaultGatherer)
	}

	flash := session.NewFlashStore(cfg.Session.SecretKey, cfg.Session.FlashTTL, cfg.Server.Environment == "production")

	// Rate limiting
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit, flash, logger)
	}

	// Use cases
	imageProcessor := imageproc.NewProcessor(cfg.Image)
	imageSvc := editor.NewService(imageStorage, imageProcessor, imageMetrics)

	// Handlers
	imageHandler := handler.NewImageHandler(imageSvc, flash, cfg.Storage.MaxUploadSize)
	apiHandler := handler.NewAPIHandler(imageSvc, cfg.Storage.MaxUploadSize)
	healthHandler := handler.NewHealthHandler()

	templates, err := web.Templates()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	// Router
	router := server.NewRouter(server.RouterConfig{
		ImageHandler:   imageHandler,
		APIHandler:     apiHandler,
		HealthHandler:  healthHandler,
		Flash:          flash,
		Templates:      templates,
		RateLimiter:    rateLimiter,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: metricsHandler,
		Logger:         logger,
		Environment:    cfg.Server.Environment,
	})

	// Server
	srv := server.NewServer(server.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Handler:         router.Engine(),
		Logger:          logger,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}
