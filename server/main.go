package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"dhukuti/api/routes"
	"dhukuti/internal/activity"
	"dhukuti/internal/contributions"
	"dhukuti/internal/notifications"
	"dhukuti/internal/shared/config"
	"dhukuti/internal/shared/database"
	"dhukuti/pkg/logger"
	"dhukuti/pkg/metrics"
	"dhukuti/pkg/ratelimit"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title Dhukuti API
// @version 1.0
// @description Savings groups, contributions, events and ticketing.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	// The handler choice depends on gin mode, so rebuild once it is set.
	appLogger = logger.NewWithWriter(os.Stdout, cfg.LogLevel)
	logger.SetDefault(appLogger)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	rateLimiter := ratelimit.NewRateLimiter(db.Redis, cfg.RateLimit)
	appLogger.Info("Rate limiter initialized",
		slog.Bool("enabled", cfg.RateLimit.Enabled && db.Redis != nil),
		slog.Duration("window", cfg.RateLimit.WindowDuration),
	)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	var publisher activity.Publisher
	var kafkaPublisher *notifications.KafkaPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher, err = notifications.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			appLogger.Error("Failed to create Kafka publisher; recording activities directly", slog.Any("error", err))
		} else {
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	}

	appRouter := routes.NewRouter(cfg, db, rateLimiter, publisher)

	if kafkaPublisher != nil {
		consumer, err := notifications.NewActivityConsumer(notifications.ConsumerConfigFrom(cfg.Kafka), appRouter.Activity)
		if err != nil {
			appLogger.Error("Failed to create activity consumer", slog.Any("error", err))
		} else {
			consumer.Start(bgCtx, cfg.Kafka.Workers)
			defer func() {
				if err := consumer.Stop(); err != nil {
					appLogger.Error("Error stopping activity consumer", slog.Any("error", err))
				}
			}()
		}
	}

	if appRouter.StockGuard != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := appRouter.StockGuard.PreloadScripts(ctx); err != nil {
			appLogger.Warn("Failed to preload stock guard script; it loads on first use", slog.Any("error", err))
		} else {
			appLogger.Info("Stock guard script preloaded")
		}
		cancel()
	}

	sweeper := contributions.NewSweeper(appRouter.Contributions, cfg.Jobs)
	sweeper.Start(bgCtx)
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        setupEngine(cfg, appRouter, rateLimiter),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("kafka", kafkaPublisher != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}
	bgCancel()

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(
		logger.RequestID(),
		logger.RequestLogger(appLogger),
		gin.Recovery(),
		metrics.PrometheusMiddleware(),
	)

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	engine.Use(cors.New(corsConfig))

	engine.Use(ratelimit.Middleware(rateLimiter))

	appRouter.SetupRoutes(engine)
	return engine
}
