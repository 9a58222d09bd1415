package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ovalstats/cricket-data-api/internal/config"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/handler"
	"github.com/ovalstats/cricket-data-api/internal/handler/middleware"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"github.com/ovalstats/cricket-data-api/internal/storage/memstorage"
	"github.com/ovalstats/cricket-data-api/internal/storage/postgres"
	"github.com/ovalstats/cricket-data-api/internal/storage/redis"
	"github.com/ovalstats/cricket-data-api/internal/upstream"
	"github.com/ovalstats/cricket-data-api/internal/worker"
	"github.com/ovalstats/cricket-data-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "./configs/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.NewZapLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	sugarLogger := appLogger.Sugar()

	sugarLogger.Info("Starting cricket data API...")

	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.NewPgxPool(appCtx, &cfg.Database, appLogger)
	if err != nil {
		sugarLogger.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := redis.NewRedisClient(appCtx, &cfg.Redis, appLogger)
	if err != nil {
		sugarLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	apiKeyRepo := postgres.NewAPIKeyRepository(dbPool, appLogger)
	usageRepo := postgres.NewUsageRepository(dbPool, appLogger)
	resourceRepo := postgres.NewResourceRepository(dbPool, appLogger)
	versionRepo := postgres.NewVersionRepository(dbPool, appLogger)
	healthRepo := postgres.NewSyncHealthRepository(dbPool, appLogger)

	userRepo, err := memstorage.NewUserRepository(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		sugarLogger.Fatalf("Failed to initialize admin account: %v", err)
	}

	// The registry carries one row per resource type before the first sync
	// ever runs.
	if err := healthRepo.SeedAll(appCtx, resource.Syncable()); err != nil {
		sugarLogger.Fatalf("Failed to seed sync status rows: %v", err)
	}

	upstreamClient := upstream.NewClient(&cfg.Upstream, appLogger)

	gatewayService := service.NewGatewayService(apiKeyRepo, usageRepo, resourceRepo, appLogger)
	syncService := service.NewSyncService(upstreamClient, resourceRepo, versionRepo, healthRepo, appLogger)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo, appLogger)
	authService := service.NewAuthService(userRepo, &cfg.JWT, appLogger)

	healthHandler := handler.NewHealthHandler(dbPool, redisClient, appLogger)
	gatewayHandler := handler.NewGatewayHandler(gatewayService, appLogger)
	syncHandler := handler.NewSyncHandler(syncService, healthRepo, appLogger)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeyService, appLogger)
	usageHandler := handler.NewUsageHandler(usageRepo, appLogger)
	authHandler := handler.NewAuthHandler(authService, appLogger)

	authMiddleware := middleware.AuthMiddleware(authService, appLogger)
	errorMiddleware := middleware.ErrorHandlerMiddleware(appLogger)

	router := gin.New()
	router.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logMsg := "Panic recovered"
		if err, ok := recovered.(string); ok {
			logMsg = fmt.Sprintf("%s: %s", logMsg, err)
		} else if err, ok := recovered.(error); ok {
			logMsg = fmt.Sprintf("%s: %v", logMsg, err)
		}
		appLogger.Error(logMsg, zap.Stack("stack"))

		_ = c.Error(ierr.ErrInternalServer)
		c.Abort()
	}))

	corsConfig := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-API-Key",
		},
		ExposeHeaders:             []string{"Content-Length"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}
	router.Use(cors.New(corsConfig))
	router.Use(errorMiddleware)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/sync", syncHandler.Trigger)
	router.GET("/:resource", gatewayHandler.Serve)

	authRoutes := router.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	apiV1 := router.Group("/api/v1")
	apiV1.Use(authMiddleware)
	{
		apiKeyRoutes := apiV1.Group("/apikeys")
		{
			apiKeyRoutes.POST("", apiKeyHandler.Create)
			apiKeyRoutes.GET("", apiKeyHandler.List)
			apiKeyRoutes.PATCH("/:id/status", apiKeyHandler.UpdateStatus)
			apiKeyRoutes.DELETE("/:id", apiKeyHandler.Revoke)
		}
		apiV1.GET("/usage", usageHandler.List)
		apiV1.GET("/sync/status", syncHandler.Status)
	}

	g, groupCtx := errgroup.WithContext(appCtx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g.Go(func() error {
		sugarLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		sugarLogger.Info("HTTP server stopped listening.")
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		sugarLogger.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownPeriod)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown error: %w", err)
		}
		sugarLogger.Info("HTTP server shutdown complete.")
		return nil
	})

	g.Go(func() error {
		if err := worker.RunWorkers(groupCtx, cfg, syncService, appLogger); err != nil {
			sugarLogger.Error("Asynq worker failed", zap.Error(err))
			return fmt.Errorf("asynq worker error: %w", err)
		}
		sugarLogger.Info("Asynq workers finished gracefully.")
		return nil
	})

	sugarLogger.Info("Application started. Waiting for interrupt signal or component error...")

	waitErr := g.Wait()

	if waitErr != nil {
		if errors.Is(waitErr, context.Canceled) {
			sugarLogger.Info("Shutdown reason: Context canceled (likely due to OS signal).")
		} else {
			sugarLogger.Errorf("Application shutdown finished with unexpected error: %v", waitErr)
		}
	} else {
		sugarLogger.Info("Application shutdown successfully.")
	}

	sugarLogger.Info("Application exiting now.")
}
