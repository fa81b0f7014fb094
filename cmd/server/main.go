// Package main runs the event registration HTTP server with WebSocket and
// graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsunagu-circle/backend/config"
	"github.com/tsunagu-circle/backend/internal/auth"
	"github.com/tsunagu-circle/backend/internal/events"
	"github.com/tsunagu-circle/backend/internal/i18n"
	"github.com/tsunagu-circle/backend/internal/middleware"
	"github.com/tsunagu-circle/backend/internal/platform"
	"github.com/tsunagu-circle/backend/internal/realtime"
	"github.com/tsunagu-circle/backend/internal/registrations"
	"github.com/tsunagu-circle/backend/internal/worker"
	"github.com/tsunagu-circle/backend/pkg/database"
	"github.com/tsunagu-circle/backend/pkg/queue"
	"github.com/tsunagu-circle/backend/pkg/response"
	"github.com/tsunagu-circle/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Platform.DatabaseURL,
		cfg.Platform.DBMaxConns, cfg.Platform.DBConnLifetime, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			DocumentsBucket:      cfg.AWS.DocumentsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
			s3Client = nil
		}
	}

	// Platform access: catalog reads and RPC through the pooled connection,
	// public cover URLs derived locally.
	client := platform.NewClient(pool, logger)
	covers := platform.NewStorage(cfg.Platform.StoragePublicURL)

	// Realtime availability feed.
	pubsub := realtime.NewRedisPubSub(rdb, logger)
	hub := realtime.NewHub(logger, pubsub, pubsub)

	// Events
	eventRepo := events.NewRepository(client, covers, cfg.Platform.CoversBucket)
	eventHandler := events.NewHandler(eventRepo, cfg.Catalog.UpcomingLimit, cfg.Catalog.PastLimit, logger)

	// Registrations
	counter := registrations.NewCounter(client, rdb,
		time.Duration(cfg.Catalog.CountCacheTTLMs)*time.Millisecond, logger)
	registrar := registrations.NewPlatformRegistrar(client)
	workflow := registrations.NewWorkflow(eventRepo, counter, registrar, hub, logger)
	registrationHandler := registrations.NewHandler(workflow, logger)

	// Staff surface
	verifier := auth.NewTokenVerifier(cfg.Platform.JWTSecret)
	authService := auth.NewService(cfg.Platform.AuthBaseURL, cfg.Platform.AnonKey, logger)
	authHandler := auth.NewHandler(authService, verifier, logger)

	rosterRepo := registrations.NewRepository(client)
	jobQueue := queue.NewQueue(rdb, logger)
	adminHandler := registrations.NewAdminHandler(rosterRepo, eventRepo, jobQueue, s3Client, logger)

	// Language
	langHandler := i18n.NewHandler()

	refresh := func(ctx context.Context, eventID int64) (registrations.Availability, error) {
		ev, err := eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return registrations.Availability{}, err
		}
		return registrations.ResolveAvailability(ctx, ev, counter, time.Now()), nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(i18n.Middleware())

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Event catalog (public)
	router.GET("/events/upcoming", eventHandler.ListUpcoming)
	router.GET("/events/past", eventHandler.ListPast)
	router.GET("/events/:slug", eventHandler.GetBySlug)
	router.GET("/events/:slug/availability", registrationHandler.Availability)
	router.POST("/events/:slug/register", registrationHandler.Register)

	// Form options and language (public)
	router.GET("/form-options", langHandler.Options)
	router.GET("/lang", langHandler.Current)
	router.POST("/lang/toggle", langHandler.Toggle)

	// Auth (public entry points; session inspection tolerates absence)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/session", authHandler.GetSession)
	}

	// Staff API (session required)
	admin := router.Group("/admin")
	admin.Use(auth.RequireSession(verifier, cfg.Server.LoginPath))
	{
		admin.GET("/events/:id/registrations", adminHandler.ListByEvent)
		admin.GET("/events/:id/registrations/count", adminHandler.Count)
		admin.POST("/events/:id/export", adminHandler.Export)
		admin.GET("/documents", adminHandler.Documents)
		admin.GET("/documents/url", adminHandler.DocumentURL)
	}

	// WebSocket availability feed (public; event_id in query)
	router.GET("/ws", realtime.ServeWs(hub, refresh, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (roster CSV export to S3)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if s3Client != nil {
		exporter := worker.NewRosterExporter(rosterRepo, eventRepo, s3Client, jobQueue, logger)
		go exporter.Run(workerCtx)
		logger.Info("export worker started")
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
