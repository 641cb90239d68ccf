// Package main runs the studio backend HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lumen-studio/backend/config"
	"github.com/lumen-studio/backend/internal/auth"
	"github.com/lumen-studio/backend/internal/bookings"
	"github.com/lumen-studio/backend/internal/graphics"
	"github.com/lumen-studio/backend/internal/middleware"
	"github.com/lumen-studio/backend/internal/recorder"
	"github.com/lumen-studio/backend/internal/recordings"
	"github.com/lumen-studio/backend/internal/sessions"
	"github.com/lumen-studio/backend/internal/settings"
	"github.com/lumen-studio/backend/pkg/database"
	"github.com/lumen-studio/backend/pkg/queue"
	"github.com/lumen-studio/backend/pkg/redis"
	"github.com/lumen-studio/backend/pkg/response"
	"github.com/lumen-studio/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			GraphicsBucket:       cfg.AWS.GraphicsBucket,
			RecordingsBucket:     cfg.AWS.RecordingsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	sessionStore := sessions.NewRedisStore(rdb.Client, cfg.Studio.SessionTTL(), logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Settings
	settingsRepo := settings.NewRepository(pool)
	settingsHandler := settings.NewHandler(settingsRepo, logger)

	// Graphics
	graphicsRepo := graphics.NewRepository(pool)
	graphicsHandler := graphics.NewHandler(graphicsRepo, s3Client, logger)

	// Bookings
	bookingRepo := bookings.NewRepository(pool)
	bookingHandler := bookings.NewHandler(bookingRepo, settingsRepo, graphicsRepo, sessionStore, s3Client, logger)

	// Sessions (customer displays)
	sessionHandler := sessions.NewHandler(sessionStore, logger)

	// Recordings
	recRepo := recordings.NewRepository(pool)
	recHandler := recordings.NewHandler(recRepo, s3Client, logger)
	recorderWebhook := recorder.NewWebhookHandler(sessionStore, recRepo, jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	// Public: staff auth, kiosk calendar and walk-ins, customer displays,
	// recorder device webhook.
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	router.GET("/calendar/today", bookingHandler.CalendarToday)
	router.POST("/bookings/walk-in", bookingHandler.WalkIn)

	router.GET("/customer/status/:token", sessionHandler.Status)
	router.PUT("/customer/:token/teleprompter/script", sessionHandler.UpdateScript)
	router.PUT("/customer/:token/teleprompter/speed", sessionHandler.UpdateSpeed)
	router.PUT("/customer/:token/display-mode", sessionHandler.UpdateMode)

	router.POST("/webhooks/recorder", recorderWebhook.Event)

	// Staff API (JWT).
	api := router.Group("/", middleware.JWT(jwtService))
	{
		api.GET("/appointments/:id", bookingHandler.GetAppointment)
		api.GET("/bookings/current", bookingHandler.Current)
		api.POST("/bookings/:id/activate", bookingHandler.Activate)
		api.POST("/bookings/:id/complete", bookingHandler.Complete)

		api.POST("/bookings/:id/graphics", graphicsHandler.Upload)
		api.GET("/bookings/:id/graphics", graphicsHandler.List)
		api.DELETE("/graphics/:id", graphicsHandler.Delete)

		api.GET("/bookings/:id/recordings", recHandler.ListByBooking)
		api.GET("/recordings/:id/download-url", recHandler.GenerateDownloadURL)

		api.GET("/settings", settingsHandler.Get)

		admin := api.Group("/", middleware.RequireRole("admin"))
		{
			admin.PUT("/settings", settingsHandler.Update)
			admin.GET("/users", authHandler.List)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
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
