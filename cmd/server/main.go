// Package main runs the festival HTTP API with graceful shutdown.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vistara-fest/backend/config"
	"github.com/vistara-fest/backend/internal/auth"
	"github.com/vistara-fest/backend/internal/content"
	"github.com/vistara-fest/backend/internal/events"
	"github.com/vistara-fest/backend/internal/middleware"
	"github.com/vistara-fest/backend/internal/registrations"
	"github.com/vistara-fest/backend/internal/team"
	"github.com/vistara-fest/backend/internal/upload"
	"github.com/vistara-fest/backend/pkg/cache"
	"github.com/vistara-fest/backend/pkg/queue"
	"github.com/vistara-fest/backend/pkg/redis"
	"github.com/vistara-fest/backend/pkg/response"
	"github.com/vistara-fest/backend/pkg/storage"
)

func main() {
	seed := flag.Bool("seed", false, "load the built-in events into an empty events collection")
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer st.close()

	if *seed {
		if _, err := events.Seed(ctx, st.events, logger); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
	}

	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	publicCache := cache.New(rdb.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, logger)
	logger.Info("public read cache", zap.Stringer("cache", publicCache))
	jobQueue := queue.NewQueue(rdb.Client, logger)

	var objectStore upload.ObjectStore
	if cfg.AWS.Region != "" && cfg.AWS.UploadsBucket != "" {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			UploadsBucket:   cfg.AWS.UploadsBucket,
			PublicBaseURL:   cfg.AWS.PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			objectStore = s3Client
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	secret := auth.Secret{Plain: cfg.Admin.Password, Hash: cfg.Admin.PasswordHash}
	if !secret.Configured() {
		logger.Warn("ADMIN_PASSWORD and ADMIN_PASSWORD_HASH are empty, admin login disabled")
	}
	authHandler := auth.NewHandler(secret, jwtService, auth.NewLimiter(rdb.Client, cfg.Admin.LoginMaxAttempts), logger)

	contentHandler := content.NewHandler(st.content, publicCache, logger)
	eventHandler := events.NewHandler(st.events, publicCache, logger)
	teamHandler := team.NewHandler(st.team, publicCache, logger)
	registrationHandler := registrations.NewHandler(st.registrations, st.events, jobQueue, logger)
	uploadHandler := upload.NewHandler(objectStore, cfg.Upload.MaxBytes(), logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins()))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public site
	router.GET("/content", contentHandler.Get)
	router.GET("/events", eventHandler.List)
	router.GET("/team", teamHandler.List)
	router.POST("/registrations", registrationHandler.Submit)
	router.POST("/upload", uploadHandler.Upload)
	router.POST("/admin/login", authHandler.Login)

	// Admin panel (JWT required)
	admin := router.Group("")
	admin.Use(middleware.JWT(jwtService), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/content/update", contentHandler.Update)
		admin.POST("/events/update", eventHandler.Update)
		admin.POST("/team/update", teamHandler.Update)
		admin.GET("/admin/registrations", registrationHandler.List)
		admin.GET("/admin/registrations/:id", registrationHandler.Get)
		admin.POST("/admin/verify-registration", registrationHandler.Verify)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

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
