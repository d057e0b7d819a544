// Package main runs the background job worker: verification emails, Telegram alerts and
// spreadsheet export of registrations.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vistara-fest/backend/config"
	"github.com/vistara-fest/backend/internal/notify"
	"github.com/vistara-fest/backend/internal/sheets"
	"github.com/vistara-fest/backend/internal/worker"
	"github.com/vistara-fest/backend/pkg/queue"
	"github.com/vistara-fest/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	mailer := notify.NewMailer(notify.MailerConfig{
		Provider:        cfg.Email.Provider,
		FromAddress:     cfg.Email.FromAddress,
		FromName:        cfg.Email.FromName,
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	}, logger)

	alerter, err := notify.NewAlerter(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, logger)
	if err != nil {
		logger.Fatal("telegram", zap.Error(err))
	}

	var exporter worker.Exporter
	if cfg.Sheets.SpreadsheetID != "" && cfg.Sheets.ServiceAccountJSON != "" {
		client, err := sheets.New(ctx, cfg.Sheets.ServiceAccountJSON, cfg.Sheets.SpreadsheetID)
		if err != nil {
			logger.Warn("sheets export disabled", zap.Error(err))
		} else {
			exporter = sheets.NewExporter(client)
			logger.Info("sheets export enabled", zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID))
		}
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	processor := worker.NewProcessor(jobQueue, mailer, alerter, exporter, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		processor.Run(workerCtx)
		close(done)
	}()
	logger.Info("worker started", zap.String("email_provider", cfg.Email.Provider))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		logger.Warn("worker did not stop in time")
	}
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
