package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"github.com/agilerecords/records-frontend/internal/alerts"
	"github.com/agilerecords/records-frontend/internal/aws"
	"github.com/agilerecords/records-frontend/internal/backend"
	"github.com/agilerecords/records-frontend/internal/config"
	"github.com/agilerecords/records-frontend/internal/handlers"
	"github.com/agilerecords/records-frontend/internal/idempotency"
	"github.com/agilerecords/records-frontend/internal/logging"
	"github.com/agilerecords/records-frontend/internal/pipeline"
	"github.com/agilerecords/records-frontend/internal/receipts"
	"github.com/agilerecords/records-frontend/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := logging.New(cfg.ServiceLogPath, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer closeLog()

	ctx := context.Background()
	hcfg, closeAll, err := buildHandlerConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup_failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer closeAll()

	r := handlers.NewRouter(hcfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		srv := &http.Server{Addr: cfg.Addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			logger.Info("running local server", slog.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("local server failed", slog.Any("err", err))
				os.Exit(1)
			}
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		logger.Info("shutdown complete")
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

// buildHandlerConfig constructs every long-lived client once. The returned
// func releases them.
func buildHandlerConfig(ctx context.Context, cfg config.Config, logger *slog.Logger) (handlers.HandlerConfig, func(), error) {
	clients, err := aws.NewAWSClients(ctx, aws.Features{
		Queue:   cfg.QueueBackend == config.QueueSQS,
		Tables:  cfg.ReceiptsTable != "" || cfg.IdempotencyTable != "",
		Metrics: cfg.MetricsNamespace != "",
	})
	if err != nil {
		return handlers.HandlerConfig{}, nil, fmt.Errorf("init aws clients: %w", err)
	}

	redisStore := store.NewRedisStore(store.RedisOptions{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUser,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		QueueKey: cfg.QueueKey,
		CacheKey: cfg.CacheKey,
	})

	alertLog, err := alerts.OpenLog(cfg.AlertLogPath)
	if err != nil {
		_ = redisStore.Close()
		return handlers.HandlerConfig{}, nil, err
	}
	closeAll := func() {
		_ = alertLog.Close()
		_ = redisStore.Close()
	}

	var queue store.Queue = redisStore
	if cfg.QueueBackend == config.QueueSQS {
		queue = store.NewSQSQueue(aws.NewPublisher(clients.SQS, cfg.SQSQueueURL))
	}

	var metrics interface {
		pipeline.Metrics
		handlers.Metrics
	} = aws.NopMetrics{}
	if cfg.MetricsNamespace != "" {
		metrics = aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace, logger)
	}

	hcfg := handlers.HandlerConfig{
		Cache:    redisStore,
		AlertLog: alertLog,
		LogsTail: cfg.LogsTail,
		Ready:    redisStore,
		Metrics:  metrics,
		Logger:   logger,
	}

	// typed nils must not leak into the optional interfaces
	var receiptRecorder pipeline.ReceiptRecorder
	var receiptUpdater alerts.ReceiptUpdater
	if cfg.ReceiptsTable != "" {
		rs := receipts.NewStore(clients.DynamoDB, cfg.ReceiptsTable)
		receiptRecorder, receiptUpdater, hcfg.Receipts = rs, rs, rs
	}
	if cfg.IdempotencyTable != "" {
		hcfg.Idempotency = idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL)
	}

	validator := backend.New(cfg.ValidationURL(), cfg.ValidationFields, cfg.ValidationTimeout)
	hcfg.Submitter = pipeline.NewSubmitter(validator, queue, receiptRecorder, metrics, logger)
	hcfg.Notifier = alerts.NewNotifier(alertLog, receiptUpdater, metrics, logger)

	logger.Info("frontend configured",
		slog.String("validation_url", cfg.ValidationURL()),
		slog.String("queue_backend", cfg.QueueBackend),
		slog.Bool("receipts", cfg.ReceiptsTable != ""),
		slog.Bool("idempotency", cfg.IdempotencyTable != ""),
		slog.Bool("metrics", cfg.MetricsNamespace != ""),
	)
	return hcfg, closeAll, nil
}
