package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/agilerecords/records-frontend/internal/alerts"
	"github.com/agilerecords/records-frontend/internal/aws"
	"github.com/agilerecords/records-frontend/internal/config"
	"github.com/agilerecords/records-frontend/internal/logging"
	"github.com/agilerecords/records-frontend/internal/receipts"
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
	clients, err := aws.NewAWSClients(ctx, aws.Features{
		Tables:  cfg.ReceiptsTable != "",
		Metrics: cfg.MetricsNamespace != "",
	})
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	alertLog, err := alerts.OpenLog(cfg.AlertLogPath)
	if err != nil {
		log.Fatalf("failed to open alert log: %v", err)
	}
	defer alertLog.Close()

	var updater alerts.ReceiptUpdater
	if cfg.ReceiptsTable != "" {
		updater = receipts.NewStore(clients.DynamoDB, cfg.ReceiptsTable)
	}
	var metrics alerts.Metrics = aws.NopMetrics{}
	if cfg.MetricsNamespace != "" {
		metrics = aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace, logger)
	}

	p := NewProcessor(alerts.NewNotifier(alertLog, updater, metrics, logger), logger)

	// If RUN_LOCAL=true, process a single simulated SQS event for local testing.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"success":"local-plot-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: testBody}},
		}
		resp, _ := p.Handle(ctx, event)
		if len(resp.BatchItemFailures) > 0 {
			logger.Error("local handler failed", slog.Int("failures", len(resp.BatchItemFailures)))
			os.Exit(1)
		}
		return
	}

	lambda.Start(p.Handle)
}
