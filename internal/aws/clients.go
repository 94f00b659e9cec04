package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Features selects which AWS-backed parts of the frontend are enabled.
type Features struct {
	Queue   bool // SQS record queue
	Tables  bool // DynamoDB receipts and/or idempotency tables
	Metrics bool // CloudWatch counters
}

// AWSClients bundles the service clients the frontend talks to.
// A nil client means the feature that needs it is disabled.
type AWSClients struct {
	DynamoDB   DynamoDBAPI
	SQS        SQSAPI
	CloudWatch CloudWatchAPI
}

// NewAWSClients loads AWS config once and builds a client for every enabled feature.
func NewAWSClients(ctx context.Context, f Features) (*AWSClients, error) {
	clients := &AWSClients{}
	if !f.Queue && !f.Tables && !f.Metrics {
		return clients, nil
	}

	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	if f.Tables {
		clients.DynamoDB = dynamodb.NewFromConfig(cfg)
	}
	if f.Queue {
		clients.SQS = sqs.NewFromConfig(cfg)
	}
	if f.Metrics {
		clients.CloudWatch = cloudwatch.NewFromConfig(cfg)
	}
	return clients, nil
}
