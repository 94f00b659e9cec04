package receipts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/agilerecords/records-frontend/internal/aws"
	"github.com/agilerecords/records-frontend/internal/records"
)

// ErrStatusMismatch is returned by Transition when the receipt is missing or
// not in one of the expected statuses.
var ErrStatusMismatch = errors.New("status mismatch/conditional failed")

// Store encapsulates operations on the receipts table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new receipts Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create records that rec was queued. A later sale of the same plot replaces
// the previous receipt.
func (s *Store) Create(ctx context.Context, rec records.TransactionRecord) error {
	now := s.nowFunc().UTC()
	r := Receipt{
		PlotNumber:   rec.PlotNumber,
		SubmissionID: rec.SubmissionID,
		Status:       StatusQueued,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if v, ok := rec.SaleValue(); ok {
		r.Value = v.String()
	}

	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches a receipt by plot number. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, plotNumber string) (*Receipt, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"plot_num": &types.AttributeValueMemberS{Value: plotNumber},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r Receipt
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return &r, nil
}

// Transition conditionally moves the receipt to newStatus when its current
// status is one of from. A FAILED report also bumps the attempts counter.
func (s *Store) Transition(ctx context.Context, plotNumber, newStatus string, from ...string) error {
	if len(from) == 0 {
		return fmt.Errorf("transition %s: no expected status", plotNumber)
	}
	now := s.nowFunc().UTC()

	values := map[string]types.AttributeValue{
		":new": &types.AttributeValueMemberS{Value: newStatus},
		":ua":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
	}
	placeholders := make([]string, 0, len(from))
	for i, st := range from {
		ph := fmt.Sprintf(":f%d", i)
		values[ph] = &types.AttributeValueMemberS{Value: st}
		placeholders = append(placeholders, ph)
	}

	updateExpr := "SET #s = :new, updated_at = :ua"
	if newStatus == StatusFailed {
		updateExpr += ", attempts = if_not_exists(attempts, :zero) + :inc"
		values[":zero"] = &types.AttributeValueMemberN{Value: "0"}
		values[":inc"] = &types.AttributeValueMemberN{Value: "1"}
	}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"plot_num": &types.AttributeValueMemberS{Value: plotNumber},
		},
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("#s IN (" + strings.Join(placeholders, ", ") + ")"),
	})
	if err != nil {
		if aws.IsConditionFailed(err) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
