package idempotency

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/agilerecords/records-frontend/internal/aws"
)

// Store keeps submission entries in DynamoDB. Entries expire after ttl.
type Store struct {
	client  aws.DynamoDBAPI
	table   string
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewStore(client aws.DynamoDBAPI, table string, ttl time.Duration) *Store {
	return &Store{client: client, table: table, ttl: ttl, nowFunc: time.Now}
}

// Claim creates an IN_PROGRESS entry for key. It returns false when an entry
// already exists; the caller inspects it with Get.
func (s *Store) Claim(ctx context.Context, key, plotNumber string) (bool, error) {
	now := s.nowFunc().UTC()
	item, err := attributevalue.MarshalMap(Entry{
		Key:        key,
		Status:     StatusInProgress,
		PlotNumber: plotNumber,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.ttl).Unix(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal entry: %w", err)
	}

	cond := "attribute_not_exists(idempotency_key)"
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: &cond,
	})
	if aws.IsConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	return true, nil
}

// Get returns the entry for key, or (nil, nil) when there is none.
func (s *Store) Get(ctx context.Context, key string) (*Entry, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{TableName: &s.table, Key: keyOf(key)})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var e Entry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return &e, nil
}

// Complete marks the entry DONE and stores the outcome for replay.
func (s *Store) Complete(ctx context.Context, key, responseBody string, responseStatus int) error {
	return s.setStatus(ctx, key, StatusDone, "", map[string]types.AttributeValue{
		"response_body":   &types.AttributeValueMemberS{Value: responseBody},
		"response_status": &types.AttributeValueMemberN{Value: strconv.Itoa(responseStatus)},
	})
}

// Fail marks the entry FAILED so the same form may be submitted again.
func (s *Store) Fail(ctx context.Context, key, note string) error {
	return s.setStatus(ctx, key, StatusFailed, "", map[string]types.AttributeValue{
		"note": &types.AttributeValueMemberS{Value: note},
	})
}

// Reopen moves a FAILED entry back to IN_PROGRESS and renews its expiry.
// It returns false when the entry is not FAILED, e.g. a concurrent retry won.
func (s *Store) Reopen(ctx context.Context, key string) (bool, error) {
	expires := s.nowFunc().Add(s.ttl).Unix()
	err := s.setStatus(ctx, key, StatusInProgress, StatusFailed, map[string]types.AttributeValue{
		"expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(expires, 10)},
	})
	if aws.IsConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// setStatus writes status plus attrs. A non-empty expected makes the write
// conditional on the current status.
func (s *Store) setStatus(ctx context.Context, key, status, expected string, attrs map[string]types.AttributeValue) error {
	values := map[string]types.AttributeValue{
		":status":     &types.AttributeValueMemberS{Value: status},
		":updated_at": &types.AttributeValueMemberS{Value: s.nowFunc().UTC().Format(time.RFC3339Nano)},
	}
	sets := []string{"#s = :status", "updated_at = :updated_at"}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		values[":"+name] = attrs[name]
		sets = append(sets, name+" = :"+name)
	}

	in := &dyn.UpdateItemInput{
		TableName:                 &s.table,
		Key:                       keyOf(key),
		UpdateExpression:          strPtr("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: values,
	}
	if expected != "" {
		values[":expected"] = &types.AttributeValueMemberS{Value: expected}
		in.ConditionExpression = strPtr("#s = :expected")
	}

	if _, err := s.client.UpdateItem(ctx, in); err != nil {
		return fmt.Errorf("set %s to %s: %w", key, status, err)
	}
	return nil
}

func keyOf(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"idempotency_key": &types.AttributeValueMemberS{Value: key}}
}

func strPtr(s string) *string { return &s }
