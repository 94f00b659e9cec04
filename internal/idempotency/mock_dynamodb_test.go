package idempotency

import (
	"context"
	"errors"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeTable is an in-memory table keyed by idempotency_key. It understands
// the attribute_not_exists put condition and "SET a = :a" updates guarded by
// "#s = :expected".
type fakeTable struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	err   error // returned by every call when set
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: map[string]map[string]types.AttributeValue{}}
}

func keyString(key map[string]types.AttributeValue) (string, error) {
	v, ok := key["idempotency_key"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key")
	}
	return v.Value, nil
}

func (f *fakeTable) status(k string) string {
	if s, ok := f.items[k]["status"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeTable) PutItem(ctx context.Context, in *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k, err := keyString(in.Item)
	if err != nil {
		return nil, err
	}
	if in.ConditionExpression != nil && strings.HasPrefix(*in.ConditionExpression, "attribute_not_exists") {
		if _, exists := f.items[k]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[k] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (f *fakeTable) GetItem(ctx context.Context, in *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k, err := keyString(in.Key)
	if err != nil {
		return nil, err
	}
	return &dyn.GetItemOutput{Item: f.items[k]}, nil
}

func (f *fakeTable) UpdateItem(ctx context.Context, in *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k, err := keyString(in.Key)
	if err != nil {
		return nil, err
	}
	item, ok := f.items[k]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if in.ConditionExpression != nil && *in.ConditionExpression == "#s = :expected" {
		want := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		if f.status(k) != want {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	assignments := strings.Split(strings.TrimPrefix(*in.UpdateExpression, "SET "), ", ")
	for _, a := range assignments {
		parts := strings.SplitN(a, " = ", 2)
		name := parts[0]
		if alias, ok := in.ExpressionAttributeNames[name]; ok {
			name = alias
		}
		item[name] = in.ExpressionAttributeValues[parts[1]]
	}
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}
