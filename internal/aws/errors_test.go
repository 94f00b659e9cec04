package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

func TestIsConditionFailed(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed", &types.ConditionalCheckFailedException{}, true},
		{"wrapped typed", fmt.Errorf("update item: %w", &types.ConditionalCheckFailedException{}), true},
		{"api error code", &smithy.GenericAPIError{Code: "ConditionalCheckFailedException"}, true},
		{"other api error", &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException"}, false},
		{"plain", errors.New("connection reset"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsConditionFailed(tc.err); got != tc.want {
				t.Fatalf("IsConditionFailed(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
