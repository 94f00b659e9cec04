package aws

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

const conditionFailedCode = "ConditionalCheckFailedException"

// IsConditionFailed reports whether err is a failed DynamoDB condition
// expression. It matches both the typed exception and a bare API error code.
func IsConditionFailed(err error) bool {
	if err == nil {
		return false
	}
	var cf *types.ConditionalCheckFailedException
	if errors.As(err, &cf) {
		return true
	}
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == conditionFailedCode
}
