package repository

import (
	"context"
	"fmt"

	"invoice_management/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SequenceDynamoRepository reserves counter values with an atomic ADD. Reservations are
// not part of the surrounding transaction, so a rolled back unit of work leaves a gap.
type SequenceDynamoRepository struct {
	ddb       Client
	tableName string
}

var _ interfaces.ISequenceRepository = (*SequenceDynamoRepository)(nil)

func (r *SequenceDynamoRepository) Next(ctx context.Context, scope string) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"scope": str(scope),
		},
		UpdateExpression:         aws.String("ADD #value :one"),
		ExpressionAttributeNames: map[string]string{"#value": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}

	var rec struct {
		Value int64 `dynamodbav:"value"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return 0, err
	}
	if rec.Value <= 0 {
		return 0, fmt.Errorf("sequence %s returned %d", scope, rec.Value)
	}
	return rec.Value, nil
}
