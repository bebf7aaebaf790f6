package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrItemNotFound is returned by GetItem when the key has no record.
var ErrItemNotFound = errors.New("item not found")

type DynamoService struct {
	Client *dynamodb.Client
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// PutItem marshals and stores an item
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaledItem,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// GetItem retrieves an item from DynamoDB; ErrItemNotFound when absent
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}

	if output.Item == nil {
		return nil, ErrItemNotFound
	}

	return output.Item, nil
}

// QueryItemsWithIndex queries items from DynamoDB using a Global Secondary Index (GSI)
func (ds *DynamoService) QueryItemsWithIndex(
	ctx context.Context,
	tableName string,
	indexName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	output, err := ds.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &tableName,
		IndexName:                 &indexName,
		KeyConditionExpression:    &keyConditionExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		Limit:                     &limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query GSI '%s': %w", indexName, err)
	}
	return output.Items, nil
}

// queryPages drains a paginated query, following LastEvaluatedKey until the
// result set is complete. DynamoDB may return a partial page whenever the
// 1 MB evaluation cap is hit, so a single call is never enough.
func queryPages(
	ctx context.Context,
	fetch func(ctx context.Context, startKey map[string]types.AttributeValue) (*dynamodb.QueryOutput, error),
) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		output, err := fetch(ctx, startKey)
		if err != nil {
			return nil, err
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = output.LastEvaluatedKey
	}
}

// QueryAllItems queries every item matching a KeyConditionExpression,
// paginating until the result set is complete
func (ds *DynamoService) QueryAllItems(
	ctx context.Context,
	tableName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) ([]map[string]types.AttributeValue, error) {
	items, err := queryPages(ctx, func(ctx context.Context, startKey map[string]types.AttributeValue) (*dynamodb.QueryOutput, error) {
		return ds.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 &tableName,
			KeyConditionExpression:    &keyConditionExpression,
			ExpressionAttributeValues: expressionAttributeValues,
			ExpressionAttributeNames:  expressionAttributeNames,
			ExclusiveStartKey:         startKey,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query items from table '%s': %w", tableName, err)
	}
	return items, nil
}

// QueryAllItemsWithIndex queries every item matching a KeyConditionExpression
// on a Global Secondary Index (GSI), paginating until the result set is complete
func (ds *DynamoService) QueryAllItemsWithIndex(
	ctx context.Context,
	tableName string,
	indexName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) ([]map[string]types.AttributeValue, error) {
	items, err := queryPages(ctx, func(ctx context.Context, startKey map[string]types.AttributeValue) (*dynamodb.QueryOutput, error) {
		return ds.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 &tableName,
			IndexName:                 &indexName,
			KeyConditionExpression:    &keyConditionExpression,
			ExpressionAttributeValues: expressionAttributeValues,
			ExpressionAttributeNames:  expressionAttributeNames,
			ExclusiveStartKey:         startKey,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query GSI '%s': %w", indexName, err)
	}
	return items, nil
}

// BatchGetItems fetches up to len(keys) items by a single string key attribute,
// batching requests at the DynamoDB limit of 100 keys per call.
func (ds *DynamoService) BatchGetItems(
	ctx context.Context,
	tableName string,
	keyName string,
	keys []string,
) ([]map[string]types.AttributeValue, error) {
	const maxBatchSize = 100

	var items []map[string]types.AttributeValue
	for i := 0; i < len(keys); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		requestKeys := make([]map[string]types.AttributeValue, 0, end-i)
		for _, k := range keys[i:end] {
			requestKeys = append(requestKeys, map[string]types.AttributeValue{
				keyName: &types.AttributeValueMemberS{Value: k},
			})
		}

		output, err := ds.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				tableName: {Keys: requestKeys},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to batch get items from table '%s': %w", tableName, err)
		}

		items = append(items, output.Responses[tableName]...)
	}

	return items, nil
}

// UpdateItem applies an update expression to a keyed item and returns the new attributes
func (ds *DynamoService) UpdateItem(
	ctx context.Context,
	tableName string,
	updateExpression string,
	key map[string]types.AttributeValue,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) (map[string]types.AttributeValue, error) {
	if len(key) == 0 {
		return nil, errors.New("update failed: key cannot be empty")
	}
	if updateExpression == "" {
		return nil, errors.New("update failed: updateExpression cannot be empty")
	}

	output, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &tableName,
		Key:                       key,
		UpdateExpression:          &updateExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item in table '%s': %w", tableName, err)
	}

	if output.Attributes == nil {
		return map[string]types.AttributeValue{}, nil
	}
	return output.Attributes, nil
}

// DeleteItem removes an item from DynamoDB
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}
	return nil
}

// ScanPage performs one page of a filtered table scan and returns the items
// together with the LastEvaluatedKey for cursor-based pagination.
func (ds *DynamoService) ScanPage(
	ctx context.Context,
	tableName string,
	limit int32,
	exclusiveStartKey map[string]types.AttributeValue,
	filterExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	scanInput := &dynamodb.ScanInput{
		TableName:         &tableName,
		Limit:             &limit,
		ExclusiveStartKey: exclusiveStartKey,
	}
	if filterExpression != "" {
		scanInput.FilterExpression = aws.String(filterExpression)
		scanInput.ExpressionAttributeValues = expressionAttributeValues
		scanInput.ExpressionAttributeNames = expressionAttributeNames
	}

	output, err := ds.Client.Scan(ctx, scanInput)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan table '%s': %w", tableName, err)
	}

	return output.Items, output.LastEvaluatedKey, nil
}
