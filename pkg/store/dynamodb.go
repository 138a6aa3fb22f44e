package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// dynamoAPI is the subset of the DynamoDB client used by DynamoStore
type dynamoAPI interface {
	dynamodb.ScanAPIClient
	dynamodb.QueryAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoStore keeps records in a DynamoDB table whose hash key is Name.
//
// Because Name is the table key, at most one item exists per name: a Put
// with an existing name replaces that item and UpdateField writes to it
// (creating it if absent, as UpdateItem does).
type DynamoStore struct {
	client  dynamoAPI
	table   string
	idIndex string
	mode    LookupMode
	logger  *zap.Logger
}

// NewDynamoStore creates a DynamoDB-backed store
func NewDynamoStore(awsCfg aws.Config, cfg Config, logger *zap.Logger) *DynamoStore {
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newDynamoStore(client, cfg, logger)
}

func newDynamoStore(client dynamoAPI, cfg Config, logger *zap.Logger) *DynamoStore {
	table := cfg.TableName
	if table == "" {
		table = "UnicornFeedback"
	}
	idIndex := cfg.IDIndex
	if idIndex == "" {
		idIndex = "ID-index"
	}
	mode := cfg.LookupMode
	if mode == "" {
		mode = LookupScan
	}
	return &DynamoStore{
		client:  client,
		table:   table,
		idIndex: idIndex,
		mode:    mode,
		logger:  logger,
	}
}

// Name returns the backend name
func (s *DynamoStore) Name() string {
	return "dynamodb:" + s.table
}

// GetByID finds a record by id using the configured lookup mode
func (s *DynamoStore) GetByID(ctx context.Context, id string) (*types.FeedbackRecord, error) {
	if s.mode == LookupIndex {
		return s.queryByID(ctx, id)
	}
	return s.scanByID(ctx, id)
}

// scanByID pages through the whole table with a filter on ID. A page can
// come back empty while later pages still hold the match, so paging stops
// only at the first match or the end of the table.
func (s *DynamoStore) scanByID(ctx context.Context, id string) (*types.FeedbackRecord, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          aws.String("#id = :id"),
		ExpressionAttributeNames:  map[string]string{"#id": "ID"},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{":id": &ddbtypes.AttributeValueMemberS{Value: id}},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, unavailable("scan "+s.table, err)
		}
		if len(page.Items) == 0 {
			continue
		}

		var record types.FeedbackRecord
		if err := attributevalue.UnmarshalMap(page.Items[0], &record); err != nil {
			return nil, unavailable("decode item", err)
		}
		return &record, nil
	}

	return nil, notFound(id)
}

func (s *DynamoStore) queryByID(ctx context.Context, id string) (*types.FeedbackRecord, error) {
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		IndexName:                 aws.String(s.idIndex),
		KeyConditionExpression:    aws.String("#id = :id"),
		ExpressionAttributeNames:  map[string]string{"#id": "ID"},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{":id": &ddbtypes.AttributeValueMemberS{Value: id}},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, unavailable("query "+s.idIndex, err)
		}
		if len(page.Items) == 0 {
			continue
		}

		var record types.FeedbackRecord
		if err := attributevalue.UnmarshalMap(page.Items[0], &record); err != nil {
			return nil, unavailable("decode item", err)
		}
		return &record, nil
	}

	return nil, notFound(id)
}

// ScanAll reads every page of the table
func (s *DynamoStore) ScanAll(ctx context.Context) ([]types.FeedbackRecord, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	records := []types.FeedbackRecord{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, unavailable("scan "+s.table, err)
		}

		var batch []types.FeedbackRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, unavailable("decode items", err)
		}
		records = append(records, batch...)
	}

	s.logger.Debug("Scanned table", zap.String("table", s.table), zap.Int("records", len(records)))
	return records, nil
}

// Put writes a new item
func (s *DynamoStore) Put(ctx context.Context, record types.FeedbackRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return unavailable("encode item", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return unavailable("put item", err)
	}

	s.logger.Info("Stored feedback record", zap.String("id", record.ID), zap.String("name", record.Name))
	return nil
}

// UpdateField sets one annotation attribute on the item keyed by name
func (s *DynamoStore) UpdateField(ctx context.Context, name string, kind types.AnnotationKind, value string) error {
	attr := kind.Attribute()
	if attr == "" {
		return errUnknownKind(kind)
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       map[string]ddbtypes.AttributeValue{"Name": &ddbtypes.AttributeValueMemberS{Value: name}},
		UpdateExpression:          aws.String("SET #attr = :val"),
		ExpressionAttributeNames:  map[string]string{"#attr": attr},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{":val": &ddbtypes.AttributeValueMemberS{Value: value}},
	})
	if err != nil {
		return unavailable("update item", err)
	}

	return nil
}
