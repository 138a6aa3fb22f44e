package store

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// fakeDynamo is an in-memory table keyed by Name that pages scans and
// queries pageSize items at a time, applying filters after paging the way
// DynamoDB does.
type fakeDynamo struct {
	items    []map[string]ddbtypes.AttributeValue
	pageSize int
	err      error

	scans   int
	queries []string // index names queried
	updates []*dynamodb.UpdateItemInput
}

func (f *fakeDynamo) page(start map[string]ddbtypes.AttributeValue, filterID *string) ([]map[string]ddbtypes.AttributeValue, map[string]ddbtypes.AttributeValue) {
	offset := 0
	if v, ok := start["offset"].(*ddbtypes.AttributeValueMemberN); ok {
		offset, _ = strconv.Atoi(v.Value)
	}
	end := offset + f.pageSize
	if end > len(f.items) {
		end = len(f.items)
	}

	var out []map[string]ddbtypes.AttributeValue
	for _, item := range f.items[offset:end] {
		if filterID != nil {
			if v, ok := item["ID"].(*ddbtypes.AttributeValueMemberS); !ok || v.Value != *filterID {
				continue
			}
		}
		out = append(out, item)
	}

	var last map[string]ddbtypes.AttributeValue
	if end < len(f.items) {
		last = map[string]ddbtypes.AttributeValue{"offset": &ddbtypes.AttributeValueMemberN{Value: strconv.Itoa(end)}}
	}
	return out, last
}

func filterValue(values map[string]ddbtypes.AttributeValue) *string {
	if v, ok := values[":id"].(*ddbtypes.AttributeValueMemberS); ok {
		return &v.Value
	}
	return nil
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans++
	if f.err != nil {
		return nil, f.err
	}
	items, last := f.page(in.ExclusiveStartKey, filterValue(in.ExpressionAttributeValues))
	return &dynamodb.ScanOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, aws.ToString(in.IndexName))
	if f.err != nil {
		return nil, f.err
	}
	items, last := f.page(in.ExclusiveStartKey, filterValue(in.ExpressionAttributeValues))
	return &dynamodb.QueryOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	name := in.Item["Name"].(*ddbtypes.AttributeValueMemberS).Value
	for i, item := range f.items {
		if item["Name"].(*ddbtypes.AttributeValueMemberS).Value == name {
			f.items[i] = in.Item
			return &dynamodb.PutItemOutput{}, nil
		}
	}
	f.items = append(f.items, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if f.err != nil {
		return nil, f.err
	}
	name := in.Key["Name"].(*ddbtypes.AttributeValueMemberS).Value
	attr := in.ExpressionAttributeNames["#attr"]
	for _, item := range f.items {
		if item["Name"].(*ddbtypes.AttributeValueMemberS).Value == name {
			item[attr] = in.ExpressionAttributeValues[":val"]
			return &dynamodb.UpdateItemOutput{}, nil
		}
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func newTestDynamo(t *testing.T, mode LookupMode, records ...types.FeedbackRecord) (*DynamoStore, *fakeDynamo) {
	t.Helper()
	fake := &fakeDynamo{pageSize: 2}
	for _, rec := range records {
		item, err := attributevalue.MarshalMap(rec)
		require.NoError(t, err)
		fake.items = append(fake.items, item)
	}
	return newDynamoStore(fake, Config{LookupMode: mode}, zap.NewNop()), fake
}

func TestDynamoStore_ScanLookupPagesPastEmptyPages(t *testing.T) {
	s, fake := newTestDynamo(t, LookupScan,
		types.NewFeedbackRecord("a", "A", "One", "x"),
		types.NewFeedbackRecord("b", "B", "Two", "x"),
		types.NewFeedbackRecord("c", "C", "Three", "x"),
		types.NewFeedbackRecord("d", "D", "Four", "x"),
		types.NewFeedbackRecord("e", "E", "Five", "x"),
	)

	rec, err := s.GetByID(context.Background(), "e")
	require.NoError(t, err)
	assert.Equal(t, "E Five", rec.Name)
	assert.Equal(t, 3, fake.scans)
}

func TestDynamoStore_ScanLookupStopsAtFirstMatch(t *testing.T) {
	s, fake := newTestDynamo(t, LookupScan,
		types.NewFeedbackRecord("a", "A", "One", "x"),
		types.NewFeedbackRecord("b", "B", "Two", "x"),
		types.NewFeedbackRecord("c", "C", "Three", "x"),
	)

	rec, err := s.GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.ID)
	assert.Equal(t, 1, fake.scans)
}

func TestDynamoStore_IndexLookup(t *testing.T) {
	s, fake := newTestDynamo(t, LookupIndex,
		types.NewFeedbackRecord("a", "A", "One", "x"),
		types.NewFeedbackRecord("b", "B", "Two", "x"),
	)

	rec, err := s.GetByID(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "B Two", rec.Name)
	assert.Equal(t, []string{"ID-index"}, fake.queries)
	assert.Zero(t, fake.scans)
}

func TestDynamoStore_NotFound(t *testing.T) {
	for _, mode := range []LookupMode{LookupScan, LookupIndex} {
		t.Run(string(mode), func(t *testing.T) {
			s, _ := newTestDynamo(t, mode, types.NewFeedbackRecord("a", "A", "One", "x"))

			_, err := s.GetByID(context.Background(), "zzz")
			assert.True(t, errors.Is(err, ErrRecordNotFound))
		})
	}
}

func TestDynamoStore_ClientErrorIsStoreUnavailable(t *testing.T) {
	s, fake := newTestDynamo(t, LookupScan)
	fake.err = errors.New("throttled")
	ctx := context.Background()

	_, err := s.GetByID(ctx, "a")
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	_, err = s.ScanAll(ctx)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	err = s.Put(ctx, types.NewFeedbackRecord("a", "A", "One", "x"))
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	err = s.UpdateField(ctx, "A One", types.AnnotationSentiment, "MIXED")
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestDynamoStore_UpdateFieldUnknownKind(t *testing.T) {
	s, fake := newTestDynamo(t, LookupScan, types.NewFeedbackRecord("a", "A", "One", "x"))
	fake.err = errors.New("must not be called")

	err := s.UpdateField(context.Background(), "A One", types.AnnotationKind("AGE"), "42")
	assert.True(t, errors.Is(err, ErrUnknownKind))
	assert.False(t, errors.Is(err, ErrStoreUnavailable))
}

func TestDynamoStore_ScanAllReadsEveryPage(t *testing.T) {
	s, _ := newTestDynamo(t, LookupScan,
		types.NewFeedbackRecord("a", "A", "One", "x"),
		types.NewFeedbackRecord("b", "B", "Two", "x"),
		types.NewFeedbackRecord("c", "C", "Three", "x"),
	)

	all, err := s.ScanAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDynamoStore_UpdateFieldKeysOnName(t *testing.T) {
	s, fake := newTestDynamo(t, LookupScan, types.NewFeedbackRecord("a", "Ada", "Lovelace", "x"))
	ctx := context.Background()

	require.NoError(t, s.UpdateField(ctx, "Ada Lovelace", types.AnnotationGender, "Female"))

	require.Len(t, fake.updates, 1)
	in := fake.updates[0]
	assert.Equal(t, "UnicornFeedback", aws.ToString(in.TableName))
	assert.Equal(t, "SET #attr = :val", aws.ToString(in.UpdateExpression))
	assert.Equal(t, "Gender", in.ExpressionAttributeNames["#attr"])
	assert.Equal(t, &ddbtypes.AttributeValueMemberS{Value: "Ada Lovelace"}, in.Key["Name"])

	rec, err := s.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, types.GenderFemale, rec.Gender)
}

func TestDynamoStore_SameNamePutReplacesItem(t *testing.T) {
	s, _ := newTestDynamo(t, LookupScan)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, types.NewFeedbackRecord("a", "Sam", "Lee", "first")))
	require.NoError(t, s.Put(ctx, types.NewFeedbackRecord("b", "Sam", "Lee", "second")))

	all, err := s.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)

	_, err = s.GetByID(ctx, "a")
	assert.True(t, errors.Is(err, ErrRecordNotFound))
}

func TestDynamoStore_PutOmitsEmptyAnnotations(t *testing.T) {
	s, fake := newTestDynamo(t, LookupScan)

	require.NoError(t, s.Put(context.Background(), types.NewFeedbackRecord("a", "Ada", "Lovelace", "x")))

	require.Len(t, fake.items, 1)
	assert.NotContains(t, fake.items[0], "Sentiment")
	assert.NotContains(t, fake.items[0], "Gender")
	assert.Contains(t, fake.items[0], "Feedback")
}

func TestDynamoStore_Name(t *testing.T) {
	s := newDynamoStore(&fakeDynamo{}, Config{TableName: "Other"}, zap.NewNop())
	assert.Equal(t, "dynamodb:Other", s.Name())
}
