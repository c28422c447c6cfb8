package profileRepo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/dynamo"
	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/lazy"
)

type fakeDynamo struct {
	putInput    *dynamodb.PutItemInput
	updateInput *dynamodb.UpdateItemInput
	item        map[string]types.AttributeValue
	err         error
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.item}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, f.err
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDynamoRepo(f *fakeDynamo) *DynamoRepository {
	return NewDynamo(lazy.Of[dynamo.API](f), "profiles-test", discardLog()).(*DynamoRepository)
}

func sampleProfile() *domain.UserProfile {
	return &domain.UserProfile{
		UserID:        "user-1",
		BirthDate:     "1990-05-15",
		BirthTime:     "14:30",
		BirthLocation: "New York",
		BirthCountry:  "United States",
		ZodiacSign:    "Taurus",
		CreatedAt:     1700000000,
		UpdatedAt:     1700000000,
	}
}

func TestDynamoPut_Item(t *testing.T) {
	f := &fakeDynamo{}

	require.NoError(t, newDynamoRepo(f).Put(context.Background(), sampleProfile()))

	require.NotNil(t, f.putInput)
	assert.Equal(t, "profiles-test", *f.putInput.TableName)

	item := f.putInput.Item
	assert.Equal(t, &types.AttributeValueMemberS{Value: "user-1"}, item["user_id"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1700000000"}, item["created_at"])
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: false}, item["chart_generated"])
	assert.IsType(t, &types.AttributeValueMemberNULL{}, item["timezone"])
	assert.IsType(t, &types.AttributeValueMemberNULL{}, item["last_chart_generated_at"])
	assert.NotContains(t, item, "email")
}

func TestDynamoPut_EmailStored(t *testing.T) {
	f := &fakeDynamo{}
	p := sampleProfile()
	email := "a@b.c"
	p.Email = &email

	require.NoError(t, newDynamoRepo(f).Put(context.Background(), p))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "a@b.c"}, f.putInput.Item["email"])
}

func TestDynamoPut_ServiceErrorClassified(t *testing.T) {
	f := &fakeDynamo{err: &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "Rate exceeded"}}

	err := newDynamoRepo(f).Put(context.Background(), sampleProfile())

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "ProvisionedThroughputExceededException", storeErr.Code)
	assert.Equal(t, "Rate exceeded", storeErr.Message)
}

func TestDynamoPut_OtherErrorNotClassified(t *testing.T) {
	f := &fakeDynamo{err: errors.New("boom")}

	err := newDynamoRepo(f).Put(context.Background(), sampleProfile())

	require.Error(t, err)
	var storeErr *domain.StoreError
	assert.False(t, errors.As(err, &storeErr))
}

func TestDynamoPut_ClientInitFailure(t *testing.T) {
	handle := lazy.New(func(ctx context.Context) (dynamo.API, error) {
		return nil, errors.New("failed to load AWS config: shared credentials file /root/.aws/credentials not readable")
	})
	repo := NewDynamo(handle, "t", discardLog())

	err := repo.Put(context.Background(), sampleProfile())

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "ClientInitError", storeErr.Code)
	assert.Equal(t, "profile store unavailable", storeErr.Message)
	assert.NotContains(t, storeErr.Message, "credentials")
	assert.ErrorContains(t, storeErr.Unwrap(), "credentials")
}

func TestDynamoGet(t *testing.T) {
	item, err := attributevalue.MarshalMap(sampleProfile())
	require.NoError(t, err)

	got, err := newDynamoRepo(&fakeDynamo{item: item}).Get(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, sampleProfile(), got)
}

func TestDynamoGet_NotFound(t *testing.T) {
	_, err := newDynamoRepo(&fakeDynamo{}).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestDynamoMarkChartGenerated(t *testing.T) {
	f := &fakeDynamo{}

	require.NoError(t, newDynamoRepo(f).MarkChartGenerated(context.Background(), "user-1", 1700000100))

	require.NotNil(t, f.updateInput)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1700000100"}, f.updateInput.ExpressionAttributeValues[":at"])
	assert.Equal(t, "attribute_exists(user_id)", *f.updateInput.ConditionExpression)
}

func TestDynamoMarkChartGenerated_Missing(t *testing.T) {
	f := &fakeDynamo{err: &types.ConditionalCheckFailedException{Message: new(string)}}

	err := newDynamoRepo(f).MarkChartGenerated(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
