package profileRepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/storage/dynamo"
	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/lazy"
	ports "github.com/ErdunE/mira-astrology-companion/internal/ports/repository"
)

// DynamoRepository профили в таблице DynamoDB, ключ партиции user_id
type DynamoRepository struct {
	client *lazy.Handle[dynamo.API]
	table  string
	Log    *slog.Logger
}

// NewDynamo создаёт репозиторий, клиент поднимается при первом обращении
func NewDynamo(client *lazy.Handle[dynamo.API], table string, log *slog.Logger) ports.IProfileRepo {
	return &DynamoRepository{
		client: client,
		table:  table,
		Log:    log,
	}
}

// Put перезаписывает профиль целиком
func (r *DynamoRepository) Put(ctx context.Context, profile *domain.UserProfile) error {
	item, err := attributevalue.MarshalMap(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	client, err := r.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		r.Log.Error("failed to put profile",
			"error", err,
			"user_id", profile.UserID,
			"table", r.table)
		return classifyDynamo(err, "failed to put profile")
	}

	r.Log.Debug("profile saved", "user_id", profile.UserID, "table", r.table)
	return nil
}

func (r *DynamoRepository) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	client, err := r.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       userKey(userID),
	})
	if err != nil {
		r.Log.Error("failed to get profile", "error", err, "user_id", userID)
		return nil, classifyDynamo(err, "failed to get profile")
	}

	if len(out.Item) == 0 {
		return nil, domain.ErrProfileNotFound
	}

	var profile domain.UserProfile
	if err := attributevalue.UnmarshalMap(out.Item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// MarkChartGenerated отмечает, что карта рассчитана и сохранена
func (r *DynamoRepository) MarkChartGenerated(ctx context.Context, userID string, at int64) error {
	client, err := r.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 userKey(userID),
		UpdateExpression:    aws.String("SET chart_generated = :generated, last_chart_generated_at = :at, updated_at = :at"),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":generated": &types.AttributeValueMemberBOOL{Value: true},
			":at":        &types.AttributeValueMemberN{Value: strconv.FormatInt(at, 10)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return domain.ErrProfileNotFound
		}
		r.Log.Error("failed to mark chart generated", "error", err, "user_id", userID)
		return classifyDynamo(err, "failed to mark chart generated")
	}

	return nil
}

func (r *DynamoRepository) Ping(ctx context.Context) error {
	client, err := r.getClient(ctx)
	if err != nil {
		return err
	}

	if _, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)}); err != nil {
		return classifyDynamo(err, "failed to describe table")
	}
	return nil
}

const msgStoreUnavailable = "profile store unavailable"

func (r *DynamoRepository) getClient(ctx context.Context) (dynamo.API, error) {
	client, err := r.client.Get(ctx)
	if err != nil {
		r.Log.Error("failed to init dynamodb client", "error", err)
		// текст ошибки конфигурации наружу не отдаём, он есть в логе
		return nil, &domain.StoreError{
			Code:    "ClientInitError",
			Message: msgStoreUnavailable,
			Err:     err,
		}
	}
	return client, nil
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id": &types.AttributeValueMemberS{Value: userID},
	}
}

// classifyDynamo ошибки сервиса становятся StoreError, остальное остаётся неклассифицированным
func classifyDynamo(err error, op string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &domain.StoreError{
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
