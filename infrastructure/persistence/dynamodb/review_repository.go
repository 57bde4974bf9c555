// Package dynamodb implements the review store adapter against a managed
// DynamoDB table with a BookIdIndex secondary index.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookreviews-backend/application/ports"
	"bookreviews-backend/domain/review"
	apperrors "bookreviews-backend/pkg/errors"
)

// DefaultListLimit bounds a page when the caller does not provide a limit.
const DefaultListLimit = 100

// API is the slice of the DynamoDB client surface the repository uses.
// *dynamodb.Client satisfies it.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ReviewRepository implements ports.ReviewRepository using DynamoDB
type ReviewRepository struct {
	client        API
	tableName     string
	bookIndexName string
	logger        *zap.Logger
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(client API, tableName, bookIndexName string, logger *zap.Logger) *ReviewRepository {
	return &ReviewRepository{
		client:        client,
		tableName:     tableName,
		bookIndexName: bookIndexName,
		logger:        logger,
	}
}

// reviewItem represents the DynamoDB item structure for a review
type reviewItem struct {
	ID         string `dynamodbav:"id"`
	BookID     string `dynamodbav:"bookId"`
	BookTitle  string `dynamodbav:"bookTitle"`
	AuthorName string `dynamodbav:"authorName"`
	Rating     int    `dynamodbav:"rating"`
	ReviewText string `dynamodbav:"reviewText"`
	UserID     string `dynamodbav:"userId,omitempty"`
	Username   string `dynamodbav:"username,omitempty"`
	CreatedAt  string `dynamodbav:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt"`
}

func toItem(r review.Review) reviewItem {
	return reviewItem(r)
}

func fromItem(item reviewItem) review.Review {
	return review.Review(item)
}

// Create assigns a fresh id and timestamp pair and persists the full record.
func (repo *ReviewRepository) Create(ctx context.Context, r review.Review) (review.Review, error) {
	now := review.NowRFC3339()
	r.ID = uuid.New().String()
	r.CreatedAt = now
	r.UpdatedAt = now

	av, err := attributevalue.MarshalMap(toItem(r))
	if err != nil {
		return review.Review{}, apperrors.NewStorageError("create", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(repo.tableName),
		Item:      av,
	}

	if _, err := repo.client.PutItem(ctx, input); err != nil {
		repo.logger.Error("Failed to put review",
			zap.String("reviewID", r.ID),
			zap.Error(err),
		)
		return review.Review{}, apperrors.NewStorageError("create", err)
	}

	repo.logger.Debug("Review created",
		zap.String("reviewID", r.ID),
		zap.String("bookID", r.BookID),
	)

	return r, nil
}

// Get retrieves a review by id
func (repo *ReviewRepository) Get(ctx context.Context, id string) (review.Review, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(repo.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	}

	result, err := repo.client.GetItem(ctx, input)
	if err != nil {
		repo.logger.Error("Failed to get review",
			zap.String("reviewID", id),
			zap.Error(err),
		)
		return review.Review{}, apperrors.NewStorageError("get", err)
	}

	if len(result.Item) == 0 {
		return review.Review{}, apperrors.NewNotFoundError("review")
	}

	var item reviewItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return review.Review{}, apperrors.NewStorageError("get", err)
	}

	return fromItem(item), nil
}

// List returns up to page.Limit reviews in store-native order
func (repo *ReviewRepository) List(ctx context.Context, page ports.Page) (ports.ReviewPage, error) {
	startKey, err := DecodeCursor(page.Token)
	if err != nil {
		return ports.ReviewPage{}, apperrors.NewValidationError("invalid pagination token")
	}

	input := &dynamodb.ScanInput{
		TableName:         aws.String(repo.tableName),
		Limit:             aws.Int32(effectiveLimit(page.Limit)),
		ExclusiveStartKey: startKey,
	}

	result, err := repo.client.Scan(ctx, input)
	if err != nil {
		repo.logger.Error("Failed to scan reviews", zap.Error(err))
		return ports.ReviewPage{}, apperrors.NewStorageError("list", err)
	}

	reviews, err := unmarshalReviews(result.Items)
	if err != nil {
		return ports.ReviewPage{}, apperrors.NewStorageError("list", err)
	}

	return ports.ReviewPage{
		Reviews:   reviews,
		NextToken: EncodeCursor(result.LastEvaluatedKey),
	}, nil
}

// ListByBook returns reviews for a single bookId via the secondary index
func (repo *ReviewRepository) ListByBook(ctx context.Context, bookID string, page ports.Page) (ports.ReviewPage, error) {
	startKey, err := DecodeCursor(page.Token)
	if err != nil {
		return ports.ReviewPage{}, apperrors.NewValidationError("invalid pagination token")
	}

	keyCond := expression.Key("bookId").Equal(expression.Value(bookID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return ports.ReviewPage{}, apperrors.NewStorageError("listByBook", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(repo.tableName),
		IndexName:                 aws.String(repo.bookIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(effectiveLimit(page.Limit)),
		ExclusiveStartKey:         startKey,
	}

	result, err := repo.client.Query(ctx, input)
	if err != nil {
		repo.logger.Error("Failed to query reviews by book",
			zap.String("bookID", bookID),
			zap.Error(err),
		)
		return ports.ReviewPage{}, apperrors.NewStorageError("listByBook", err)
	}

	reviews, err := unmarshalReviews(result.Items)
	if err != nil {
		return ports.ReviewPage{}, apperrors.NewStorageError("listByBook", err)
	}

	return ports.ReviewPage{
		Reviews:   reviews,
		NextToken: EncodeCursor(result.LastEvaluatedKey),
	}, nil
}

// Update persists the merged record's mutable fields and refreshes updatedAt.
// The update expression enumerates a fixed field set; id and createdAt are
// never part of it.
func (repo *ReviewRepository) Update(ctx context.Context, id string, r review.Review) (review.Review, error) {
	upd := expression.
		Set(expression.Name("bookId"), expression.Value(r.BookID)).
		Set(expression.Name("bookTitle"), expression.Value(r.BookTitle)).
		Set(expression.Name("authorName"), expression.Value(r.AuthorName)).
		Set(expression.Name("rating"), expression.Value(r.Rating)).
		Set(expression.Name("reviewText"), expression.Value(r.ReviewText)).
		Set(expression.Name("updatedAt"), expression.Value(review.NowRFC3339()))
	if r.Username != "" {
		upd = upd.Set(expression.Name("username"), expression.Value(r.Username))
	}

	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		return review.Review{}, apperrors.NewStorageError("update", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(repo.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := repo.client.UpdateItem(ctx, input)
	if err != nil {
		repo.logger.Error("Failed to update review",
			zap.String("reviewID", id),
			zap.Error(err),
		)
		return review.Review{}, apperrors.NewStorageError("update", err)
	}

	var item reviewItem
	if err := attributevalue.UnmarshalMap(result.Attributes, &item); err != nil {
		return review.Review{}, apperrors.NewStorageError("update", err)
	}

	repo.logger.Debug("Review updated", zap.String("reviewID", id))

	return fromItem(item), nil
}

// Delete removes a review unconditionally. Deleting a missing id succeeds.
func (repo *ReviewRepository) Delete(ctx context.Context, id string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(repo.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	}

	if _, err := repo.client.DeleteItem(ctx, input); err != nil {
		repo.logger.Error("Failed to delete review",
			zap.String("reviewID", id),
			zap.Error(err),
		)
		return apperrors.NewStorageError("delete", err)
	}

	repo.logger.Debug("Review deleted", zap.String("reviewID", id))

	return nil
}

func effectiveLimit(limit int32) int32 {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func unmarshalReviews(items []map[string]types.AttributeValue) ([]review.Review, error) {
	reviews := make([]review.Review, 0, len(items))
	for _, raw := range items {
		var item reviewItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, err
		}
		reviews = append(reviews, fromItem(item))
	}
	return reviews, nil
}
