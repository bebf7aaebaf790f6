package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"bloom_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCursor is returned for a feed cursor that cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor")
)

type UserService struct {
	Dynamo *DynamoService
}

// CreateUser registers a new unverified account for a campus email.
func (us *UserService) CreateUser(ctx context.Context, email, rollNumber string) (*models.User, error) {
	user := models.User{
		ID:         uuid.NewString(),
		Email:      email,
		RollNumber: rollNumber,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	if err := us.Dynamo.PutItem(ctx, models.UsersTable, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user record; ErrUserNotFound when absent.
func (us *UserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := us.Dynamo.GetItem(ctx, models.UsersTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks a user up through the email GSI; nil when absent.
func (us *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	expressionValues := map[string]types.AttributeValue{
		":email": &types.AttributeValueMemberS{Value: email},
	}

	items, err := us.Dynamo.QueryItemsWithIndex(ctx, models.UsersTable, models.EmailIndex,
		"email = :email", expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// MarkVerified flips the verified flag after a successful email check.
func (us *UserService) MarkVerified(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	_, err := us.Dynamo.UpdateItem(ctx, models.UsersTable, "SET verified = :v", key,
		map[string]types.AttributeValue{":v": &types.AttributeValueMemberBOOL{Value: true}}, nil)
	return err
}

// UpdateUserProfile applies string-field updates (username, avatarUrl,
// gender, bio) and returns the new profile.
func (us *UserService) UpdateUserProfile(ctx context.Context, userID string, updates map[string]string) (*models.User, error) {
	if len(updates) == 0 {
		return us.GetUserByID(ctx, userID)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for field, value := range updates {
		placeholder := ":" + field
		attributeName := "#" + field
		updateExpression += " " + attributeName + " = " + placeholder + ","

		expressionAttributeValues[placeholder] = &types.AttributeValueMemberS{Value: value}
		expressionAttributeNames[attributeName] = field
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := us.Dynamo.UpdateItem(ctx, models.UsersTable, updateExpression, key,
		expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(updatedItem, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated user: %w", err)
	}
	return &user, nil
}

// FindUsersByIDsAndGender fetches the given users and keeps only those whose
// declared gender differs from excludedGender. Users without a declared
// gender are dropped; they cannot be scored.
func (us *UserService) FindUsersByIDsAndGender(ctx context.Context, ids []string, excludedGender string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := us.Dynamo.BatchGetItems(ctx, models.UsersTable, "userId", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate profiles: %w", err)
	}

	var users []models.User
	for _, item := range items {
		var user models.User
		if err := attributevalue.UnmarshalMap(item, &user); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
		if user.Gender != "" && user.Gender != excludedGender {
			users = append(users, user)
		}
	}
	return users, nil
}

// GetHomeFeed returns one page of verified, opposite-gender profiles for the
// browse feed, with an opaque cursor for the next page.
func (us *UserService) GetHomeFeed(ctx context.Context, viewer models.User, cursor string, limit int32) ([]models.User, string, error) {
	var startKey map[string]types.AttributeValue
	if cursor != "" {
		decoded, err := base64.URLEncoding.DecodeString(cursor)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
		startKey = map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: string(decoded)},
		}
	}

	filterExpression := "#gender <> :gender AND verified = :verified AND userId <> :me"
	expressionValues := map[string]types.AttributeValue{
		":gender":   &types.AttributeValueMemberS{Value: viewer.Gender},
		":verified": &types.AttributeValueMemberBOOL{Value: true},
		":me":       &types.AttributeValueMemberS{Value: viewer.ID},
	}
	expressionNames := map[string]string{"#gender": "gender"}

	items, lastKey, err := us.Dynamo.ScanPage(ctx, models.UsersTable, limit, startKey,
		filterExpression, expressionValues, expressionNames)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch home feed: %w", err)
	}

	var users []models.User
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal feed page: %w", err)
	}

	nextCursor := ""
	if lastKey != nil {
		if id, ok := lastKey["userId"].(*types.AttributeValueMemberS); ok {
			nextCursor = base64.URLEncoding.EncodeToString([]byte(id.Value))
		}
	}

	return users, nextCursor, nil
}
