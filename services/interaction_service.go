package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bloom_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type InteractionService struct {
	Dynamo *DynamoService
}

// SaveInteraction stores a directed interaction (LIKED or REJECTED).
// Repeating an action on the same pair overwrites the previous state.
func (s *InteractionService) SaveInteraction(ctx context.Context, fromUserID, toUserID, state string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	interaction := models.Interaction{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		State:      state,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Dynamo.PutItem(ctx, models.InteractionsTable, interaction); err != nil {
		log.Printf("❌ Failed to save interaction: %v", err)
		return err
	}

	log.Printf("✅ Interaction saved: %s -> %s (%s)", fromUserID, toUserID, state)
	return nil
}

// HasLiked reports whether fromUserID has a LIKED row toward toUserID.
func (s *InteractionService) HasLiked(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	key := map[string]types.AttributeValue{
		"fromUserId": &types.AttributeValueMemberS{Value: fromUserID},
		"toUserId":   &types.AttributeValueMemberS{Value: toUserID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.InteractionsTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var interaction models.Interaction
	if err := attributevalue.UnmarshalMap(item, &interaction); err != nil {
		return false, fmt.Errorf("failed to unmarshal interaction: %w", err)
	}
	return interaction.State == models.InteractionLiked, nil
}

// FindInteractionsBetween returns every interaction row where the viewer
// appears on either side and the other side is one of the candidates.
func (s *InteractionService) FindInteractionsBetween(ctx context.Context, viewerID string, candidateIDs []string) ([]models.Interaction, error) {
	candidates := make(map[string]struct{}, len(candidateIDs))
	for _, id := range candidateIDs {
		candidates[id] = struct{}{}
	}

	expressionValues := map[string]types.AttributeValue{
		":viewer": &types.AttributeValueMemberS{Value: viewerID},
	}

	// Viewer on the from side. Both queries are drained to the last page;
	// a truncated result would let a previously rejected candidate back in.
	fromItems, err := s.Dynamo.QueryAllItems(ctx, models.InteractionsTable,
		"fromUserId = :viewer", expressionValues, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions from viewer: %w", err)
	}

	// Viewer on the to side, via the GSI
	toItems, err := s.Dynamo.QueryAllItemsWithIndex(ctx, models.InteractionsTable, models.ToUserIndex,
		"toUserId = :viewer", expressionValues, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions toward viewer: %w", err)
	}

	var rows []models.Interaction
	for _, item := range append(fromItems, toItems...) {
		var interaction models.Interaction
		if err := attributevalue.UnmarshalMap(item, &interaction); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interaction: %w", err)
		}

		other := interaction.ToUserID
		if other == viewerID {
			other = interaction.FromUserID
		}
		if _, ok := candidates[other]; ok {
			rows = append(rows, interaction)
		}
	}

	return rows, nil
}

// GetLikesReceived returns the LIKED rows directed at the user, for the
// notifications panel.
func (s *InteractionService) GetLikesReceived(ctx context.Context, userID string) ([]models.Interaction, error) {
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryAllItemsWithIndex(ctx, models.InteractionsTable, models.ToUserIndex,
		"toUserId = :user", expressionValues, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch likes for %s: %w", userID, err)
	}

	var likes []models.Interaction
	for _, item := range items {
		var interaction models.Interaction
		if err := attributevalue.UnmarshalMap(item, &interaction); err != nil {
			log.Printf("❌ Error unmarshalling interaction: %v", err)
			continue
		}
		if interaction.State == models.InteractionLiked {
			likes = append(likes, interaction)
		}
	}
	return likes, nil
}
