package services

import (
	"context"
	"log"

	"bloom_server/models"
)

// NotificationService builds the notifications panel: likes received
// (resonance) and mutual likes (bloom).
type NotificationService struct {
	Interactions *InteractionService
	Users        *UserService
}

func (ns *NotificationService) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	likes, err := ns.Interactions.GetLikesReceived(ctx, userID)
	if err != nil {
		return nil, err
	}

	notifications := []models.Notification{}
	for _, like := range likes {
		sender, err := ns.Users.GetUserByID(ctx, like.FromUserID)
		if err != nil {
			// Skip entries whose sender can no longer be resolved
			log.Printf("⚠️ Skipping notification from %s: %v", like.FromUserID, err)
			continue
		}

		kind := models.NotificationResonance
		mutual, err := ns.Interactions.HasLiked(ctx, userID, like.FromUserID)
		if err != nil {
			log.Printf("⚠️ Mutual-like check failed for %s: %v", like.FromUserID, err)
		} else if mutual {
			kind = models.NotificationBloom
		}

		notifications = append(notifications, models.Notification{
			Type:       kind,
			FromUserID: sender.ID,
			Username:   sender.Username,
			AvatarURL:  sender.AvatarURL,
			CreatedAt:  like.CreatedAt,
		})
	}

	return notifications, nil
}
