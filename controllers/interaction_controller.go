package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"bloom_server/helpers"
	"bloom_server/middleware"
	"bloom_server/models"
	"bloom_server/services"
)

// InteractionController handles like/reject actions
type InteractionController struct {
	InteractionService *services.InteractionService
}

// NewInteractionController initializes the controller
func NewInteractionController(service *services.InteractionService) *InteractionController {
	return &InteractionController{InteractionService: service}
}

// HandleLikeUser - the caller likes another user
func (ic *InteractionController) HandleLikeUser(w http.ResponseWriter, r *http.Request) {
	user, targetID, ok := ic.decodeTarget(w, r)
	if !ok {
		return
	}

	log.Printf("💖 %s liked %s", user.ID, targetID)

	if err := ic.InteractionService.SaveInteraction(r.Context(), user.ID, targetID, models.InteractionLiked); err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to like user")
		return
	}

	mutual, err := ic.InteractionService.HasLiked(r.Context(), targetID, user.ID)
	if err != nil {
		log.Printf("⚠️ Mutual-like check failed: %v", err)
	}
	if mutual {
		helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"message": "It's a bloom!",
			"bloom":   true,
		})
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "User liked",
		"bloom":   false,
	})
}

// HandleRejectUser - the caller rejects another user
func (ic *InteractionController) HandleRejectUser(w http.ResponseWriter, r *http.Request) {
	user, targetID, ok := ic.decodeTarget(w, r)
	if !ok {
		return
	}

	log.Printf("💔 %s rejected %s", user.ID, targetID)

	if err := ic.InteractionService.SaveInteraction(r.Context(), user.ID, targetID, models.InteractionRejected); err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to reject user")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "success", "message": "User rejected"})
}

func (ic *InteractionController) decodeTarget(w http.ResponseWriter, r *http.Request) (models.User, string, bool) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return models.User{}, "", false
	}

	var request struct {
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.TargetUserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return models.User{}, "", false
	}
	if request.TargetUserID == user.ID {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Cannot interact with yourself")
		return models.User{}, "", false
	}

	return user, request.TargetUserID, true
}
