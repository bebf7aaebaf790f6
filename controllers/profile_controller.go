package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bloom_server/helpers"
	"bloom_server/middleware"
	"bloom_server/models"
	"bloom_server/services"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 50
)

// ProfileController handles onboarding, the browse feed and notifications
type ProfileController struct {
	GenerateService     *services.GenerateService
	UserService         *services.UserService
	NotificationService *services.NotificationService
}

func NewProfileController(
	generateService *services.GenerateService,
	userService *services.UserService,
	notificationService *services.NotificationService,
) *ProfileController {
	return &ProfileController{
		GenerateService:     generateService,
		UserService:         userService,
		NotificationService: notificationService,
	}
}

// HandleSubmitAnswers stores the questionnaire and returns the generated blurb
func (pc *ProfileController) HandleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request struct {
		Answers []string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	submission, err := pc.GenerateService.SubmitAnswers(r.Context(), user, request.Answers)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAnswers) {
			helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to generate profile")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":      "Profile generated successfully",
		"poem":         submission.Poem,
		"submissionId": submission.UserID,
	})
}

// HandleUpdateProfile applies partial profile updates
func (pc *ProfileController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatarUrl"`
		Gender    string `json:"gender"`
		Bio       string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.Gender != "" && request.Gender != models.GenderMale && request.Gender != models.GenderFemale {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid gender")
		return
	}

	updates := map[string]string{}
	if request.Username != "" {
		updates["username"] = request.Username
	}
	if request.AvatarURL != "" {
		updates["avatarUrl"] = request.AvatarURL
	}
	if request.Gender != "" {
		updates["gender"] = request.Gender
	}
	if request.Bio != "" {
		updates["bio"] = request.Bio
	}

	updated, err := pc.UserService.UpdateUserProfile(r.Context(), user.ID, updates)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"user": updated})
}

// HandleGetSubmission returns the stored questionnaire and generated blurb
func (pc *ProfileController) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	submission, err := pc.GenerateService.GetSubmission(r.Context(), user.ID)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch submission")
		return
	}
	if submission == nil {
		helpers.WriteJSONError(w, http.StatusNotFound, "No submission yet")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"submission": submission})
}

// HandleHomeContent returns one page of the browse feed
func (pc *ProfileController) HandleHomeContent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor := r.URL.Query().Get("cursor")
	limit := int32(defaultFeedLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		if parsed > maxFeedLimit {
			parsed = maxFeedLimit
		}
		limit = int32(parsed)
	}

	profiles, nextCursor, err := pc.UserService.GetHomeFeed(r.Context(), user, cursor, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCursor) {
			helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid cursor")
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch home content")
		return
	}
	if profiles == nil {
		profiles = []models.User{}
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"profiles":   profiles,
		"nextCursor": nextCursor,
	})
}

// HandleNotifications returns the resonance/bloom panel
func (pc *ProfileController) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notifications, err := pc.NotificationService.GetNotifications(r.Context(), user.ID)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}
