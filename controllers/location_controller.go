package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bloom_server/helpers"
	"bloom_server/middleware"
	"bloom_server/services"

	"github.com/gorilla/mux"
)

// LocationController handles location updates and signal checks
type LocationController struct {
	SignalService *services.SignalService
}

// NewLocationController creates a new LocationController instance
func NewLocationController(signalService *services.SignalService) *LocationController {
	return &LocationController{SignalService: signalService}
}

// HandleUpdateLocation records the caller's current coordinate
func (lc *LocationController) HandleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Lat == nil || request.Lng == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	if err := lc.SignalService.UpdateLocation(user.ID, *request.Lat, *request.Lng); err != nil {
		if errors.Is(err, services.ErrInvalidCoordinates) {
			helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to update location")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Location updated"})
}

// HandleCheckSignals runs the signal funnel for the caller
func (lc *LocationController) HandleCheckSignals(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	signals, err := lc.SignalService.CheckLiveSignals(r.Context(), user)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to check signals")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"signals": signals})
}

// HandleGetSignalScore resolves the score for one viewer/candidate pair
func (lc *LocationController) HandleGetSignalScore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otherUserID := mux.Vars(r)["otherUserId"]
	if otherUserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "otherUserId is required")
		return
	}

	score, err := lc.SignalService.GetSignalScore(r.Context(), user.ID, otherUserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch signal score")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]float64{"score": score})
}
