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

// AuthController handles login-link and session endpoints
type AuthController struct {
	AuthService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// HandleLogin sends the login link to a campus email
func (ac *AuthController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := ac.AuthService.LoginUser(r.Context(), request.Email); err != nil {
		if errors.Is(err, services.ErrInvalidCampusEmail) {
			helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to send login email")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Login email sent successfully"})
}

// HandleVerifyEmail redeems a login-link token and starts a session
func (ac *AuthController) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	user, sessionToken, err := ac.AuthService.VerifyEmail(r.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to verify email")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
	})

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Email verified successfully",
		"user":    user,
		"token":   sessionToken,
	})
}

// HandleMe returns the authenticated account
func (ac *AuthController) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"user": user})
}
