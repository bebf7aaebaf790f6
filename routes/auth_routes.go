package routes

import (
	"bloom_server/controllers"
	"bloom_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up routes for login and email verification under /api/auth
func RegisterAuthRoutes(r *mux.Router, authService *services.AuthService, requireAuth mux.MiddlewareFunc) {
	controller := controllers.NewAuthController(authService)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/login", controller.HandleLogin).Methods("POST")
	authRouter.HandleFunc("/verify-email/{token}", controller.HandleVerifyEmail).Methods("GET")

	meRouter := r.PathPrefix("/api/auth").Subrouter()
	meRouter.Use(requireAuth)
	meRouter.HandleFunc("/me", controller.HandleMe).Methods("GET")
}
