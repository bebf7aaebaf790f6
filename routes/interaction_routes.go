package routes

import (
	"bloom_server/controllers"
	"bloom_server/services"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up routes for like/reject actions under /api/interactions
func RegisterInteractionRoutes(r *mux.Router, interactionService *services.InteractionService, requireAuth mux.MiddlewareFunc) {
	controller := controllers.NewInteractionController(interactionService)

	interactionRouter := r.PathPrefix("/api/interactions").Subrouter()
	interactionRouter.Use(requireAuth)
	interactionRouter.HandleFunc("/like", controller.HandleLikeUser).Methods("POST")
	interactionRouter.HandleFunc("/reject", controller.HandleRejectUser).Methods("POST")
}
