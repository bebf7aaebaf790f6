package routes

import (
	"bloom_server/controllers"
	"bloom_server/services"

	"github.com/gorilla/mux"
)

// RegisterMediaRoutes sets up avatar upload/read URL routes under /api/media
func RegisterMediaRoutes(r *mux.Router, mediaService *services.MediaService, requireAuth mux.MiddlewareFunc) {
	controller := controllers.NewMediaController(mediaService)

	mediaRouter := r.PathPrefix("/api/media").Subrouter()
	mediaRouter.Use(requireAuth)
	mediaRouter.HandleFunc("/avatar-upload-url", controller.HandleAvatarUploadURL).Methods("POST")
	mediaRouter.HandleFunc("/avatar-read-url", controller.HandleAvatarReadURL).Methods("GET")
}
