package routes

import (
	"bloom_server/controllers"
	"bloom_server/services"

	"github.com/gorilla/mux"
)

// RegisterProfileRoutes sets up onboarding, feed and notification routes under /api/profile
func RegisterProfileRoutes(
	r *mux.Router,
	generateService *services.GenerateService,
	userService *services.UserService,
	notificationService *services.NotificationService,
	requireAuth mux.MiddlewareFunc,
) {
	controller := controllers.NewProfileController(generateService, userService, notificationService)

	profileRouter := r.PathPrefix("/api/profile").Subrouter()
	profileRouter.Use(requireAuth)
	profileRouter.HandleFunc("/submit-answers", controller.HandleSubmitAnswers).Methods("POST")
	profileRouter.HandleFunc("/submission", controller.HandleGetSubmission).Methods("GET")
	profileRouter.HandleFunc("/update", controller.HandleUpdateProfile).Methods("PATCH")
	profileRouter.HandleFunc("/home-content", controller.HandleHomeContent).Methods("GET")
	profileRouter.HandleFunc("/notifications", controller.HandleNotifications).Methods("GET")
}
