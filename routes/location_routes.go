package routes

import (
	"bloom_server/controllers"
	"bloom_server/services"

	"github.com/gorilla/mux"
)

// RegisterLocationRoutes sets up routes for location updates and signal checks under /api/location
func RegisterLocationRoutes(r *mux.Router, signalService *services.SignalService, requireAuth mux.MiddlewareFunc) {
	controller := controllers.NewLocationController(signalService)

	locationRouter := r.PathPrefix("/api/location").Subrouter()
	locationRouter.Use(requireAuth)
	locationRouter.HandleFunc("/update", controller.HandleUpdateLocation).Methods("POST")
	locationRouter.HandleFunc("/signal/check", controller.HandleCheckSignals).Methods("POST")
	locationRouter.HandleFunc("/signal/score/{otherUserId}", controller.HandleGetSignalScore).Methods("GET")
}
