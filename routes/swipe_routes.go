package routes

import (
	"sparkd_server/controllers"
	"sparkd_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes sets up swipe and rewind routes on the authenticated
// subrouter.
func RegisterSwipeRoutes(api *mux.Router, interactionService *services.InteractionService, rewindService *services.RewindService) {
	controller := controllers.NewSwipeController(interactionService, rewindService)

	api.HandleFunc("/swipe", controller.HandleSwipe).Methods("POST")
	api.HandleFunc("/rewind", controller.HandleRewind).Methods("POST")
}
