package routes

import (
	"sparkd_server/controllers"
	"sparkd_server/services"

	"github.com/gorilla/mux"
)

// RegisterProfileRoutes sets up the candidate feed and profile routes on the
// authenticated subrouter.
func RegisterProfileRoutes(api *mux.Router, profileService *services.ProfileService) {
	controller := controllers.NewProfileController(profileService)

	api.HandleFunc("/candidates", controller.HandleGetCandidates).Methods("GET")
	api.HandleFunc("/profile", controller.HandleGetProfile).Methods("GET")
}
