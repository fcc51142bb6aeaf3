package routes

import (
	"sparkd_server/controllers"
	"sparkd_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up the match-list route on the authenticated
// subrouter.
func RegisterMatchRoutes(api *mux.Router, matchService *services.MatchService, profileService *services.ProfileService) {
	controller := controllers.NewMatchController(matchService, profileService)

	api.HandleFunc("/matches", controller.HandleGetMatches).Methods("GET")
}
