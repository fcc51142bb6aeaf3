package routes

import (
	"sparkd_server/controllers"
	"sparkd_server/services"

	"github.com/gorilla/mux"
)

// RegisterWebhookRoutes sets up the match-event webhook. It lives outside
// the identity-token middleware; the controller checks the shared secret
// itself.
func RegisterWebhookRoutes(r *mux.Router, engagementService *services.EngagementService, secret string) {
	controller := controllers.NewWebhookController(engagementService, secret)

	r.HandleFunc("/webhook/match-event", controller.HandleMatchEvent).Methods("POST")
}
