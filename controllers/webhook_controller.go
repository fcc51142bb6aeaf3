package controllers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"sparkd_server/models"
	"sparkd_server/services"
)

// WebhookController receives match-event callbacks from the notification
// transport. Delivery is at-least-once, so the handler must stay idempotent;
// it only validates and durably queues, all delay happens in the worker.
type WebhookController struct {
	EngagementService *services.EngagementService
	Secret            string
}

// NewWebhookController creates a new WebhookController instance
func NewWebhookController(engagementService *services.EngagementService, secret string) *WebhookController {
	return &WebhookController{EngagementService: engagementService, Secret: secret}
}

// HandleMatchEvent processes one POST /webhook/match-event callback.
func (c *WebhookController) HandleMatchEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	if !c.authorized(r.Header.Get("Authorization")) {
		writeError(w, services.ErrUnauthorized)
		return
	}

	var request struct {
		MatchID string `json:"matchId"`
		Type    string `json:"type"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, services.ErrInvalidInput)
		return
	}
	if request.MatchID == "" || request.Type == "" || request.UserID == "" {
		writeError(w, services.ErrInvalidInput)
		return
	}
	if request.Type != models.EventTypeMatch {
		writeError(w, services.ErrInvalidInput)
		return
	}

	if err := c.EngagementService.HandleMatchEvent(r.Context(), request.MatchID, request.Type, request.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"accepted": true})
}

func (c *WebhookController) authorized(header string) bool {
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	provided := strings.TrimPrefix(header, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(provided), []byte(c.Secret)) == 1
}
