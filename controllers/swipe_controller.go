package controllers

import (
	"encoding/json"
	"net/http"

	"sparkd_server/middleware"
	"sparkd_server/services"
)

// SwipeController handles swipe and rewind requests.
type SwipeController struct {
	InteractionService *services.InteractionService
	RewindService      *services.RewindService
}

// NewSwipeController creates a new SwipeController instance
func NewSwipeController(interactionService *services.InteractionService, rewindService *services.RewindService) *SwipeController {
	return &SwipeController{InteractionService: interactionService, RewindService: rewindService}
}

// HandleSwipe records one like/dislike/superlike decision. A repeated swipe
// on the same target is a 409; the client should treat it as already
// recorded.
func (c *SwipeController) HandleSwipe(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)
	if uid == "" {
		writeError(w, services.ErrUnauthorized)
		return
	}

	var request struct {
		TargetID string `json:"targetId"`
		Kind     string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, services.ErrInvalidInput)
		return
	}

	result, err := c.InteractionService.RecordInteraction(r.Context(), uid, request.TargetID, request.Kind)
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]interface{}{
		"matchCreated": result.Outcome == services.OutcomePromoted ||
			(result.Match != nil && result.Match.Terminal()),
		"status": "none",
	}
	if result.Match != nil {
		response["status"] = result.Match.Status
		response["matchId"] = result.Match.MatchID
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleRewind reverses the caller's unresolved swipe on a pending match.
// Anything non-revertible answers {"reverted": false}, never an error.
func (c *SwipeController) HandleRewind(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)
	if uid == "" {
		writeError(w, services.ErrUnauthorized)
		return
	}

	var request struct {
		MatchID string `json:"matchId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" {
		writeError(w, services.ErrInvalidInput)
		return
	}

	outcome, err := c.RewindService.Rewind(r.Context(), uid, request.MatchID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"reverted": outcome == services.OutcomeReverted})
}
