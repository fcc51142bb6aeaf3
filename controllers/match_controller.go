package controllers

import (
	"net/http"

	"sparkd_server/middleware"
	"sparkd_server/services"
)

// MatchController serves the authenticated user's match list.
type MatchController struct {
	MatchService   *services.MatchService
	ProfileService *services.ProfileService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, profileService *services.ProfileService) *MatchController {
	return &MatchController{MatchService: matchService, ProfileService: profileService}
}

// HandleGetMatches returns the caller's matches with summaries and partner
// profiles.
func (c *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)
	if uid == "" {
		writeError(w, services.ErrUnauthorized)
		return
	}

	matches, err := c.MatchService.GetMatchesForUser(r.Context(), uid, c.ProfileService)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}
