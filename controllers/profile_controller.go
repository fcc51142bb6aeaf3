package controllers

import (
	"net/http"

	"sparkd_server/middleware"
	"sparkd_server/services"
)

// ProfileController handles the candidate feed and profile reads.
type ProfileController struct {
	ProfileService *services.ProfileService
}

// NewProfileController creates a new ProfileController instance
func NewProfileController(profileService *services.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// HandleGetCandidates returns the shuffled set of swipeable profiles for the
// authenticated user.
func (c *ProfileController) HandleGetCandidates(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)
	if uid == "" {
		writeError(w, services.ErrUnauthorized)
		return
	}

	candidates, err := c.ProfileService.GetCandidates(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, candidates)
}

// HandleGetProfile returns the authenticated user's own profile.
func (c *ProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)
	if uid == "" {
		writeError(w, services.ErrUnauthorized)
		return
	}

	profile, err := c.ProfileService.GetUserProfile(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
