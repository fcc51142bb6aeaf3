package models

// MatchWithProfile is the match-list view: the caller's summary of one match
// enriched with the partner's profile card.
type MatchWithProfile struct {
	MatchSummary
	Partner *UserProfile `json:"partner,omitempty"`
}
