package models

import (
	"sort"
	"strings"
)

type Match struct {
	MatchID      string   `dynamodbav:"matchId" json:"matchId"` // MatchKey of the pair
	Participants []string `dynamodbav:"participants" json:"participants"`
	InitiatorID  string   `dynamodbav:"initiatorId,omitempty" json:"initiatorId,omitempty"` // the liker while pending
	Status       string   `dynamodbav:"status" json:"status"`                               // pending, matched, superliked
	CreatedAt    string   `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// MatchKey derives the deterministic match identifier for an unordered pair
// of users, so both participants address the same record.
func MatchKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// OtherParticipant returns the participant that is not uid, or "" when uid is
// not part of the match.
func (m *Match) OtherParticipant(uid string) string {
	for _, p := range m.Participants {
		if p != uid {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether uid is one of the match participants.
func (m *Match) HasParticipant(uid string) bool {
	for _, p := range m.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// Terminal reports whether the match has reached a state rewind may not undo.
func (m *Match) Terminal() bool {
	return m.Status == MatchStatusMatched || m.Status == MatchStatusSuperliked
}
