package models

// Interaction kinds (one decision per swipe)
const (
	InteractionKindLike      = "like"
	InteractionKindDislike   = "dislike"
	InteractionKindSuperlike = "superlike"
)

// Match statuses
const (
	MatchStatusPending    = "pending"
	MatchStatusMatched    = "matched"
	MatchStatusSuperliked = "superliked"
)

// Message kinds
const (
	MessageKindUser   = "user"
	MessageKindSystem = "system"
)

// Webhook event types
const (
	EventTypeMatch = "MATCH"
)

// Greeting task states
const (
	GreetingStatePending = "pending"
	GreetingStateSent    = "sent"
)

// ValidInteractionKind reports whether kind is one of the defined swipe kinds.
func ValidInteractionKind(kind string) bool {
	switch kind {
	case InteractionKindLike, InteractionKindDislike, InteractionKindSuperlike:
		return true
	}
	return false
}
