package services

import (
	"context"
	"log"
	"time"

	"sparkd_server/models"
)

// InteractionService durably records swipe decisions, exactly one per
// (actor, target) pair. It is the single serialization point for duplicate
// prevention: the insert is conditional on the composite key being absent, so
// concurrent double-submits leave one stored interaction and one conflict.
type InteractionService struct {
	Dynamo  *DynamoService
	Matches *MatchService
	Cache   *ExclusionCache
}

// SwipeResult reports what a recorded swipe did to match state.
type SwipeResult struct {
	Interaction models.Interaction
	Outcome     MatchOutcome
	Match       *models.Match
}

// RecordInteraction stores one decision and synchronously resolves match
// state. A repeated swipe on the same target returns ErrAlreadyInteracted
// and leaves storage unchanged.
func (s *InteractionService) RecordInteraction(ctx context.Context, actorID, targetID, kind string) (*SwipeResult, error) {
	if actorID == "" || targetID == "" {
		return nil, ErrInvalidInput
	}
	if actorID == targetID {
		return nil, ErrSelfSwipe
	}
	if !models.ValidInteractionKind(kind) {
		return nil, ErrInvalidInput
	}

	interaction := models.Interaction{
		ActorID:   actorID,
		TargetID:  targetID,
		Kind:      kind,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.Dynamo.PutItemIfAbsent(ctx, models.InteractionsTable, interaction, "actorId"); err != nil {
		if IsConditionalCheckFailed(err) {
			log.Printf("⚠️ Duplicate swipe: %s -> %s", actorID, targetID)
			return nil, ErrAlreadyInteracted
		}
		return nil, err
	}

	log.Printf("✅ Interaction saved: %s -> %s (%s)", actorID, targetID, kind)
	s.Cache.Invalidate(ctx, actorID)

	result := &SwipeResult{Interaction: interaction, Outcome: OutcomeUnchanged}

	outcome, match, err := s.Matches.Resolve(ctx, interaction)
	if err != nil {
		// The decision is recorded; a failed resolution is retried by the
		// counterpart's next swipe rather than unwinding the interaction.
		log.Printf("❌ Match resolution failed for %s -> %s: %v", actorID, targetID, err)
		return result, nil
	}

	result.Outcome = outcome
	result.Match = match
	return result, nil
}
