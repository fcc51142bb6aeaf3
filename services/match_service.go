package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchOutcome describes what resolving one interaction did to match state.
type MatchOutcome string

const (
	OutcomeCreated   MatchOutcome = "created"
	OutcomePromoted  MatchOutcome = "promoted"
	OutcomeUnchanged MatchOutcome = "unchanged"
)

// MatchEvent is handed to the notification transport when a match is created
// or promoted.
type MatchEvent struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
	Status       string   `json:"status"`
}

// Notifier is the outbound notification transport. Implementations must not
// block; a nil Notifier drops events.
type Notifier interface {
	NotifyMatch(event MatchEvent)
	NotifyMessage(message models.Message)
}

type MatchService struct {
	Dynamo   *DynamoService
	Notifier Notifier
}

// GetMatch retrieves a match by its pair key.
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// Resolve evaluates one freshly recorded interaction against match state.
// Reciprocity promotes a pending match; a superlike matches instantly; a
// swipe on an already-matched pair is a safe no-op. Safe to call with either
// participant concurrently: creation and promotion are both guarded by
// conditional writes.
func (ms *MatchService) Resolve(ctx context.Context, interaction models.Interaction) (MatchOutcome, *models.Match, error) {
	if interaction.Kind == models.InteractionKindDislike {
		return OutcomeUnchanged, nil, nil
	}

	matchID := models.MatchKey(interaction.ActorID, interaction.TargetID)

	existing, err := ms.GetMatch(ctx, matchID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return OutcomeUnchanged, nil, err
	}

	if existing == nil {
		match, err := ms.createMatch(ctx, matchID, interaction)
		if err == nil {
			return OutcomeCreated, match, nil
		}
		if !IsConditionalCheckFailed(err) && !IsTransactionCanceled(err) {
			return OutcomeUnchanged, nil, err
		}
		// Lost the creation race; fall through against the winner's record.
		existing, err = ms.GetMatch(ctx, matchID)
		if err != nil {
			return OutcomeUnchanged, nil, err
		}
	}

	if existing.Terminal() {
		return OutcomeUnchanged, existing, nil
	}

	if existing.InitiatorID == interaction.ActorID {
		// The pending like already belongs to this actor.
		return OutcomeUnchanged, existing, nil
	}

	promoted, err := ms.promoteMatch(ctx, existing)
	if err != nil {
		if IsTransactionCanceled(err) {
			// Promoted concurrently by the other side's swipe.
			current, gerr := ms.GetMatch(ctx, existing.MatchID)
			if gerr != nil {
				return OutcomeUnchanged, nil, gerr
			}
			return OutcomeUnchanged, current, nil
		}
		return OutcomeUnchanged, nil, err
	}

	return OutcomePromoted, promoted, nil
}

// createMatch writes the first match record for a pair. A like opens a
// pending match with a single conditional put; a superlike matches instantly,
// so the match and both participants' summaries land in one transaction.
func (ms *MatchService) createMatch(ctx context.Context, matchID string, interaction models.Interaction) (*models.Match, error) {
	participants := []string{interaction.ActorID, interaction.TargetID}
	sort.Strings(participants)

	match := models.Match{
		MatchID:      matchID,
		Participants: participants,
		InitiatorID:  interaction.ActorID,
		Status:       models.MatchStatusPending,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if interaction.Kind == models.InteractionKindSuperlike {
		match.Status = models.MatchStatusSuperliked
		if err := ms.writeTerminalMatch(ctx, &match, true); err != nil {
			return nil, err
		}
		log.Printf("🎉 Superlike match created: %s", matchID)
		ms.emit(&match)
		return &match, nil
	}

	if err := ms.Dynamo.PutItemIfAbsent(ctx, models.MatchesTable, match, "matchId"); err != nil {
		return nil, err
	}
	log.Printf("💖 Pending match opened by %s: %s", interaction.ActorID, matchID)
	return &match, nil
}

// promoteMatch flips a pending match to matched, conditioned on it still
// being pending, and writes both summaries in the same transaction.
func (ms *MatchService) promoteMatch(ctx context.Context, match *models.Match) (*models.Match, error) {
	promoted := *match
	promoted.Status = models.MatchStatusMatched

	if err := ms.writeTerminalMatch(ctx, &promoted, false); err != nil {
		return nil, err
	}

	log.Printf("🎉 Match promoted: %s", match.MatchID)
	ms.emit(&promoted)
	return &promoted, nil
}

// writeTerminalMatch commits a matched/superliked record together with both
// participants' summaries, all-or-nothing. fresh distinguishes first write
// (guarded against concurrent creation) from promotion (guarded against the
// record having left pending).
func (ms *MatchService) writeTerminalMatch(ctx context.Context, match *models.Match, fresh bool) error {
	matchItem, err := attributevalue.MarshalMap(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	table := models.MatchesTable
	put := &types.Put{
		TableName: &table,
		Item:      matchItem,
	}
	if fresh {
		condition := "attribute_not_exists(matchId)"
		put.ConditionExpression = &condition
	} else {
		condition := "#status = :pending"
		put.ConditionExpression = &condition
		put.ExpressionAttributeNames = map[string]string{"#status": "status"}
		put.ExpressionAttributeValues = map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: models.MatchStatusPending},
		}
	}

	items := []types.TransactWriteItem{{Put: put}}

	for _, uid := range match.Participants {
		summary := models.MatchSummary{
			UserID:    uid,
			MatchID:   match.MatchID,
			PartnerID: match.OtherParticipant(uid),
			Status:    match.Status,
		}
		summaryItem, err := attributevalue.MarshalMap(summary)
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		summariesTable := models.MatchSummariesTable
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: &summariesTable,
				Item:      summaryItem,
			},
		})
	}

	return ms.Dynamo.TransactWrite(ctx, items...)
}

// GetMatchesForUser returns the caller's match list from their summaries,
// enriched with partner profiles.
func (ms *MatchService) GetMatchesForUser(ctx context.Context, uid string, profiles *ProfileService) ([]models.MatchWithProfile, error) {
	keyCondition := "userId = :uid"
	expressionValues := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: uid},
	}

	items, err := ms.Dynamo.QueryItems(ctx, models.MatchSummariesTable, keyCondition, expressionValues, nil, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match summaries for %s: %w", uid, err)
	}

	var summaries []models.MatchSummary
	if err := attributevalue.UnmarshalListOfMaps(items, &summaries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match summaries: %w", err)
	}

	matches := make([]models.MatchWithProfile, 0, len(summaries))
	for _, summary := range summaries {
		entry := models.MatchWithProfile{MatchSummary: summary}
		partner, err := profiles.GetUserProfile(ctx, summary.PartnerID)
		if err != nil {
			log.Printf("⚠️ Partner profile %s missing for match %s: %v", summary.PartnerID, summary.MatchID, err)
		} else {
			entry.Partner = partner
		}
		matches = append(matches, entry)
	}

	return matches, nil
}

func (ms *MatchService) emit(match *models.Match) {
	if ms.Notifier == nil {
		return
	}
	ms.Notifier.NotifyMatch(MatchEvent{
		MatchID:      match.MatchID,
		Participants: match.Participants,
		Status:       match.Status,
	})
}
