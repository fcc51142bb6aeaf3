package services

import (
	"context"
	"errors"
	"log"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RewindOutcome describes the result of a rewind attempt.
type RewindOutcome string

const (
	OutcomeReverted RewindOutcome = "reverted"
	OutcomeNoop     RewindOutcome = "noop"
)

// RewindService reverses an unresolved swipe. Only a pending match opened by
// the caller is reversible; anything terminal is untouchable, so a rewind can
// never undo a real match.
type RewindService struct {
	Dynamo  *DynamoService
	Matches *MatchService
	Cache   *ExclusionCache
}

// Rewind deletes the caller's pending match and the interaction that opened
// it in one transaction, restoring the target's candidacy. Every path that
// cannot revert is a safe noop, never an error.
func (rs *RewindService) Rewind(ctx context.Context, uid, matchID string) (RewindOutcome, error) {
	if uid == "" || matchID == "" {
		return OutcomeNoop, ErrInvalidInput
	}

	match, err := rs.Matches.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return OutcomeNoop, nil
		}
		return OutcomeNoop, err
	}

	if match.Terminal() || match.InitiatorID != uid || !match.HasParticipant(uid) {
		return OutcomeNoop, nil
	}

	targetID := match.OtherParticipant(uid)

	matchesTable := models.MatchesTable
	interactionsTable := models.InteractionsTable
	condition := "#status = :pending"

	err = rs.Dynamo.TransactWrite(ctx,
		types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: &matchesTable,
				Key: map[string]types.AttributeValue{
					"matchId": &types.AttributeValueMemberS{Value: matchID},
				},
				// Re-checked inside the transaction: a concurrent swipe may
				// have promoted the match since the read above.
				ConditionExpression:      &condition,
				ExpressionAttributeNames: map[string]string{"#status": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pending": &types.AttributeValueMemberS{Value: models.MatchStatusPending},
				},
			},
		},
		types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: &interactionsTable,
				Key: map[string]types.AttributeValue{
					"actorId":  &types.AttributeValueMemberS{Value: uid},
					"targetId": &types.AttributeValueMemberS{Value: targetID},
				},
			},
		},
	)
	if err != nil {
		if IsTransactionCanceled(err) {
			log.Printf("⚠️ Rewind raced a promotion on %s, leaving match intact", matchID)
			return OutcomeNoop, nil
		}
		return OutcomeNoop, err
	}

	rs.Cache.Invalidate(ctx, uid)
	log.Printf("↩️ Rewound %s -> %s (match %s)", uid, targetID, matchID)
	return OutcomeReverted, nil
}
