package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"sparkd_server/models"
)

// EngagementService reacts to match-created webhook events involving a bot
// account. It never delivers inline: it durably queues a GreetingTask with a
// randomized deliver-at, and the GreetingWorker sends the message later. The
// task insert is conditional on the matchId, so webhook redelivery is a
// no-op.
type EngagementService struct {
	Dynamo   *DynamoService
	Matches  *MatchService
	Chat     *ChatService
	Profiles *ProfileService
	MinDelay time.Duration
	MaxDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngagementService wires the service with its delay window and
// randomness source.
func NewEngagementService(dynamo *DynamoService, matches *MatchService, chat *ChatService, profiles *ProfileService, minDelay, maxDelay time.Duration, rng *rand.Rand) *EngagementService {
	return &EngagementService{
		Dynamo:   dynamo,
		Matches:  matches,
		Chat:     chat,
		Profiles: profiles,
		MinDelay: minDelay,
		MaxDelay: maxDelay,
		rng:      rng,
	}
}

// HandleMatchEvent processes one match-created event. Validation failures are
// errors; a match that cannot be resolved to a bot counterpart is logged and
// dropped, since a missing greeting degrades the experience but corrupts
// nothing.
func (es *EngagementService) HandleMatchEvent(ctx context.Context, matchID, eventType, userID string) error {
	if matchID == "" || userID == "" || eventType == "" {
		return ErrInvalidInput
	}
	if eventType != models.EventTypeMatch {
		return ErrInvalidInput
	}

	match, err := es.Matches.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("⚠️ Match %s not found for greeting event, dropping", matchID)
			return nil
		}
		return err
	}

	if !match.HasParticipant(userID) {
		log.Printf("⚠️ User %s is not part of match %s, dropping event", userID, matchID)
		return nil
	}

	botID := match.OtherParticipant(userID)
	botProfile, err := es.Profiles.GetUserProfile(ctx, botID)
	if err != nil || !botProfile.IsBot {
		log.Printf("⚠️ Counterpart %s in match %s is not a bot, dropping event", botID, matchID)
		return nil
	}

	// Redelivery guard for threads that predate the task table.
	greeted, err := es.Chat.HasMessageFrom(ctx, matchID, botID)
	if err != nil {
		return err
	}
	if greeted {
		log.Printf("⚠️ Match %s already greeted, dropping event", matchID)
		return nil
	}

	now := time.Now().UTC()
	task := models.GreetingTask{
		MatchID:   matchID,
		BotID:     botID,
		HumanID:   userID,
		State:     models.GreetingStatePending,
		DeliverAt: now.Add(es.randomDelay()).Format(time.RFC3339),
		CreatedAt: now.Format(time.RFC3339),
	}

	if err := es.Dynamo.PutItemIfAbsent(ctx, models.GreetingTasksTable, task, "matchId"); err != nil {
		if IsConditionalCheckFailed(err) {
			log.Printf("⚠️ Greeting for match %s already queued", matchID)
			return nil
		}
		return err
	}

	log.Printf("⏳ Greeting queued for match %s, delivering at %s", matchID, task.DeliverAt)
	return nil
}

// randomDelay draws uniformly from the configured window, simulating human
// response latency.
func (es *EngagementService) randomDelay() time.Duration {
	es.mu.Lock()
	defer es.mu.Unlock()
	window := es.MaxDelay - es.MinDelay
	if window <= 0 {
		return es.MinDelay
	}
	return es.MinDelay + time.Duration(es.rng.Int63n(int64(window)))
}
