package services

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// greetingPhrases is the fixed pool bot greetings are drawn from.
var greetingPhrases = []string{
	"Hey there! Your profile caught my eye 😊",
	"Hi! So happy we matched. How's your day going?",
	"Hello! I have a feeling we'll get along. What are you up to?",
	"Hey! Great to match with you. Any fun plans this week?",
	"Hi there! Your photos are lovely. What do you do for fun?",
}

// GreetingWorker drains due GreetingTasks and delivers bot greetings. Tasks
// live in DynamoDB, so scheduled greetings survive process restarts; the
// pending→sent claim happens inside the delivery transaction, which is what
// makes delivery exactly-once.
type GreetingWorker struct {
	Dynamo   *DynamoService
	Chat     *ChatService
	Interval time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGreetingWorker wires the worker with its poll interval and randomness
// source for phrase selection.
func NewGreetingWorker(dynamo *DynamoService, chat *ChatService, interval time.Duration, rng *rand.Rand) *GreetingWorker {
	return &GreetingWorker{Dynamo: dynamo, Chat: chat, Interval: interval, rng: rng}
}

// Run polls for due tasks until the context is canceled.
func (w *GreetingWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	log.Printf("🤖 Greeting worker started, polling every %s", w.Interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("🤖 Greeting worker stopped")
			return
		case <-ticker.C:
			if _, err := w.DeliverDue(ctx); err != nil {
				log.Printf("❌ Greeting delivery pass failed: %v", err)
			}
		}
	}
}

// DeliverDue delivers every pending task whose deliver-at has passed and
// returns how many greetings landed.
func (w *GreetingWorker) DeliverDue(ctx context.Context) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	var due []models.GreetingTask
	err := w.Dynamo.ScanWithFilter(ctx, models.GreetingTasksTable, func(item map[string]types.AttributeValue) bool {
		state, ok := item["state"].(*types.AttributeValueMemberS)
		if !ok || state.Value != models.GreetingStatePending {
			return false
		}
		deliverAt, ok := item["deliverAt"].(*types.AttributeValueMemberS)
		// RFC3339 UTC timestamps order lexicographically.
		return ok && deliverAt.Value <= now
	}, nil, &due)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, task := range due {
		if err := w.deliver(ctx, task); err != nil {
			log.Printf("❌ Failed to deliver greeting for match %s: %v", task.MatchID, err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

// deliver claims the task and appends the greeting in a single transaction:
// task pending→sent, message put, both summaries updated with the unread
// counter bumped on the human side only.
func (w *GreetingWorker) deliver(ctx context.Context, task models.GreetingTask) error {
	now := time.Now().UTC().Format(time.RFC3339)

	message := models.Message{
		MatchID:   task.MatchID,
		MessageID: uuid.NewString(),
		SenderID:  task.BotID,
		Content:   w.pickPhrase(),
		Kind:      models.MessageKindUser,
		CreatedAt: now,
	}

	items, err := w.Chat.messageWriteItems(message, []string{task.HumanID, task.BotID})
	if err != nil {
		return err
	}

	tasksTable := models.GreetingTasksTable
	claimUpdate := "SET #state = :sent, sentAt = :now"
	claimCondition := "#state = :pending"
	claim := types.TransactWriteItem{
		Update: &types.Update{
			TableName: &tasksTable,
			Key: map[string]types.AttributeValue{
				"matchId": &types.AttributeValueMemberS{Value: task.MatchID},
			},
			UpdateExpression:         &claimUpdate,
			ConditionExpression:      &claimCondition,
			ExpressionAttributeNames: map[string]string{"#state": "state"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":sent":    &types.AttributeValueMemberS{Value: models.GreetingStateSent},
				":pending": &types.AttributeValueMemberS{Value: models.GreetingStatePending},
				":now":     &types.AttributeValueMemberS{Value: now},
			},
		},
	}

	if err := w.Dynamo.TransactWrite(ctx, append([]types.TransactWriteItem{claim}, items...)...); err != nil {
		if IsTransactionCanceled(err) {
			// Another pass already claimed this task.
			return nil
		}
		return err
	}

	if w.Chat.Notifier != nil {
		w.Chat.Notifier.NotifyMessage(message)
	}

	log.Printf("💬 Greeting delivered to match %s from %s", task.MatchID, task.BotID)
	return nil
}

func (w *GreetingWorker) pickPhrase() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return greetingPhrases[w.rng.Intn(len(greetingPhrases))]
}
