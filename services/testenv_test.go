package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"sparkd_server/models"

	"github.com/stretchr/testify/require"
)

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	events   []MatchEvent
	messages []models.Message
}

func (n *recordingNotifier) NotifyMatch(event MatchEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) NotifyMessage(message models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) matchEvents() []MatchEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]MatchEvent(nil), n.events...)
}

func (n *recordingNotifier) sentMessages() []models.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Message(nil), n.messages...)
}

// env wires every service against the in-memory store with deterministic
// randomness and a zero-delay greeting window.
type env struct {
	fake         *fakeDynamo
	dynamo       *DynamoService
	notifier     *recordingNotifier
	profiles     *ProfileService
	matches      *MatchService
	interactions *InteractionService
	rewind       *RewindService
	chat         *ChatService
	engagement   *EngagementService
	worker       *GreetingWorker
}

func newEnv(t *testing.T) *env {
	t.Helper()

	fake := newFakeDynamo()
	dynamo := &DynamoService{Client: fake}
	notifier := &recordingNotifier{}

	profiles := NewProfileService(dynamo, nil, nil, rand.New(rand.NewSource(1)))
	matches := &MatchService{Dynamo: dynamo, Notifier: notifier}
	interactions := &InteractionService{Dynamo: dynamo, Matches: matches}
	rewind := &RewindService{Dynamo: dynamo, Matches: matches}
	chat := &ChatService{Dynamo: dynamo, Matches: matches, Notifier: notifier}
	engagement := NewEngagementService(dynamo, matches, chat, profiles, 0, 0, rand.New(rand.NewSource(2)))
	worker := NewGreetingWorker(dynamo, chat, time.Second, rand.New(rand.NewSource(3)))

	return &env{
		fake:         fake,
		dynamo:       dynamo,
		notifier:     notifier,
		profiles:     profiles,
		matches:      matches,
		interactions: interactions,
		rewind:       rewind,
		chat:         chat,
		engagement:   engagement,
		worker:       worker,
	}
}

func (e *env) addProfile(t *testing.T, uid, name string, isBot bool) {
	t.Helper()
	err := e.dynamo.PutItem(context.Background(), models.UserProfilesTable, models.UserProfile{
		UID:       uid,
		Name:      name,
		IsBot:     isBot,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)
}

func (e *env) storedCount(table string) int {
	e.fake.mu.Lock()
	defer e.fake.mu.Unlock()
	return len(e.fake.tables[table])
}
