package controllers

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"sparkd_server/models"
	"sparkd_server/services"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// stubStore is a minimal in-memory DynamoAPI covering the calls the handler
// tests exercise: conditional puts, key reads and partition queries. Service
// semantics get their deep coverage in the services package; these tests only
// need enough storage to drive the HTTP paths.
type stubStore struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

var stubTableKeys = map[string][]string{
	models.UserProfilesTable:  {"uid"},
	models.InteractionsTable:  {"actorId", "targetId"},
	models.MatchesTable:       {"matchId"},
	models.GreetingTasksTable: {"matchId"},
}

func newStubStore() *stubStore {
	return &stubStore{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (s *stubStore) table(name string) map[string]map[string]types.AttributeValue {
	if s.tables[name] == nil {
		s.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return s.tables[name]
}

func stubItemKey(table string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range stubTableKeys[table] {
		if v, ok := item[attr].(*types.AttributeValueMemberS); ok {
			parts = append(parts, v.Value)
		}
	}
	return strings.Join(parts, "|")
}

func (s *stubStore) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := *params.TableName
	key := stubItemKey(table, params.Item)
	if params.ConditionExpression != nil && strings.HasPrefix(*params.ConditionExpression, "attribute_not_exists(") {
		if _, exists := s.table(table)[key]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	s.table(table)[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (s *stubStore) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := *params.TableName
	item := s.table(table)[stubItemKey(table, params.Key)]
	if item == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (s *stubStore) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

func (s *stubStore) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{}, nil
}

func (s *stubStore) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return &dynamodb.UpdateItemOutput{}, nil
}

func (s *stubStore) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := *params.TableName
	delete(s.table(table), stubItemKey(table, params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (s *stubStore) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

// handlerEnv wires real services over the stub store for handler tests.
type handlerEnv struct {
	store        *stubStore
	dynamo       *services.DynamoService
	profiles     *services.ProfileService
	matches      *services.MatchService
	interactions *services.InteractionService
	rewind       *services.RewindService
	chat         *services.ChatService
	engagement   *services.EngagementService
}

func newHandlerEnv() *handlerEnv {
	store := newStubStore()
	dynamo := &services.DynamoService{Client: store}

	profiles := services.NewProfileService(dynamo, nil, nil, rand.New(rand.NewSource(1)))
	matches := &services.MatchService{Dynamo: dynamo}
	interactions := &services.InteractionService{Dynamo: dynamo, Matches: matches}
	rewind := &services.RewindService{Dynamo: dynamo, Matches: matches}
	chat := &services.ChatService{Dynamo: dynamo, Matches: matches}
	engagement := services.NewEngagementService(dynamo, matches, chat, profiles, time.Minute, time.Minute, rand.New(rand.NewSource(2)))

	return &handlerEnv{
		store:        store,
		dynamo:       dynamo,
		profiles:     profiles,
		matches:      matches,
		interactions: interactions,
		rewind:       rewind,
		chat:         chat,
		engagement:   engagement,
	}
}
