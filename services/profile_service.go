package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileService serves profile reads and the candidate feed.
type ProfileService struct {
	Dynamo *DynamoService
	Cache  *ExclusionCache
	Photos *PhotoService // nil when no bucket is configured

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProfileService wires the service with its randomness source. Production
// passes a time-seeded source; tests pass a fixed seed for a deterministic
// candidate order.
func NewProfileService(dynamo *DynamoService, cache *ExclusionCache, photos *PhotoService, rng *rand.Rand) *ProfileService {
	return &ProfileService{Dynamo: dynamo, Cache: cache, Photos: photos, rng: rng}
}

// GetUserProfile retrieves a user profile by uid.
func (ps *ProfileService) GetUserProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"uid": &types.AttributeValueMemberS{Value: uid},
	}

	item, err := ps.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// GetCandidates returns every swipeable profile for uid: all profiles minus
// the user themselves and every target they already decided on, in a fresh
// random order on each call.
func (ps *ProfileService) GetCandidates(ctx context.Context, uid string) ([]models.UserProfile, error) {
	if uid == "" {
		return nil, ErrInvalidInput
	}

	excluded, err := ps.excludedTargets(ctx, uid)
	if err != nil {
		return nil, err
	}
	excluded[uid] = struct{}{}

	var candidates []models.UserProfile
	err = ps.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		attr, ok := item["uid"].(*types.AttributeValueMemberS)
		if !ok {
			return false
		}
		_, skip := excluded[attr.Value]
		return !skip
	}, nil, &candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate profiles: %w", err)
	}

	ps.shuffle(candidates)

	if ps.Photos != nil {
		for i := range candidates {
			candidates[i].Photos = ps.Photos.ReadURLs(ctx, candidates[i].Photos)
		}
	}

	log.Printf("✅ %d candidates for %s", len(candidates), uid)
	return candidates, nil
}

// excludedTargets returns the set of users uid has already interacted with,
// from cache when fresh enough, otherwise from the Interactions table.
func (ps *ProfileService) excludedTargets(ctx context.Context, uid string) (map[string]struct{}, error) {
	if targets, ok := ps.Cache.Get(ctx, uid); ok {
		set := make(map[string]struct{}, len(targets))
		for _, t := range targets {
			set[t] = struct{}{}
		}
		return set, nil
	}

	keyCondition := "actorId = :actor"
	expressionValues := map[string]types.AttributeValue{
		":actor": &types.AttributeValueMemberS{Value: uid},
	}

	items, err := ps.Dynamo.QueryItems(ctx, models.InteractionsTable, keyCondition, expressionValues, nil, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions for %s: %w", uid, err)
	}

	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}

	set := make(map[string]struct{}, len(interactions))
	targets := make([]string, 0, len(interactions))
	for _, in := range interactions {
		set[in.TargetID] = struct{}{}
		targets = append(targets, in.TargetID)
	}

	ps.Cache.Set(ctx, uid, targets)
	return set, nil
}

// shuffle applies a uniform Fisher-Yates permutation using the injected
// randomness source, so repeated calls never replay a stored ordering.
func (ps *ProfileService) shuffle(profiles []models.UserProfile) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.rng.Shuffle(len(profiles), func(i, j int) {
		profiles[i], profiles[j] = profiles[j], profiles[i]
	})
}
