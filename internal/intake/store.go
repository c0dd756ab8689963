// internal/intake/store.go
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

// ProfileStore is the storage port for the single durable profile slot.
// Get returns (nil, nil) when no profile has been stored yet.
type ProfileStore interface {
	Save(ctx context.Context, ownerID string, profile *models.AllergyProfile) error
	Get(ctx context.Context, ownerID string) (*models.AllergyProfile, error)
	Clear(ctx context.Context, ownerID string) error
}

const profileKeyPrefix = "allergy-alert:profile:"

// RedisProfileStore persists profiles as JSON under a fixed key per owner.
type RedisProfileStore struct {
	client *redis.Client
}

func NewRedisProfileStore(client *redis.Client) *RedisProfileStore {
	return &RedisProfileStore{client: client}
}

func profileKey(ownerID string) string {
	return profileKeyPrefix + ownerID
}

func (s *RedisProfileStore) Save(ctx context.Context, ownerID string, profile *models.AllergyProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	// Profiles are durable until explicitly cleared, so no expiration.
	if err := s.client.Set(ctx, profileKey(ownerID), payload, 0).Err(); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

func (s *RedisProfileStore) Get(ctx context.Context, ownerID string) (*models.AllergyProfile, error) {
	raw, err := s.client.Get(ctx, profileKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var profile models.AllergyProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode stored profile: %w", err)
	}
	return &profile, nil
}

func (s *RedisProfileStore) Clear(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, profileKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}
