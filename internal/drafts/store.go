// Package drafts keeps wizard sessions between HTTP requests.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dhukuti/internal/shared/constants"
)

var ErrDraftNotFound = errors.New("draft not found or expired")

// Store persists serialized wizard state. Drafts are scoped to their owner: a draft id
// from another user is reported as not found.
type Store interface {
	Save(ctx context.Context, kind string, owner uuid.UUID, draftID string, state []byte) error
	Load(ctx context.Context, kind string, owner uuid.UUID, draftID string) ([]byte, error)
	Delete(ctx context.Context, kind string, owner uuid.UUID, draftID string) error

	// AcquireSubmit marks a draft as being submitted. It reports false when a submission
	// of the same draft is already running.
	AcquireSubmit(ctx context.Context, kind string, owner uuid.UUID, draftID string) (bool, error)
	ReleaseSubmit(ctx context.Context, kind string, owner uuid.UUID, draftID string) error
}

// submitLockTTL bounds how long a crashed submission can block its draft.
const submitLockTTL = time.Minute

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisStore{client: client, ttl: ttl}
}

func draftKey(kind string, owner uuid.UUID, draftID string) string {
	return constants.BuildWizardDraftKey(kind, owner.String()+":"+draftID)
}

// Save writes the state and restarts its expiry.
func (s *redisStore) Save(ctx context.Context, kind string, owner uuid.UUID, draftID string, state []byte) error {
	if err := s.client.Set(ctx, draftKey(kind, owner, draftID), state, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *redisStore) Load(ctx context.Context, kind string, owner uuid.UUID, draftID string) ([]byte, error) {
	raw, err := s.client.Get(ctx, draftKey(kind, owner, draftID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return raw, nil
}

func (s *redisStore) Delete(ctx context.Context, kind string, owner uuid.UUID, draftID string) error {
	n, err := s.client.Del(ctx, draftKey(kind, owner, draftID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (s *redisStore) AcquireSubmit(ctx context.Context, kind string, owner uuid.UUID, draftID string) (bool, error) {
	ok, err := s.client.SetNX(ctx, draftKey(kind, owner, draftID)+":submitting", 1, submitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to lock draft: %w", err)
	}
	return ok, nil
}

func (s *redisStore) ReleaseSubmit(ctx context.Context, kind string, owner uuid.UUID, draftID string) error {
	if err := s.client.Del(ctx, draftKey(kind, owner, draftID)+":submitting").Err(); err != nil {
		return fmt.Errorf("failed to unlock draft: %w", err)
	}
	return nil
}
