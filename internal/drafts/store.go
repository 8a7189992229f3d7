package drafts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Drafts are scoped by (purpose, owner) so a half-finished listing from one
// account can never leak into another account's session on a shared device.
// Owner is the user id, or "anonymous" before sign-in.
const keyPrefix = "draft:"

// AnonymousOwner is the owner key used before sign-in.
const AnonymousOwner = "anonymous"

const draftTTL = 7 * 24 * time.Hour

type Store struct {
	Rdb *redis.Client
}

func draftKey(purpose, owner string) string {
	return keyPrefix + purpose + ":" + owner
}

// Save stores the draft payload under (purpose, owner), refreshing the TTL.
func (s *Store) Save(ctx context.Context, purpose, owner string, payload map[string]interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.Rdb.Set(ctx, draftKey(purpose, owner), b, draftTTL).Err()
}

// Load returns the stored draft, or nil when none exists.
func (s *Store) Load(ctx context.Context, purpose, owner string) (map[string]interface{}, error) {
	b, err := s.Rdb.Get(ctx, draftKey(purpose, owner)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Delete removes the draft (e.g. after a successful submission).
func (s *Store) Delete(ctx context.Context, purpose, owner string) error {
	return s.Rdb.Del(ctx, draftKey(purpose, owner)).Err()
}
