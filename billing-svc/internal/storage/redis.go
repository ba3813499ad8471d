package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"billing-counter/billing-svc/internal/domain"
)

// RedisStore keeps the three session keys as Redis strings, the closest
// server-side analogue of the original local-storage keys.
type RedisStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Prefix: "pos"}
}

func (s *RedisStore) key(name string) string {
	return fmt.Sprintf("%s:%s", s.Prefix, name)
}

func (s *RedisStore) Load(ctx context.Context) (domain.SessionRecord, error) {
	var record domain.SessionRecord

	keys := make(map[string]json.RawMessage)
	for _, name := range stateKeys {
		value, err := s.Client.Get(ctx, s.key(name)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return record, fmt.Errorf("failed to read key %s: %w", name, err)
		}
		keys[name] = json.RawMessage(value)
	}

	decodeKeys(keys, &record)
	return record, nil
}

func (s *RedisStore) Save(ctx context.Context, state domain.SessionState) error {
	values, err := encodeState(state)
	if err != nil {
		return err
	}
	for _, name := range stateKeys {
		if err := s.Client.Set(ctx, s.key(name), string(values[name]), 0).Err(); err != nil {
			return fmt.Errorf("failed to write key %s: %w", name, err)
		}
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.Client.Del(ctx,
		s.key(keyTransactions), s.key(keyDailySales), s.key(keyBillNumber)).Err()
}
