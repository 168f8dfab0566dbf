package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"juspatria-backend/models"

	goredis "github.com/redis/go-redis/v9"
)

// RedisHistoryStore keeps each namespace as one JSON array under a single key
type RedisHistoryStore struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisClient connects to addr and verifies the connection with a ping
func NewRedisClient(ctx context.Context, addr string) (*goredis.Client, error) {
	if addr == "" {
		return nil, errors.New("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// NewRedisHistoryStore creates a store writing keys as "<prefix>:<namespace>"
func NewRedisHistoryStore(rdb *goredis.Client, prefix string) *RedisHistoryStore {
	if prefix == "" {
		prefix = "juspatria:history"
	}
	return &RedisHistoryStore{rdb: rdb, prefix: prefix}
}

func (s *RedisHistoryStore) key(namespace string) string {
	return s.prefix + ":" + namespace
}

// Load returns the stored list, or an empty list when the key does not exist
func (s *RedisHistoryStore) Load(ctx context.Context, namespace string) (models.HistoryItems, error) {
	raw, err := s.rdb.Get(ctx, s.key(namespace)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return models.HistoryItems{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var items models.HistoryItems
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if items == nil {
		items = models.HistoryItems{}
	}
	return items, nil
}

// Save overwrites the list of namespace
func (s *RedisHistoryStore) Save(ctx context.Context, namespace string, items models.HistoryItems) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return s.rdb.Set(ctx, s.key(namespace), raw, 0).Err()
}

// Clear removes the key of namespace
func (s *RedisHistoryStore) Clear(ctx context.Context, namespace string) error {
	return s.rdb.Del(ctx, s.key(namespace)).Err()
}
