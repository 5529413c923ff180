package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/habitmosaic/pkg/chain"
)

// defaultRedisKey is the hash that holds all chains.
const defaultRedisKey = "habitmosaic:chains"

// RedisStore keeps every chain as a JSON field of one Redis hash.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// OpenRedis connects to url and stores chains under the hash key (empty
// means "habitmosaic:chains").
func OpenRedis(ctx context.Context, url, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStore(client, key), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) Get(ctx context.Context, id string) (*chain.Chain, error) {
	data, err := s.client.HGet(ctx, s.key, id).Bytes()
	if err == redis.Nil {
		return nil, chain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget: %w", err)
	}
	return decodeChain(data)
}

func (s *RedisStore) List(ctx context.Context) ([]*chain.Chain, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	out := make([]*chain.Chain, 0, len(fields))
	for _, v := range fields {
		c, err := decodeChain([]byte(v))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *RedisStore) Put(ctx context.Context, c *chain.Chain) error {
	if err := validateID(c.ID); err != nil {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal chain: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, c.ID, data).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.HDel(ctx, s.key, id).Result()
	if err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	if n == 0 {
		return chain.ErrNotFound
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeChain(data []byte) (*chain.Chain, error) {
	var c chain.Chain
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse chain: %w", err)
	}
	if c.Days == nil {
		c.Days = map[string]bool{}
	}
	return &c, nil
}

var _ chain.Store = (*RedisStore)(nil)
