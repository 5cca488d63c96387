package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fakhrymubarak/weather-cache/internal/cache"
	"github.com/fakhrymubarak/weather-cache/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

var (
	client *redisv9.Client
	once   sync.Once
)

func GetClient() *redisv9.Client {
	once.Do(func() {
		client = redisv9.NewClient(&redisv9.Options{
			Addr: config.GetRedisAddr(),
		})
	})
	return client
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	once = sync.Once{}
	client = nil
}

// Store keeps the serialized weather cache under a single Redis key. Entries
// never expire on the Redis side; freshness is decided by the coordinator.
type Store struct {
	client redisv9.Cmdable
	key    string
}

var _ cache.Store = (*Store)(nil)

func NewStore(client redisv9.Cmdable, key string) *Store {
	return &Store{client: client, key: key}
}

func (s *Store) Read(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, fmt.Errorf("%w: redis key %s", cache.ErrNotFound, s.key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return val, nil
}

func (s *Store) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
