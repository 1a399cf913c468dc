package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers logged-out session ids until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type MemoryRevocationStore struct {
	mutex   sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.entries[tokenID] = until
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	until, ok := s.entries[tokenID]
	return ok && s.now().Before(until), nil
}

// Purge drops entries whose tokens have expired and returns how many were removed.
func (s *MemoryRevocationStore) Purge() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	removed := 0
	for id, until := range s.entries {
		if !now.Before(until) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryRevocationStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries)
}

const revokedKeyPrefix = "blog:revoked:"

type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return n > 0, nil
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if strings.Contains(redisURL, "://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// OpenRevocationStore uses redis when configured and reachable, and falls back to memory otherwise.
// The returned close function is never nil.
func OpenRevocationStore(redisURL string, logger *slog.Logger) (RevocationStore, func() error) {
	noop := func() error { return nil }
	if redisURL == "" {
		return NewMemoryRevocationStore(), noop
	}

	client, err := NewRedisClient(redisURL)
	if err != nil {
		logger.Warn("redis disabled, using in-memory session revocation", "error", err)
		return NewMemoryRevocationStore(), noop
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-memory session revocation", "error", err)
		_ = client.Close()
		return NewMemoryRevocationStore(), noop
	}

	logger.Info("redis connected for session revocation")
	return NewRedisRevocationStore(client), client.Close
}
