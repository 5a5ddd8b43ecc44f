package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/config"
)

const defaultSessionKeyPrefix = "receiving:session:"

// RedisReceivingSessionStore keeps in-flight receiving events in Redis.
// This is suitable for distributed deployments where a session opened on
// one instance must be visible to the others.
type RedisReceivingSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisReceivingSessionStore creates a Redis-backed session store
func NewRedisReceivingSessionStore(cfg config.RedisConfig, ttl time.Duration) (*RedisReceivingSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisReceivingSessionStoreWithClient(client, defaultSessionKeyPrefix, ttl), nil
}

// NewRedisReceivingSessionStoreWithClient creates a store with an existing
// Redis client. Useful for testing or when sharing a client across components.
func NewRedisReceivingSessionStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisReceivingSessionStore {
	if keyPrefix == "" {
		keyPrefix = defaultSessionKeyPrefix
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisReceivingSessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Put stores the event under its tenant-scoped key, refreshing the TTL
func (s *RedisReceivingSessionStore) Put(ctx context.Context, event *purchasing.ReceivingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal receiving session: %w", err)
	}

	key := s.key(event.TenantID, event.ID)
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store receiving session: %w", err)
	}
	return nil
}

// Get loads an event; expired or unknown sessions surface as not found
func (s *RedisReceivingSessionStore) Get(ctx context.Context, tenantID, eventID uuid.UUID) (*purchasing.ReceivingEvent, error) {
	payload, err := s.client.Get(ctx, s.key(tenantID, eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load receiving session: %w", err)
	}

	var event purchasing.ReceivingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal receiving session: %w", err)
	}
	return &event, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *RedisReceivingSessionStore) Delete(ctx context.Context, tenantID, eventID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(tenantID, eventID)).Err(); err != nil {
		return fmt.Errorf("failed to delete receiving session: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisReceivingSessionStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisReceivingSessionStore) GetClient() *redis.Client {
	return s.client
}

func (s *RedisReceivingSessionStore) key(tenantID, eventID uuid.UUID) string {
	return s.keyPrefix + tenantID.String() + ":" + eventID.String()
}

// Ensure RedisReceivingSessionStore implements ReceivingSessionStore
var _ purchasing.ReceivingSessionStore = (*RedisReceivingSessionStore)(nil)
