package authn

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when the session does not exist or has expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionBackend is the storage interface for live sessions.
// This abstraction allows for different implementations (e.g., mock for testing).
type SessionBackend interface {
	// Put stores a session with the given TTL.
	Put(ctx context.Context, s *Session, ttl time.Duration) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session is absent or expired.
	Get(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Close releases any resources held by the backend.
	Close() error
}

// RedisSessionBackend implements SessionBackend on Redis with TTL-based expiry.
type RedisSessionBackend struct {
	client *redis.Client
}

// NewRedisSessionBackend creates a backend using the given Redis client.
func NewRedisSessionBackend(client *redis.Client) *RedisSessionBackend {
	return &RedisSessionBackend{client: client}
}

// sessionKey derives the Redis key for a session ID.
// The ID is hashed so a Redis dump never contains usable session handles,
// the same discipline applied to API tokens stored in Postgres.
func sessionKey(id uuid.UUID) string {
	sum := sha256.Sum256([]byte(id.String()))
	return "session:" + hex.EncodeToString(sum[:])
}

// Put stores the session as JSON under its hashed key.
func (b *RedisSessionBackend) Put(ctx context.Context, s *Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := b.client.Set(ctx, sessionKey(s.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get retrieves and decodes a session.
func (b *RedisSessionBackend) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	payload, err := b.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	s := &Session{}
	if err := json.Unmarshal(payload, s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return s, nil
}

// Delete removes a session record.
func (b *RedisSessionBackend) Delete(ctx context.Context, id uuid.UUID) error {
	if err := b.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (b *RedisSessionBackend) Close() error {
	return b.client.Close()
}
