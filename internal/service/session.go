package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side login sessions keyed by opaque id
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Get(ctx context.Context, sessionID string) (uuid.UUID, error)
	Destroy(ctx context.Context, sessionID string) error
}

// RedisSessionStore backs sessions with Redis. Entries expire on their own
// when the client never signs out.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a session store with a 24 hour session lifetime
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create registers a new session for the user and returns its id
func (s *RedisSessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	sessionID := uuid.New().String()

	if err := s.client.Set(ctx, sessionKey(sessionID), userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return sessionID, nil
}

// Get resolves a session id to the user it belongs to
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (uuid.UUID, error) {
	value, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrSessionNotFound
	}

	return userID, nil
}

// Destroy removes a session. Destroying an unknown session is not an error.
func (s *RedisSessionStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
