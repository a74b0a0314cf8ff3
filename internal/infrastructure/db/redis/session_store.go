package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps one session generation counter per employee.
// Key format: session:gen:<employee_id>
type SessionStore struct {
	client redis.Cmdable
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

// Generation returns the current generation. A missing key is generation zero.
func (s *SessionStore) Generation(ctx context.Context, employeeID string) (int64, error) {
	n, err := s.client.Get(ctx, sessionKey(employeeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("session generation: %w", err)
	}
	return n, nil
}

// Revoke bumps the generation, invalidating every credential issued before.
func (s *SessionStore) Revoke(ctx context.Context, employeeID string) (int64, error) {
	n, err := s.client.Incr(ctx, sessionKey(employeeID)).Result()
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	return n, nil
}

func sessionKey(employeeID string) string {
	return "session:gen:" + employeeID
}
