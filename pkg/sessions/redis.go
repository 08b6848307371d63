package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	Token     string    `json:"token"`
	UserId    string    `json:"user_id"`
	Rut       string    `json:"rut"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	// Create assigns a fresh token and persists the session.
	Create(ctx context.Context, session Session) (*Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

type RedisStore struct {
	client   *redis.Client
	prefix   string
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   "session:",
		ttl:      ttl,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

func (s *RedisStore) Create(ctx context.Context, session Session) (*Session, error) {
	session.Token = s.newToken()
	session.CreatedAt = s.now().UTC().Truncate(time.Second)

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	err = s.client.Set(ctx, s.key(session.Token), string(data), s.ttl).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &session, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	val, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session

	err = json.Unmarshal([]byte(val), &session)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	err := s.client.Del(ctx, s.key(token)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}
