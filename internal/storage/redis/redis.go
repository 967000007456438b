// Package redis keeps server-side session records.
//
// A session is a hash at session:<id> holding the bound user's id and name.
// Its lifetime is the key's TTL.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ChristopherDonnelly/message-board/internal/config"
	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
)

const (
	fieldUserId = "user_id"
	fieldName   = "name"
)

type SessionStore struct {
	client  *goredis.Client
	timeout time.Duration
}

func New(cfg *config.Config) (*SessionStore, error) {
	logger.Log.Info("connecting to redis", "addr", cfg.Public.Redis.Addr, "db", cfg.Public.Redis.DB)
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Public.Redis.Addr,
		Password: cfg.Private.RedisPassword,
		DB:       cfg.Public.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Public.StoreTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &SessionStore{client: client, timeout: cfg.Public.StoreTimeout}, nil
}

func (s *SessionStore) Close() error {
	return s.client.Close()
}

func (s *SessionStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return internal_errors.Storage("ping redis", s.client.Ping(ctx).Err())
}

func sessionKey(id string) string {
	return "session:" + id
}

// Save writes the session record and its TTL atomically.
func (s *SessionStore) Save(ctx context.Context, id string, auth domain.AuthContext, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := sessionKey(id)
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldUserId, auth.UserId.String(), fieldName, auth.Name)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return internal_errors.Storage("save session", err)
}

// Get returns the session bound to id. ok is false when there is no such
// session or it has expired.
func (s *SessionStore) Get(ctx context.Context, id string) (auth domain.AuthContext, ok bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return domain.AuthContext{}, false, internal_errors.Storage("get session", err)
	}
	if len(fields) == 0 {
		return domain.AuthContext{}, false, nil
	}

	userId, err := uuid.Parse(fields[fieldUserId])
	if err != nil {
		// A record we can't read is as good as no record.
		logger.Log.Warn("malformed session record", "session", id, "error", err)
		return domain.AuthContext{}, false, nil
	}
	return domain.AuthContext{UserId: userId, Name: fields[fieldName]}, true, nil
}

// Touch extends the session's lifetime to ttl from now.
func (s *SessionStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return internal_errors.Storage("touch session", s.client.Expire(ctx, sessionKey(id), ttl).Err())
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return internal_errors.Storage("delete session", s.client.Del(ctx, sessionKey(id)).Err())
}
