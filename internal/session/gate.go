// Package session maps inbound cookie tokens to authenticated identities.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
)

type Store interface {
	Save(ctx context.Context, id string, auth domain.AuthContext, ttl time.Duration) error
	Get(ctx context.Context, id string) (domain.AuthContext, bool, error)
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type Gate struct {
	store  Store
	tokens TokenService
	ttl    time.Duration
}

func New(store Store, tokens TokenService, ttl time.Duration) *Gate {
	return &Gate{store: store, tokens: tokens, ttl: ttl}
}

func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// Authenticate resolves token to the identity bound to it. Empty, tampered,
// expired and unknown tokens all yield Anonymous with a nil error; a non-nil
// error means the session store could not be consulted.
func (g *Gate) Authenticate(ctx context.Context, token string) (domain.AuthContext, error) {
	if token == "" {
		return domain.AuthContext{}, nil
	}
	sessionId, err := g.tokens.DecodeToken(token)
	if err != nil {
		logger.Log.Debug("rejected session token", "error", err)
		return domain.AuthContext{}, nil
	}

	auth, ok, err := g.store.Get(ctx, sessionId)
	if err != nil {
		return domain.AuthContext{}, err
	}
	if !ok {
		return domain.AuthContext{}, nil
	}

	// sliding expiry
	if err := g.store.Touch(ctx, sessionId, g.ttl); err != nil {
		logger.Log.Warn("failed to refresh session", "session", sessionId, "error", err)
	}
	return auth, nil
}

// Bind starts a session for user and returns the token to hand to the client.
func (g *Gate) Bind(ctx context.Context, user domain.User) (string, error) {
	sessionId := uuid.NewString()
	token, err := g.tokens.NewToken(sessionId)
	if err != nil {
		return "", err
	}
	if err := g.store.Save(ctx, sessionId, domain.AuthContext{UserId: user.Id, Name: user.Name}, g.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Clear ends the session behind token. Tokens that don't decode have no
// session to end.
func (g *Gate) Clear(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionId, err := g.tokens.DecodeToken(token)
	if err != nil {
		return nil
	}
	return g.store.Delete(ctx, sessionId)
}
