package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

type IdentityService interface {
	ResolveOrCreate(ctx context.Context, name domain.UserName) (domain.User, error)
	User(ctx context.Context, id domain.UserId) (domain.User, error)
}

type Identity struct {
	storage   IdentityStorage
	validator IdentityValidator
}

type IdentityStorage interface {
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
	UserByName(ctx context.Context, name domain.UserName) (domain.User, error)
	User(ctx context.Context, id domain.UserId) (domain.User, error)
}

type IdentityValidator interface {
	Name(name domain.UserName) error
}

func NewIdentity(storage IdentityStorage, validator IdentityValidator) *Identity {
	return &Identity{storage, validator}
}

// ResolveOrCreate returns the user called name, creating it on first use.
// Surrounding whitespace is not part of a name.
func (s *Identity) ResolveOrCreate(ctx context.Context, name domain.UserName) (domain.User, error) {
	name = strings.TrimSpace(name)
	if err := s.validator.Name(name); err != nil {
		return domain.User{}, err
	}

	user, err := s.storage.UserByName(ctx, name)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, internal_errors.ErrNotFound) {
		return domain.User{}, err
	}

	return s.storage.SaveUser(ctx, domain.User{Id: uuid.New(), Name: name})
}

func (s *Identity) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	return s.storage.User(ctx, id)
}
