package service

import (
	"context"
	"errors"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
)

type SessionBinder interface {
	Bind(ctx context.Context, user domain.User) (string, error)
	Clear(ctx context.Context, token string) error
}

// Access is the single entry point the transport layer talks to. Every write
// requires an authenticated identity.
type Access struct {
	identity IdentityService
	content  ContentService
	board    BoardService
	sessions SessionBinder
}

func NewAccess(identity IdentityService, content ContentService, board BoardService, sessions SessionBinder) *Access {
	return &Access{identity, content, board, sessions}
}

// Login resolves name to a user and binds a new session to it.
func (a *Access) Login(ctx context.Context, name domain.UserName) (string, error) {
	user, err := a.identity.ResolveOrCreate(ctx, name)
	if err != nil {
		return "", err
	}
	token, err := a.sessions.Bind(ctx, user)
	if err != nil {
		return "", internal_errors.Storage("bind session", err)
	}
	logger.Log.Info("user logged in", "user_id", user.Id, "name", user.Name)
	return token, nil
}

func (a *Access) Logout(ctx context.Context, token string) error {
	return a.sessions.Clear(ctx, token)
}

func (a *Access) ViewBoard(ctx context.Context, auth domain.AuthContext) ([]*domain.BoardMessage, error) {
	if !auth.Authenticated() {
		return nil, internal_errors.AuthRequired()
	}
	return a.board.ListBoard(ctx)
}

// PostMessage creates a message authored by the session's user. Once the
// message is stored the call succeeds even if the author's message list could
// not be updated.
func (a *Access) PostMessage(ctx context.Context, auth domain.AuthContext, text domain.MsgText) (domain.Message, error) {
	if !auth.Authenticated() {
		return domain.Message{}, internal_errors.AuthRequired()
	}
	author, err := a.identity.User(ctx, auth.UserId)
	if err != nil {
		return domain.Message{}, err
	}

	msg, err := a.content.CreateMessage(ctx, author.Id, text)
	if err != nil {
		return domain.Message{}, err
	}
	if err := a.content.AppendMessageToAuthor(ctx, author, msg); err != nil {
		recordBackRefFailure(err)
	}
	return msg, nil
}

// PostComment creates a comment on messageId authored by the session's user.
// Like PostMessage, link failures after the comment is stored are only
// recorded.
func (a *Access) PostComment(ctx context.Context, auth domain.AuthContext, messageId domain.MsgId, text domain.CommentText) (domain.Comment, error) {
	if !auth.Authenticated() {
		return domain.Comment{}, internal_errors.AuthRequired()
	}
	author, err := a.identity.User(ctx, auth.UserId)
	if err != nil {
		return domain.Comment{}, err
	}

	comment, err := a.content.CreateComment(ctx, author.Id, messageId, text)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := a.content.LinkCommentToOwners(ctx, author, comment); err != nil {
		recordBackRefFailure(err)
	}
	return comment, nil
}

func recordBackRefFailure(err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		var backRef *BackRefError
		if !errors.As(e, &backRef) {
			backRefFailuresTotal.WithLabelValues("unknown").Inc()
			logger.Log.Error("back-reference append failed", "error", e)
			continue
		}
		backRefFailuresTotal.WithLabelValues(backRef.Kind).Inc()
		logger.Log.Error("back-reference append failed",
			"kind", backRef.Kind,
			"owner_id", backRef.OwnerId,
			"child_id", backRef.ChildId,
			"error", backRef.Err)
	}
}
