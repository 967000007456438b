package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
)

type ContentService interface {
	CreateMessage(ctx context.Context, authorId domain.UserId, text domain.MsgText) (domain.Message, error)
	AppendMessageToAuthor(ctx context.Context, author domain.User, msg domain.Message) error
	CreateComment(ctx context.Context, authorId domain.UserId, messageId domain.MsgId, text domain.CommentText) (domain.Comment, error)
	LinkCommentToOwners(ctx context.Context, author domain.User, comment domain.Comment) error
}

type Content struct {
	storage   ContentStorage
	validator ContentValidator
}

type ContentStorage interface {
	CreateMessage(ctx context.Context, msg domain.Message) (domain.Message, error)
	Message(ctx context.Context, id domain.MsgId) (domain.Message, error)
	CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error)
	AppendMessageToUser(ctx context.Context, userId domain.UserId, msgId domain.MsgId) error
	AppendCommentToUser(ctx context.Context, userId domain.UserId, commentId domain.CommentId) error
	AppendCommentToMessage(ctx context.Context, msgId domain.MsgId, commentId domain.CommentId) error
}

type ContentValidator interface {
	MessageText(text domain.MsgText) error
	CommentText(text domain.CommentText) error
}

func NewContent(storage ContentStorage, validator ContentValidator) *Content {
	return &Content{storage, validator}
}

func (s *Content) CreateMessage(ctx context.Context, authorId domain.UserId, text domain.MsgText) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if err := s.validator.MessageText(text); err != nil {
		return domain.Message{}, err
	}
	return s.storage.CreateMessage(ctx, domain.Message{Id: uuid.New(), Text: text, AuthorId: authorId})
}

// AppendMessageToAuthor records msg in its author's message list. Call it only
// once msg has been persisted.
func (s *Content) AppendMessageToAuthor(ctx context.Context, author domain.User, msg domain.Message) error {
	if err := s.storage.AppendMessageToUser(ctx, author.Id, msg.Id); err != nil {
		return &BackRefError{Kind: domain.BackRefUserMessage, OwnerId: author.Id, ChildId: msg.Id, Err: err}
	}
	return nil
}

// CreateComment persists a comment on messageId. The message must exist.
func (s *Content) CreateComment(ctx context.Context, authorId domain.UserId, messageId domain.MsgId, text domain.CommentText) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if err := s.validator.CommentText(text); err != nil {
		return domain.Comment{}, err
	}
	if _, err := s.storage.Message(ctx, messageId); err != nil {
		return domain.Comment{}, err
	}
	return s.storage.CreateComment(ctx, domain.Comment{Id: uuid.New(), Text: text, AuthorId: authorId, MessageId: messageId})
}

// LinkCommentToOwners appends comment to its author's and its message's
// comment lists. Both appends are attempted; the returned error joins
// whichever of them failed.
func (s *Content) LinkCommentToOwners(ctx context.Context, author domain.User, comment domain.Comment) error {
	var errs []error
	if err := s.storage.AppendCommentToUser(ctx, author.Id, comment.Id); err != nil {
		errs = append(errs, &BackRefError{Kind: domain.BackRefUserComment, OwnerId: author.Id, ChildId: comment.Id, Err: err})
	}
	if err := s.storage.AppendCommentToMessage(ctx, comment.MessageId, comment.Id); err != nil {
		errs = append(errs, &BackRefError{Kind: domain.BackRefMessageComment, OwnerId: comment.MessageId, ChildId: comment.Id, Err: err})
	}
	return errors.Join(errs...)
}

// BackRefError reports a failed owner-side append.
type BackRefError struct {
	Kind    domain.BackRefKind
	OwnerId uuid.UUID
	ChildId uuid.UUID
	Err     error
}

func (e *BackRefError) Error() string {
	return fmt.Sprintf("link %s %s -> %s: %v", e.Kind, e.OwnerId, e.ChildId, e.Err)
}

func (e *BackRefError) Unwrap() error {
	return e.Err
}
