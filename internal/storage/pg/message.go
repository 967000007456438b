package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

// CreateMessage saves msg. A missing author surfaces as NotFound.
func (s *Storage) CreateMessage(ctx context.Context, msg domain.Message) (domain.Message, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created domain.Message
	err := s.db.QueryRowContext(ctx, `
	INSERT INTO messages(id, text, author_id)
	VALUES($1, $2, $3)
	RETURNING id, text, author_id, created_at, updated_at`,
		msg.Id, msg.Text, msg.AuthorId,
	).Scan(&created.Id, &created.Text, &created.AuthorId, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return domain.Message{}, internal_errors.Storage("insert message", translate(err))
	}
	created.CommentIds = []domain.CommentId{}
	return created, nil
}

func (s *Storage) Message(ctx context.Context, id domain.MsgId) (domain.Message, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		msg        domain.Message
		commentIds pq.StringArray
	)
	err := s.db.QueryRowContext(ctx, `
	SELECT id, text, author_id, comment_ids, created_at, updated_at
	FROM messages
	WHERE id = $1`, id,
	).Scan(&msg.Id, &msg.Text, &msg.AuthorId, &commentIds, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Message{}, internal_errors.NotFound(internal_errors.CodeMessageNotFound)
		}
		return domain.Message{}, internal_errors.Storage("get message", err)
	}
	if msg.CommentIds, err = parseIds(commentIds); err != nil {
		return domain.Message{}, internal_errors.Storage("get message", err)
	}
	return msg, nil
}

// AppendCommentToMessage records commentId in the message's comment_ids.
func (s *Storage) AppendCommentToMessage(ctx context.Context, msgId domain.MsgId, commentId domain.CommentId) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	found, err := appendUnique(ctx, s.db, "messages", "comment_ids", msgId, commentId)
	if err == nil && !found {
		err = internal_errors.NotFound(internal_errors.CodeMessageNotFound)
	}
	return internal_errors.Storage("append comment to message", err)
}
