package pg

import (
	"context"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

// CreateComment saves c. Missing author or message surface as NotFound with
// the matching code.
func (s *Storage) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created domain.Comment
	err := s.db.QueryRowContext(ctx, `
	INSERT INTO comments(id, text, author_id, message_id)
	VALUES($1, $2, $3, $4)
	RETURNING id, text, author_id, message_id, created_at, updated_at`,
		c.Id, c.Text, c.AuthorId, c.MessageId,
	).Scan(&created.Id, &created.Text, &created.AuthorId, &created.MessageId, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return domain.Comment{}, internal_errors.Storage("insert comment", translate(err))
	}
	return created, nil
}
