package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

const userColumns = `id, name, message_ids, comment_ids, created_at, updated_at`

// SaveUser inserts user. If a user with the same name already exists (for
// instance a concurrent first login) the existing row is returned instead.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	saved, err := s.saveUser(ctx, s.db, user)
	return saved, internal_errors.Storage("save user", err)
}

// UserByName fetches a user by exact name.
func (s *Storage) UserByName(ctx context.Context, name domain.UserName) (domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.userBy(ctx, s.db, "name", name)
	return user, internal_errors.Storage("get user by name", err)
}

// User fetches a user by id.
func (s *Storage) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.userBy(ctx, s.db, "id", id)
	return user, internal_errors.Storage("get user", err)
}

// AppendMessageToUser records msgId in the author's message_ids.
func (s *Storage) AppendMessageToUser(ctx context.Context, userId domain.UserId, msgId domain.MsgId) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	found, err := appendUnique(ctx, s.db, "users", "message_ids", userId, msgId)
	if err == nil && !found {
		err = internal_errors.NotFound(internal_errors.CodeUserNotFound)
	}
	return internal_errors.Storage("append message to user", err)
}

// AppendCommentToUser records commentId in the author's comment_ids.
func (s *Storage) AppendCommentToUser(ctx context.Context, userId domain.UserId, commentId domain.CommentId) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	found, err := appendUnique(ctx, s.db, "users", "comment_ids", userId, commentId)
	if err == nil && !found {
		err = internal_errors.NotFound(internal_errors.CodeUserNotFound)
	}
	return internal_errors.Storage("append comment to user", err)
}

func (s *Storage) saveUser(ctx context.Context, q Querier, user domain.User) (domain.User, error) {
	// DO UPDATE with a no-op assignment makes RETURNING yield the existing row.
	row := q.QueryRowContext(ctx, `
	INSERT INTO users(id, name)
	VALUES($1, $2)
	ON CONFLICT ON CONSTRAINT users_name_key DO UPDATE SET name = EXCLUDED.name
	RETURNING `+userColumns,
		user.Id, user.Name)

	saved, err := scanUser(row)
	if err != nil {
		return domain.User{}, translate(err)
	}
	return saved, nil
}

func (s *Storage) userBy(ctx context.Context, q Querier, column string, value any) (domain.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+pq.QuoteIdentifier(column)+` = $1`, value)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound(internal_errors.CodeUserNotFound)
		}
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		user       domain.User
		messageIds pq.StringArray
		commentIds pq.StringArray
		err        error
	)
	if err = row.Scan(&user.Id, &user.Name, &messageIds, &commentIds, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	if user.MessageIds, err = parseIds(messageIds); err != nil {
		return domain.User{}, err
	}
	if user.CommentIds, err = parseIds(commentIds); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
