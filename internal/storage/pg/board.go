package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samber/lo"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

// ListBoard returns every message newest first, each hydrated with its
// author's name and its comments (oldest first, with their authors' names).
// Both levels are read in one read-only transaction so the result is a
// consistent snapshot; any failure discards the whole board.
func (s *Storage) ListBoard(ctx context.Context) ([]*domain.BoardMessage, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var board []*domain.BoardMessage
	err := s.withTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}, func(tx *sql.Tx) error {
		var err error
		board, err = s.listBoard(ctx, tx)
		return err
	})
	if err != nil {
		return nil, internal_errors.Storage("list board", err)
	}
	return board, nil
}

func (s *Storage) listBoard(ctx context.Context, q Querier) ([]*domain.BoardMessage, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT m.id, m.text, m.author_id, u.name, m.created_at
	FROM messages m
	JOIN users u ON u.id = m.author_id
	ORDER BY m.created_at DESC, m.seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	board := []*domain.BoardMessage{}
	for rows.Next() {
		msg := &domain.BoardMessage{Comments: []*domain.BoardComment{}}
		if err := rows.Scan(&msg.Id, &msg.Text, &msg.AuthorId, &msg.AuthorName, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		board = append(board, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("messages iteration error: %w", err)
	}

	idToMessage := lo.KeyBy(board, func(m *domain.BoardMessage) domain.MsgId { return m.Id })
	messageIds := lo.Map(board, func(m *domain.BoardMessage, _ int) domain.MsgId { return m.Id })
	if err := enrichMessagesWithComments(ctx, q, messageIds, idToMessage); err != nil {
		return nil, err
	}
	return board, nil
}

// enrichMessagesWithComments attaches comments, hydrated with author names,
// to the messages in idToMessage. Comments come from the comments table, not
// from messages.comment_ids, so a comment whose back-reference append failed
// is still shown.
func enrichMessagesWithComments(
	ctx context.Context,
	q Querier,
	messageIds []domain.MsgId,
	idToMessage map[domain.MsgId]*domain.BoardMessage,
) error {
	if len(messageIds) == 0 {
		return nil
	}

	rows, err := q.QueryContext(ctx, `
	SELECT c.message_id, c.id, c.text, c.author_id, u.name, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.message_id = ANY($1::uuid[])
	ORDER BY c.seq`, idStrings(messageIds))
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			messageId domain.MsgId
			comment   domain.BoardComment
		)
		if err := rows.Scan(&messageId, &comment.Id, &comment.Text, &comment.AuthorId, &comment.AuthorName, &comment.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan comment row: %w", err)
		}
		if msg, ok := idToMessage[messageId]; ok {
			msg.Comments = append(msg.Comments, &comment)
		}
	}

	return rows.Err()
}
