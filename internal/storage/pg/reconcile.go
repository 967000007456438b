package pg

import (
	"context"
	"fmt"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

// UnlinkedBackRefs lists children whose owner's id array lacks them, in
// creation order. The child rows are authoritative.
func (s *Storage) UnlinkedBackRefs(ctx context.Context) ([]domain.BackRef, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
	SELECT kind, owner_id, child_id FROM (
		SELECT $1::text AS kind, m.author_id AS owner_id, m.id AS child_id, m.seq AS seq
		FROM messages m JOIN users u ON u.id = m.author_id
		WHERE NOT (m.id = ANY(u.message_ids))
		UNION ALL
		SELECT $2::text, c.author_id, c.id, c.seq
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE NOT (c.id = ANY(u.comment_ids))
		UNION ALL
		SELECT $3::text, c.message_id, c.id, c.seq
		FROM comments c JOIN messages m ON m.id = c.message_id
		WHERE NOT (c.id = ANY(m.comment_ids))
	) missing
	ORDER BY kind, seq`,
		domain.BackRefUserMessage, domain.BackRefUserComment, domain.BackRefMessageComment)
	if err != nil {
		return nil, internal_errors.Storage("list unlinked back-references", err)
	}
	defer rows.Close()

	var refs []domain.BackRef
	for rows.Next() {
		var ref domain.BackRef
		if err := rows.Scan(&ref.Kind, &ref.OwnerId, &ref.ChildId); err != nil {
			return nil, internal_errors.Storage("list unlinked back-references", fmt.Errorf("failed to scan row: %w", err))
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, internal_errors.Storage("list unlinked back-references", err)
	}
	return refs, nil
}
