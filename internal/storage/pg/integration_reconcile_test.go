package pg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
)

func TestUnlinkedBackRefs(t *testing.T) {
	clean(t)
	ctx := context.Background()
	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")

	linked := mustCreateMessage(t, alice, "Linked message")
	require.NoError(t, storage.AppendMessageToUser(ctx, alice.Id, linked.Id))
	orphan := mustCreateMessage(t, alice, "Orphan message")

	c := mustCreateComment(t, bob, linked, "Half linked")
	require.NoError(t, storage.AppendCommentToUser(ctx, bob.Id, c.Id))

	refs, err := storage.UnlinkedBackRefs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.BackRef{
		{Kind: domain.BackRefUserMessage, OwnerId: alice.Id, ChildId: orphan.Id},
		{Kind: domain.BackRefMessageComment, OwnerId: linked.Id, ChildId: c.Id},
	}, refs)

	require.NoError(t, storage.AppendMessageToUser(ctx, alice.Id, orphan.Id))
	require.NoError(t, storage.AppendCommentToMessage(ctx, linked.Id, c.Id))

	refs, err = storage.UnlinkedBackRefs(ctx)
	require.NoError(t, err)
	assert.Empty(t, refs)
}
