package pg

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

func TestCreateMessage(t *testing.T) {
	clean(t)
	ctx := context.Background()
	alice := mustCreateUser(t, "alice")

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		msg, err := storage.CreateMessage(ctx, domain.Message{Id: id, Text: "Hello world", AuthorId: alice.Id})
		require.NoError(t, err)
		assert.Equal(t, id, msg.Id)
		assert.Equal(t, alice.Id, msg.AuthorId)
		assert.Empty(t, msg.CommentIds)

		got, err := storage.Message(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Hello world", got.Text)
		assert.Equal(t, msg.CreatedAt.UTC(), got.CreatedAt.UTC())
	})

	t.Run("unknown author", func(t *testing.T) {
		before := count(t, "messages")
		_, err := storage.CreateMessage(ctx, domain.Message{Id: uuid.New(), Text: "Hello world", AuthorId: uuid.New()})
		require.Error(t, err)
		assert.ErrorIs(t, err, internal_errors.ErrNotFound)
		assert.Equal(t, internal_errors.CodeUserNotFound, internal_errors.CodeOf(err))
		assert.Equal(t, before, count(t, "messages"))
	})

	t.Run("short text rejected by schema", func(t *testing.T) {
		before := count(t, "messages")
		_, err := storage.CreateMessage(ctx, domain.Message{Id: uuid.New(), Text: "hey", AuthorId: alice.Id})
		assert.ErrorIs(t, err, internal_errors.ErrValidation)
		assert.Equal(t, before, count(t, "messages"))
	})
}

func TestGetMessageNotFound(t *testing.T) {
	clean(t)
	_, err := storage.Message(context.Background(), uuid.New())
	assert.ErrorIs(t, err, internal_errors.ErrNotFound)
	assert.Equal(t, internal_errors.CodeMessageNotFound, internal_errors.CodeOf(err))
}

func TestCreateComment(t *testing.T) {
	clean(t)
	ctx := context.Background()
	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")
	msg := mustCreateMessage(t, alice, "Hello world")

	t.Run("success", func(t *testing.T) {
		c, err := storage.CreateComment(ctx, domain.Comment{Id: uuid.New(), Text: "Hi Alice", AuthorId: bob.Id, MessageId: msg.Id})
		require.NoError(t, err)
		assert.Equal(t, bob.Id, c.AuthorId)
		assert.Equal(t, msg.Id, c.MessageId)
	})

	t.Run("unknown message leaves comments unchanged", func(t *testing.T) {
		before := count(t, "comments")
		_, err := storage.CreateComment(ctx, domain.Comment{Id: uuid.New(), Text: "Hi Alice", AuthorId: bob.Id, MessageId: uuid.New()})
		assert.ErrorIs(t, err, internal_errors.ErrNotFound)
		assert.Equal(t, internal_errors.CodeMessageNotFound, internal_errors.CodeOf(err))
		assert.Equal(t, before, count(t, "comments"))
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := storage.CreateComment(ctx, domain.Comment{Id: uuid.New(), Text: "Hi Alice", AuthorId: uuid.New(), MessageId: msg.Id})
		assert.Equal(t, internal_errors.CodeUserNotFound, internal_errors.CodeOf(err))
	})
}

func TestLinkCommentExactlyOnce(t *testing.T) {
	clean(t)
	ctx := context.Background()
	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")
	msg := mustCreateMessage(t, alice, "Hello world")
	first := mustCreateComment(t, bob, msg, "first comment")
	second := mustCreateComment(t, bob, msg, "second comment")

	for i := 0; i < 2; i++ {
		for _, c := range []domain.Comment{first, second} {
			require.NoError(t, storage.AppendCommentToUser(ctx, bob.Id, c.Id))
			require.NoError(t, storage.AppendCommentToMessage(ctx, msg.Id, c.Id))
		}
	}

	gotUser, err := storage.User(ctx, bob.Id)
	require.NoError(t, err)
	gotMsg, err := storage.Message(ctx, msg.Id)
	require.NoError(t, err)

	assert.Equal(t, []domain.CommentId{first.Id, second.Id}, gotUser.CommentIds)
	assert.Equal(t, []domain.CommentId{first.Id, second.Id}, gotMsg.CommentIds)

	err = storage.AppendCommentToMessage(ctx, uuid.New(), first.Id)
	assert.ErrorIs(t, err, internal_errors.ErrNotFound)
}
