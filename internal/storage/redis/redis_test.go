package redis

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/ChristopherDonnelly/message-board/internal/config"
	"github.com/ChristopherDonnelly/message-board/internal/domain"
)

var store *SessionStore

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7.2-alpine")
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}
	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		log.Fatalf("failed to obtain container endpoint: %s", err)
	}

	store, err = New(&config.Config{Public: config.Public{
		StoreTimeout: 5 * time.Second,
		Redis:        config.Redis{Addr: addr},
	}})
	if err != nil {
		log.Fatalf("failed to connect to redis container: %s", err)
	}

	exitCode := m.Run()
	store.Close()
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(exitCode)
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	auth := domain.AuthContext{UserId: uuid.New(), Name: "alice"}

	require.NoError(t, store.Save(ctx, id, auth, time.Minute))

	got, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, auth, got)

	ttl, err := store.client.TTL(ctx, sessionKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestGetUnknown(t *testing.T) {
	got, ok, err := store.Get(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, got.Authenticated())
}

func TestGetMalformed(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, store.client.HSet(ctx, sessionKey(id), fieldUserId, "not-a-uuid", fieldName, "x").Err())

	_, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, store.Save(ctx, id, domain.AuthContext{UserId: uuid.New(), Name: "bob"}, time.Second))

	assert.Eventually(t, func() bool {
		_, ok, err := store.Get(ctx, id)
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestTouch(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, store.Save(ctx, id, domain.AuthContext{UserId: uuid.New(), Name: "bob"}, time.Second))
	require.NoError(t, store.Touch(ctx, id, time.Hour))

	ttl, err := store.client.TTL(ctx, sessionKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Minute)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, store.Save(ctx, id, domain.AuthContext{UserId: uuid.New(), Name: "bob"}, time.Minute))
	require.NoError(t, store.Delete(ctx, id))

	_, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Delete(ctx, id), "deleting twice is fine")
}

func TestPing(t *testing.T) {
	assert.NoError(t, store.Ping(context.Background()))
}
