package service

import (
	"context"
	"testing"
	"time"

	"medical-appointment-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreLifecycle(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTokenStore(client, quietLogger())
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Store(ctx, userID, "t1", jwt.AccessToken, time.Minute))

	ok, err := store.Exists(ctx, userID, "t1", jwt.AccessToken)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, userID, "t1", jwt.RefreshToken)
	require.NoError(t, err)
	assert.False(t, ok, "token types are tracked separately")

	require.NoError(t, store.Revoke(ctx, userID, "t1", jwt.AccessToken))
	ok, err = store.Exists(ctx, userID, "t1", jwt.AccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStoreExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client, quietLogger())
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Store(ctx, userID, "t1", jwt.AccessToken, time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := store.Exists(ctx, userID, "t1", jwt.AccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStoreRevokeAllOnlyTouchesUser(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTokenStore(client, quietLogger())
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, store.Store(ctx, alice, "a1", jwt.AccessToken, time.Minute))
	require.NoError(t, store.Store(ctx, alice, "a2", jwt.RefreshToken, time.Minute))
	require.NoError(t, store.Store(ctx, bob, "b1", jwt.AccessToken, time.Minute))

	require.NoError(t, store.RevokeAll(ctx, alice))

	ok, _ := store.Exists(ctx, alice, "a1", jwt.AccessToken)
	assert.False(t, ok)
	ok, _ = store.Exists(ctx, alice, "a2", jwt.RefreshToken)
	assert.False(t, ok)
	ok, _ = store.Exists(ctx, bob, "b1", jwt.AccessToken)
	assert.True(t, ok)
}
