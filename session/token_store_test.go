package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTokenStore(rdb, time.Hour), mr
}

func TestCreateGetDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "jti-1", "user-1"))

	rec, err := s.Get(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", rec.UserID)

	require.NoError(t, s.Delete(ctx, "jti-1"))
	_, err = s.Get(ctx, "jti-1")
	assert.Error(t, err)
}

func TestTokensExpire(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "jti-1", "user-1"))
	mr.FastForward(2 * time.Hour)

	_, err := s.Get(ctx, "jti-1")
	assert.Error(t, err)
}

func TestRevokeAllForUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "jti-1", "user-1"))
	require.NoError(t, s.Create(ctx, "jti-2", "user-1"))
	require.NoError(t, s.Create(ctx, "jti-3", "user-2"))

	require.NoError(t, s.RevokeAllForUser(ctx, "user-1"))

	_, err := s.Get(ctx, "jti-1")
	assert.Error(t, err)
	_, err = s.Get(ctx, "jti-2")
	assert.Error(t, err)

	// 其他用户不受影响
	rec, err := s.Get(ctx, "jti-3")
	require.NoError(t, err)
	assert.Equal(t, "user-2", rec.UserID)
}
