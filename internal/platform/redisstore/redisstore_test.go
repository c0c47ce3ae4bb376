package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestAllowFixedWindow(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := s.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d should be allowed", i+1)
	}

	ok, err := s.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Allow(ctx, "login:10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "other keys have their own window")

	mr.FastForward(2 * time.Minute)

	ok, err = s.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "window resets after expiry")
}

func TestGetSet(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	v, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, "idempotency:abc", `{"id":1}`, time.Hour))
	v, err = s.Get(ctx, "idempotency:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, v)

	mr.FastForward(2 * time.Hour)
	v, err = s.Get(ctx, "idempotency:abc")
	require.NoError(t, err)
	assert.Empty(t, v)
}
