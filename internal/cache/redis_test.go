package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBackendRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	backend := NewRedis(RedisOptions{Addr: mr.Addr()})
	t.Cleanup(func() { _ = backend.Close() })
	ctx := context.Background()

	require.NoError(t, backend.Ping(ctx))
	require.NoError(t, backend.Set(ctx, "movies:genres", []byte(`[{"id":28}]`), GenresTTL))

	got, err := backend.Get(ctx, "movies:genres")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":28}]`, string(got))
	assert.Equal(t, GenresTTL, mr.TTL("movies:genres"))

	mr.FastForward(GenresTTL + time.Second)
	_, err = backend.Get(ctx, "movies:genres")
	assert.True(t, errors.Is(err, ErrMiss), "expected miss after expiry, got %v", err)
}

func TestRedisBackendUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	backend := NewRedis(RedisOptions{Addr: mr.Addr()})
	t.Cleanup(func() { _ = backend.Close() })
	mr.Close()

	_, err := backend.Get(context.Background(), "movies:genres")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss))
}
