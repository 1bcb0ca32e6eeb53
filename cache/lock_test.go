package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/kasuganosora/fighterdemo/server/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) cache.Cache {
	c, err := cache.NewCache(cache.CacheConfig{})
	require.NoError(t, err)
	return c
}

func TestLock_Exclusive(t *testing.T) {
	c := newLocal(t)
	ctx := context.Background()

	release, err := cache.Lock(ctx, c, "lock:seed", time.Minute)
	require.NoError(t, err)

	_, err = cache.Lock(ctx, c, "lock:seed", time.Minute)
	assert.ErrorIs(t, err, cache.ErrLocked)

	release(ctx)

	release2, err := cache.Lock(ctx, c, "lock:seed", time.Minute)
	require.NoError(t, err)
	release2(ctx)
}

func TestLock_StaleReleaseKeepsNewOwner(t *testing.T) {
	c := newLocal(t)
	ctx := context.Background()

	release, err := cache.Lock(ctx, c, "lock:seed", 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	_, err = cache.Lock(ctx, c, "lock:seed", time.Minute)
	require.NoError(t, err)

	// the first holder's lease expired; releasing must not drop the new lock
	release(ctx)
	_, err = cache.Lock(ctx, c, "lock:seed", time.Minute)
	assert.ErrorIs(t, err, cache.ErrLocked)
}
