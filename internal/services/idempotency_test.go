// internal/services/idempotency_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryIdempotencyStore()
	store.now = func() time.Time { return now }

	acquired, err := store.Acquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = store.Acquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "key is held inside the window")

	acquired, err = store.Acquire(ctx, "other", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "keys are independent")

	now = now.Add(10 * time.Second)
	acquired, err = store.Acquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "key is free once the window has passed")
}

func TestMemoryIdempotencyStoreRelease(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore()

	acquired, _ := store.Acquire(ctx, "k", time.Minute)
	require.True(t, acquired)

	require.NoError(t, store.Release(ctx, "k"))

	acquired, _ = store.Acquire(ctx, "k", time.Minute)
	assert.True(t, acquired)
}

func TestMemoryIdempotencyStoreSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	store := NewMemoryIdempotencyStore()
	store.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		_, _ = store.Acquire(ctx, key, time.Second)
	}
	now = now.Add(time.Minute)
	_, _ = store.Acquire(ctx, "d", time.Second)

	assert.Len(t, store.entries, 1)
}
