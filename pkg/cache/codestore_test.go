package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCodeStore_SetGetDelete(t *testing.T) {
	store := NewMemoryCodeStore()
	defer store.Close()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Set(ctx, "a@example.com", "123456", time.Minute))
	val, ok, err := store.Get(ctx, "a@example.com")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "123456", val)

	assert.NoError(t, store.Delete(ctx, "a@example.com"))
	_, ok, _ = store.Get(ctx, "a@example.com")
	assert.False(t, ok)
}

func TestMemoryCodeStore_Overwrite(t *testing.T) {
	store := NewMemoryCodeStore()
	defer store.Close()
	ctx := context.Background()

	assert.NoError(t, store.Set(ctx, "a@example.com", "111111", time.Minute))
	assert.NoError(t, store.Set(ctx, "a@example.com", "222222", time.Minute))

	val, ok, _ := store.Get(ctx, "a@example.com")
	assert.True(t, ok)
	assert.Equal(t, "222222", val)
}

func TestMemoryCodeStore_Expiry(t *testing.T) {
	store := NewMemoryCodeStore()
	defer store.Close()
	ctx := context.Background()

	assert.NoError(t, store.Set(ctx, "a@example.com", "123456", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, ok, err := store.Get(ctx, "a@example.com")
	assert.NoError(t, err)
	assert.False(t, ok)
}
