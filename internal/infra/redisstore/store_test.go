package redisstore

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client), mr
}

func TestStore_WriteRead(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, domain.BoardBackupKey, []byte(`{"hash":"x"}`)))
	got, err := store.Read(ctx, domain.BoardBackupKey)

	require.NoError(t, err)
	assert.Equal(t, `{"hash":"x"}`, string(got))
	assert.Equal(t, Expiry, mr.TTL(KeyPrefix+domain.BoardBackupKey))
}

func TestStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "k", []byte("v")))

	mr.FastForward(Expiry + time.Second)

	_, err := store.Read(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SizeCap(t *testing.T) {
	store, mr := newTestStore(t)

	err := store.Write(context.Background(), "k", []byte(strings.Repeat("x", MaxValueSize+1)))

	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	assert.False(t, mr.Exists(KeyPrefix+"k"))
}

func TestStore_Clear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "k", []byte("v")))

	require.NoError(t, store.Clear(ctx, "k"))
	require.NoError(t, store.Clear(ctx, "k"))

	_, err := store.Read(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := store.Write(ctx, "k", []byte("v"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPayloadTooLarge)

	_, err = store.Read(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
