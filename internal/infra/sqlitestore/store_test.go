package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_WriteRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "k", []byte("v1")))
	got, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Write(ctx, "k", []byte("v2")))
	got, err = s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestStore_ReadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "k", []byte("v")))

	require.NoError(t, s.Clear(ctx, "k"))
	require.NoError(t, s.Clear(ctx, "k"), "clearing an absent key is not an error")

	_, err := s.Read(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_LargeValue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	big := make([]byte, 8<<20)
	for i := range big {
		big[i] = byte('a' + i%26)
	}

	require.NoError(t, s.Write(ctx, "big", big))
	got, err := s.Read(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), DBFileName)
	ctx := context.Background()

	s1, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s1.Write(ctx, domain.BoardStateKey, []byte("state")))
	require.NoError(t, s1.Close())

	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Read(ctx, domain.BoardStateKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), got)
}

func TestStore_Closed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())
	ctx := context.Background()

	assert.ErrorIs(t, s.Write(ctx, "k", nil), domain.ErrStorageClosed)
	_, err := s.Read(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrStorageClosed)
	assert.ErrorIs(t, s.Clear(ctx, "k"), domain.ErrStorageClosed)
	assert.NoError(t, s.Close())
}

func TestNew_OpenError(t *testing.T) {
	orig := openDB
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { openDB = orig })

	_, err := New(filepath.Join(t.TempDir(), DBFileName))

	assert.ErrorContains(t, err, "open database")
}

func TestStore_CanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Write(ctx, "k", []byte("v")))
}
