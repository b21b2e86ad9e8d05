package gitstore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
)

func setupTestRepo(t *testing.T) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(t.TempDir(), false)
	require.NoError(t, err)
	return repo
}

func TestStore_WriteRead(t *testing.T) {
	store := NewWithRepo(setupTestRepo(t), "taskboard-test")
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, domain.BoardStateKey, []byte("payload-1")))
	got, err := store.Read(ctx, domain.BoardStateKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload-1"), got)

	require.NoError(t, store.Write(ctx, domain.BoardStateKey, []byte("payload-2")))
	got, err = store.Read(ctx, domain.BoardStateKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload-2"), got)
}

func TestStore_RefLayout(t *testing.T) {
	repo := setupTestRepo(t)
	store := NewWithRepo(repo, "taskboard-test")

	require.NoError(t, store.Write(context.Background(), domain.BoardBackupKey, []byte(`{"data":"x"}`)))

	ref, err := repo.Reference(plumbing.ReferenceName("refs/taskboard-test/board-backup"), true)
	require.NoError(t, err)
	blob, err := repo.BlobObject(ref.Hash())
	require.NoError(t, err)
	assert.Positive(t, blob.Size)
}

func TestStore_PreservesMultilineValues(t *testing.T) {
	store := NewWithRepo(setupTestRepo(t), "taskboard-test")
	ctx := context.Background()
	value := "{\n  \"columns\": [],\n  \"note\": \"key: value\"\n}\n"

	require.NoError(t, store.Write(ctx, "k", []byte(value)))
	got, err := store.Read(ctx, "k")

	require.NoError(t, err)
	assert.Equal(t, value, string(got))
}

func TestStore_ReadMissing(t *testing.T) {
	store := NewWithRepo(setupTestRepo(t), "taskboard-test")

	_, err := store.Read(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Clear(t *testing.T) {
	store := NewWithRepo(setupTestRepo(t), "taskboard-test")
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "k", []byte("v")))

	require.NoError(t, store.Clear(ctx, "k"))
	require.NoError(t, store.Clear(ctx, "k"))

	_, err := store.Read(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_InvalidKey(t *testing.T) {
	store := NewWithRepo(setupTestRepo(t), "taskboard-test")

	for _, key := range []string{"", "a b", "../x", "a/b", strings.Repeat(".", 3)} {
		assert.Error(t, store.Write(context.Background(), key, []byte("v")), key)
	}
}

func TestNew_InitializesBareRepo(t *testing.T) {
	path := filepath.Join(t.TempDir(), RepoDirName)
	ctx := context.Background()

	s1, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s1.Write(ctx, "k", []byte("v")))

	s2, err := New(path)
	require.NoError(t, err)
	got, err := s2.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, domain.BackendGit, s2.Name())
}

func TestStore_CanceledContext(t *testing.T) {
	store := NewWithRepo(setupTestRepo(t), "taskboard-test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Write(ctx, "k", []byte("v")), context.Canceled)
	_, err := store.Read(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
