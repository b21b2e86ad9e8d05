package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/boardstore"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/recovery"
	"github.com/runoshun/taskboard/internal/testutil"
)

var testNow = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

// testEnv is a loaded store over in-memory tiers. The default board gets
// columns id-1 (To Do), id-2 (In Progress) and id-3 (Done).
type testEnv struct {
	store  *boardstore.Store
	engine *recovery.Engine
	clock  *testutil.MockClock
	tiers  []*testutil.MemoryAdapter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		clock: &testutil.MockClock{NowTime: testNow},
		tiers: []*testutil.MemoryAdapter{
			testutil.NewMemoryAdapter(domain.BackendSQLite),
			testutil.NewMemoryAdapter(domain.BackendJSONFile),
			testutil.NewMemoryAdapter(domain.BackendCookie),
		},
	}
	adapters := make([]domain.StorageAdapter, len(env.tiers))
	for i, a := range env.tiers {
		adapters[i] = a
	}
	env.engine = recovery.New(adapters, env.clock, nil, time.Second)
	env.store = boardstore.New(env.tiers[0], env.engine, boardstore.Options{
		Clock:   env.clock,
		IDs:     &testutil.SeqIDs{},
		Timeout: time.Second,
	})
	t.Cleanup(env.store.Close)
	env.store.Load(context.Background())
	return env
}

func (e *testEnv) board(t *testing.T) domain.Board {
	t.Helper()
	b, err := e.store.Board()
	require.NoError(t, err)
	return b
}

func (e *testEnv) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.store.Flush(ctx))
}

// addTask creates a task through the store and returns it.
func (e *testEnv) addTask(t *testing.T, columnID, title string) domain.Task {
	t.Helper()
	task, err := e.store.AddTask(columnID, title)
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T {
	return &v
}
