package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/testutil"
)

// testNow is the fixed clock of test containers.
var testNow = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

// newTestTiers returns in-memory structured, flat and tiny tiers.
func newTestTiers() []domain.StorageAdapter {
	return []domain.StorageAdapter{
		testutil.NewMemoryAdapter(domain.BackendSQLite),
		testutil.NewMemoryAdapter(domain.BackendJSONFile),
		testutil.NewMemoryAdapter(domain.BackendCookie),
	}
}

// newUnopenedContainer creates an app.Container with mock dependencies
// whose board is not loaded yet.
// Default columns get IDs id-1..id-3; the first task is id-4.
func newUnopenedContainer(t *testing.T, tiers []domain.StorageAdapter) *app.Container {
	t.Helper()
	c := app.NewWithDeps(
		app.Config{DataDir: t.TempDir()},
		domain.NewDefaultConfig(),
		tiers,
		&testutil.MockClock{NowTime: testNow},
		&testutil.SeqIDs{},
		domain.NopLogger{},
	)
	c.ConfigLoader = testutil.NewMockConfigLoader()
	c.ConfigManager = testutil.NewMockConfigManager()
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// newTestContainer creates a container with a loaded default board.
func newTestContainer(t *testing.T) *app.Container {
	t.Helper()
	c := newUnopenedContainer(t, newTestTiers())
	c.Open(context.Background())
	return c
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// mustExecute runs cmd and fails the test on error.
func mustExecute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	out, err := execute(t, cmd, args...)
	require.NoError(t, err)
	return out
}

// boardOf returns the current board of c.
func boardOf(t *testing.T, c *app.Container) domain.Board {
	t.Helper()
	b, err := c.Store.Board()
	require.NoError(t, err)
	return b
}
