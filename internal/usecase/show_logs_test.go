package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
)

func TestShowLogs_Execute(t *testing.T) {
	dataDir := t.TempDir()
	logPath := domain.LogPath(dataDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(logPath), 0o755))
	require.NoError(t, os.WriteFile(logPath, []byte("line1\nline2\nline3\n"), 0o644))
	uc := NewShowLogs(dataDir)

	t.Run("all lines", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), ShowLogsInput{})

		require.NoError(t, err)
		assert.Equal(t, logPath, out.LogPath)
		assert.Equal(t, "line1\nline2\nline3", out.Content)
	})

	t.Run("last lines", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), ShowLogsInput{Lines: 2})

		require.NoError(t, err)
		assert.Equal(t, "line2\nline3", out.Content)
	})
}

func TestShowLogs_Execute_NoFile(t *testing.T) {
	uc := NewShowLogs(t.TempDir())

	_, err := uc.Execute(context.Background(), ShowLogsInput{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
