package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()

	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.Storage.Dir)
	assert.Equal(t, domain.BackendSQLite, cfg.Storage.Structured)
	assert.Equal(t, domain.BackendCookie, cfg.Storage.Tiny)
	assert.Equal(t, domain.DefaultSearchLimit, cfg.Search.Limit)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_DataConfigOnly(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[storage]
structured = "git"
tiny = "redis"
timeout = "2s"
encryption_key = "00ff"

[redis]
addr = "10.0.0.1:6379"
password = "secret"
db = 3

[backup]
schedule = "@every 1m"

[server]
addr = "127.0.0.1:9000"

[search]
limit = -1

[log]
level = "debug"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()

	require.NoError(t, err)
	assert.Equal(t, domain.BackendGit, cfg.Storage.Structured)
	assert.Equal(t, domain.BackendRedis, cfg.Storage.Tiny)
	assert.Equal(t, "2s", cfg.Storage.Timeout)
	assert.Equal(t, "00ff", cfg.Storage.EncryptionKey)
	assert.Equal(t, domain.RedisConfig{Addr: "10.0.0.1:6379", Password: "secret", DB: 3}, cfg.Redis)
	assert.Equal(t, "@every 1m", cfg.Backup.Schedule)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, -1, cfg.Search.Limit)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_Load_MergeDataOverridesGlobal(t *testing.T) {
	dataDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[log]
level = "warn"

[server]
addr = "0.0.0.0:1"
`)
	writeConfig(t, dataDir, `
[log]
level = "error"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, globalDir).Load()

	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0:1", cfg.Server.Addr)
	assert.Equal(t, domain.DefaultBackupSchedule, cfg.Backup.Schedule)
}

func TestLoader_Load_UnknownKeysWarn(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[storage]
flavor = "vanilla"

[extras]
x = 1
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, "").Load()

	require.NoError(t, err)
	assert.Equal(t, []string{
		"unknown key in [storage]: flavor",
		"unknown section: extras",
	}, cfg.Warnings)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, "[storage\nstructured = ")

	_, err := NewLoaderWithGlobalDir(dataDir, "").Load()

	assert.Error(t, err)
}

func TestLoader_Load_UnknownBackend(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"structured", "[storage]\nstructured = \"indexeddb\"\n"},
		{"tiny", "[storage]\ntiny = \"localstorage\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := t.TempDir()
			writeConfig(t, dataDir, tt.content)

			_, err := NewLoaderWithGlobalDir(dataDir, "").Load()

			assert.ErrorIs(t, err, domain.ErrUnknownBackend)
		})
	}
}
