// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskboard/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskboard)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// Load returns the merged configuration (defaults + global + data dir).
// Data-dir config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	// Load global config first
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Load data-dir config
	local, err := l.LoadData()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Start with default config
	base := domain.NewDefaultConfig()
	base.Storage.Dir = l.dataDir

	// Merge: default <- global <- data dir (later takes precedence)
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}

	if err := validate(base); err != nil {
		return nil, err
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	globalPath := filepath.Join(l.globalConfDir, domain.ConfigFileName)
	return l.loadFile(globalPath)
}

// LoadData returns only the data-dir configuration.
func (l *Loader) LoadData() (*domain.Config, error) {
	if l.dataDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.dataDir, domain.ConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// validate rejects backend names that no tier implements.
func validate(cfg *domain.Config) error {
	switch cfg.Storage.Structured {
	case domain.BackendSQLite, domain.BackendGit:
	default:
		return fmt.Errorf("storage.structured = %q: %w", cfg.Storage.Structured, domain.ErrUnknownBackend)
	}
	switch cfg.Storage.Tiny {
	case domain.BackendCookie, domain.BackendRedis:
	default:
		return fmt.Errorf("storage.tiny = %q: %w", cfg.Storage.Tiny, domain.ErrUnknownBackend)
	}
	return nil
}

// section walks the keys of a TOML table and reports unknown ones.
func section(name string, value any, warnings *[]string, fn func(k string, v any) bool) {
	m, ok := value.(map[string]any)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf("[%s] is not a table", name))
		return
	}
	for k, v := range m {
		if !fn(k, v) {
			*warnings = append(*warnings, fmt.Sprintf("unknown key in [%s]: %s", name, k))
		}
	}
}

func setString(dst *string, v any) bool {
	if s, ok := v.(string); ok {
		*dst = s
	}
	return true
}

func setInt(dst *int, v any) bool {
	if n, ok := v.(int64); ok {
		*dst = int(n)
	}
	return true
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for name, value := range raw {
		switch name {
		case "storage":
			section(name, value, &warnings, func(k string, v any) bool {
				switch k {
				case "dir":
					return setString(&res.Storage.Dir, v)
				case "structured":
					return setString(&res.Storage.Structured, v)
				case "tiny":
					return setString(&res.Storage.Tiny, v)
				case "timeout":
					return setString(&res.Storage.Timeout, v)
				case "encryption_key":
					return setString(&res.Storage.EncryptionKey, v)
				}
				return false
			})
		case "redis":
			section(name, value, &warnings, func(k string, v any) bool {
				switch k {
				case "addr":
					return setString(&res.Redis.Addr, v)
				case "password":
					return setString(&res.Redis.Password, v)
				case "db":
					return setInt(&res.Redis.DB, v)
				}
				return false
			})
		case "backup":
			section(name, value, &warnings, func(k string, v any) bool {
				if k == "schedule" {
					return setString(&res.Backup.Schedule, v)
				}
				return false
			})
		case "server":
			section(name, value, &warnings, func(k string, v any) bool {
				if k == "addr" {
					return setString(&res.Server.Addr, v)
				}
				return false
			})
		case "search":
			section(name, value, &warnings, func(k string, v any) bool {
				if k == "limit" {
					return setInt(&res.Search.Limit, v)
				}
				return false
			})
		case "log":
			section(name, value, &warnings, func(k string, v any) bool {
				if k == "level" {
					return setString(&res.Log.Level, v)
				}
				return false
			})
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", name))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	if override.Storage.Dir != "" {
		result.Storage.Dir = override.Storage.Dir
	}
	if override.Storage.Structured != "" {
		result.Storage.Structured = override.Storage.Structured
	}
	if override.Storage.Tiny != "" {
		result.Storage.Tiny = override.Storage.Tiny
	}
	if override.Storage.Timeout != "" {
		result.Storage.Timeout = override.Storage.Timeout
	}
	if override.Storage.EncryptionKey != "" {
		result.Storage.EncryptionKey = override.Storage.EncryptionKey
	}
	if override.Redis.Addr != "" {
		result.Redis.Addr = override.Redis.Addr
	}
	if override.Redis.Password != "" {
		result.Redis.Password = override.Redis.Password
	}
	if override.Redis.DB != 0 {
		result.Redis.DB = override.Redis.DB
	}
	if override.Backup.Schedule != "" {
		result.Backup.Schedule = override.Backup.Schedule
	}
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Search.Limit != 0 {
		result.Search.Limit = override.Search.Limit
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}

	return &result
}
