package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/taskboard/internal/domain"
)

var _ domain.ConfigManager = (*Manager)(nil)

// ResolveDataDir returns the board data directory. TASKBOARD_DIR wins when
// set; otherwise it is taskboard under $XDG_DATA_HOME, falling back to
// ~/.local/share.
func ResolveDataDir() (string, error) {
	if dir := os.Getenv(domain.DirEnvVar); dir != "" {
		return filepath.Clean(dir), nil
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DefaultDataDir(dataHome), nil
}

// defaultGlobalConfigDir returns taskboard under $XDG_CONFIG_HOME or
// ~/.config, or "" when no home directory is known.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Manager reads and creates the data-dir and global config.toml files.
type Manager struct {
	dataDir   string
	globalDir string // Empty disables the global tier
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithGlobalDir replaces the XDG global config directory. An empty dir
// disables the global tier.
func WithGlobalDir(dir string) ManagerOption {
	return func(m *Manager) { m.globalDir = dir }
}

// NewManager creates a Manager for the board stored in dataDir.
func NewManager(dataDir string, opts ...ManagerOption) *Manager {
	m := &Manager{dataDir: dataDir, globalDir: defaultGlobalConfigDir()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetDataConfigInfo describes <dataDir>/config.toml.
func (m *Manager) GetDataConfigInfo() domain.ConfigInfo {
	return readInfo(configPath(m.dataDir))
}

// GetGlobalConfigInfo describes the global config.toml. Path is empty when
// the global tier is disabled.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	return readInfo(configPath(m.globalDir))
}

// InitDataConfig writes the commented template into the data directory.
func (m *Manager) InitDataConfig(cfg *domain.Config) error {
	return writeTemplate(m.dataDir, cfg)
}

// InitGlobalConfig writes the commented template into the global directory.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalDir == "" {
		return errors.New("global config directory not available")
	}
	return writeTemplate(m.globalDir, cfg)
}

func configPath(dir string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, domain.ConfigFileName)
}

func readInfo(path string) domain.ConfigInfo {
	if path == "" {
		return domain.ConfigInfo{}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{Path: path, Content: string(content), Exists: true}
}

// writeTemplate creates dir and an exclusive config.toml inside it. An
// existing file is left untouched and reported as domain.ErrConfigExists.
func writeTemplate(dir string, cfg *domain.Config) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(configPath(dir), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return domain.ErrConfigExists
	}
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	if _, err := f.WriteString(domain.RenderConfigTemplate(cfg)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write config file: %w", err)
	}
	return f.Close()
}
