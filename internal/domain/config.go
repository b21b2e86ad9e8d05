package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Storage  StorageConfig `toml:"storage"`
	Redis    RedisConfig   `toml:"redis"`
	Backup   BackupConfig  `toml:"backup"`
	Server   ServerConfig  `toml:"server"`
	Log      LogConfig     `toml:"log"`
	Search   SearchConfig  `toml:"search"`
}

// StorageConfig holds tier selection from [storage] section.
type StorageConfig struct {
	Dir           string `toml:"dir,omitempty"`            // Data directory
	Structured    string `toml:"structured,omitempty"`     // Structured tier: "sqlite" (default) or "git"
	Tiny          string `toml:"tiny,omitempty"`           // Tiny tier: "cookie" (default) or "redis"
	Timeout       string `toml:"timeout,omitempty"`        // Per-tier operation timeout (Go duration)
	EncryptionKey string `toml:"encryption_key,omitempty"` // Hex AES-256 key sealing the structured tier
}

// RedisConfig holds settings for the redis tiny tier from [redis] section.
type RedisConfig struct {
	Addr     string `toml:"addr,omitempty"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db,omitempty"`
}

// BackupConfig holds periodic backup settings from [backup] section.
type BackupConfig struct {
	Schedule string `toml:"schedule,omitempty"` // cron spec used by `serve`
}

// ServerConfig holds HTTP API settings from [server] section.
type ServerConfig struct {
	Addr string `toml:"addr,omitempty"`
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
}

// SearchConfig holds search settings from [search] section.
type SearchConfig struct {
	Limit int `toml:"limit,omitempty"` // Maximum results (negative = unlimited)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + data dir).
	Load() (*Config, error)
}

// Storage backend names.
const (
	BackendSQLite   = "sqlite"
	BackendGit      = "git"
	BackendJSONFile = "jsonfile"
	BackendCookie   = "cookie"
	BackendRedis    = "redis"
)

// Default configuration values.
const (
	DefaultLogLevel       = "info"
	DefaultStorageTimeout = 5 * time.Second
	DefaultBackupSchedule = "@every 5m"
	DefaultServerAddr     = "127.0.0.1:7420"
	DefaultRedisAddr      = "127.0.0.1:6379"
	DefaultSearchLimit    = 20
)

// Directory and file names.
const (
	AppDirName     = "taskboard"   // Directory name under XDG dirs
	ConfigFileName = "config.toml" // Config file name
	LogFileName    = "taskboard.log"
	DirEnvVar      = "TASKBOARD_DIR" // Overrides the data directory
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Structured: BackendSQLite,
			Tiny:       BackendCookie,
			Timeout:    DefaultStorageTimeout.String(),
		},
		Redis:  RedisConfig{Addr: DefaultRedisAddr},
		Backup: BackupConfig{Schedule: DefaultBackupSchedule},
		Server: ServerConfig{Addr: DefaultServerAddr},
		Log:    LogConfig{Level: DefaultLogLevel},
		Search: SearchConfig{Limit: DefaultSearchLimit},
	}
}

// StorageTimeout returns the parsed per-tier timeout, or the default when
// the configured value is empty or invalid.
func (c *Config) StorageTimeout() time.Duration {
	d, err := time.ParseDuration(c.Storage.Timeout)
	if err != nil || d <= 0 {
		return DefaultStorageTimeout
	}
	return d
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// DefaultDataDir returns the default data directory.
// dataHome is typically XDG_DATA_HOME or ~/.local/share (resolved by caller).
func DefaultDataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// LogPath returns the log file path inside the data directory.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", LogFileName)
}

// RenderConfigTemplate renders a commented config file from the given Config.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}

// ConfigInfo holds information about a config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetDataConfigInfo returns information about the data-dir config file.
	GetDataConfigInfo() ConfigInfo
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo
	// InitDataConfig creates a data-dir config file from the template.
	InitDataConfig(cfg *Config) error
	// InitGlobalConfig creates a global config file from the template.
	InitGlobalConfig(cfg *Config) error
}
