// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// SeqIDs is a domain.IDGenerator returning id-1, id-2, ...
type SeqIDs struct {
	Prefix string
	mu     sync.Mutex
	n      int
}

// NewID returns the next sequential ID.
func (s *SeqIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

// MemoryAdapter is an in-memory domain.StorageAdapter with failure injection.
// Fields are ordered to minimize memory padding.
type MemoryAdapter struct {
	Data     map[string][]byte
	WriteErr error
	ReadErr  error
	ClearErr error
	NameStr  string
	Writes   int
	Reads    int
	// Hang makes every operation block until its context is done.
	Hang bool
	mu   sync.Mutex
}

// NewMemoryAdapter creates a MemoryAdapter with the given backend name.
func NewMemoryAdapter(name string) *MemoryAdapter {
	return &MemoryAdapter{
		NameStr: name,
		Data:    make(map[string][]byte),
	}
}

// Name returns the configured backend name.
func (m *MemoryAdapter) Name() string {
	return m.NameStr
}

func (m *MemoryAdapter) hang(ctx context.Context) error {
	m.mu.Lock()
	hang := m.Hang
	m.mu.Unlock()
	if !hang {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

// Write stores a copy of value, or returns WriteErr.
func (m *MemoryAdapter) Write(ctx context.Context, key string, value []byte) error {
	if err := m.hang(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Data[key] = append([]byte(nil), value...)
	return nil
}

// Read returns a copy of the stored value, or ReadErr.
func (m *MemoryAdapter) Read(ctx context.Context, key string) ([]byte, error) {
	if err := m.hang(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	v, ok := m.Data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Clear removes key, or returns ClearErr.
func (m *MemoryAdapter) Clear(ctx context.Context, key string) error {
	if err := m.hang(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	delete(m.Data, key)
	return nil
}

// Get returns the stored value without going through failure injection.
func (m *MemoryAdapter) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

// Set stores a value without going through failure injection.
func (m *MemoryAdapter) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// SetHang toggles hanging.
func (m *MemoryAdapter) SetHang(hang bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hang = hang
}

// SetWriteErr sets WriteErr under the lock.
func (m *MemoryAdapter) SetWriteErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteErr = err
}

// WriteCount returns the number of Write calls that got past hanging.
func (m *MemoryAdapter) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes
}

var _ domain.StorageAdapter = (*MemoryAdapter)(nil)

// LogEntry is one line recorded by RecordingLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// RecordingLogger is a domain.Logger that keeps every entry in memory.
type RecordingLogger struct {
	entries []LogEntry
	mu      sync.Mutex
}

func (l *RecordingLogger) add(level, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Category: category, Msg: msg})
}

func (l *RecordingLogger) Debug(category, msg string) { l.add("DEBUG", category, msg) }
func (l *RecordingLogger) Info(category, msg string)  { l.add("INFO", category, msg) }
func (l *RecordingLogger) Warn(category, msg string)  { l.add("WARN", category, msg) }
func (l *RecordingLogger) Error(category, msg string) { l.add("ERROR", category, msg) }

// Entries returns a copy of the recorded entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// Contains returns true if any entry at level has a message containing substr.
func (l *RecordingLogger) Contains(level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			return true
		}
	}
	return false
}

var _ domain.Logger = (*RecordingLogger)(nil)

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitDataErr      error
	InitGlobalErr    error
	InitConfig       *domain.Config
	DataConfigInfo   domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitDataCalled   bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		DataConfigInfo: domain.ConfigInfo{
			Path:   "/test/data/taskboard/config.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/taskboard/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetDataConfigInfo returns the configured data-dir config info.
func (m *MockConfigManager) GetDataConfigInfo() domain.ConfigInfo {
	return m.DataConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitDataConfig records the call and returns configured error.
func (m *MockConfigManager) InitDataConfig(cfg *domain.Config) error {
	m.InitDataCalled = true
	m.InitConfig = cfg
	return m.InitDataErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) error {
	m.InitGlobalCalled = true
	m.InitConfig = cfg
	return m.InitGlobalErr
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// NewMockConfigLoader creates a loader returning the default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	return m.Config, m.LoadErr
}
