package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage keys shared by every tier.
const (
	BoardStateKey  = "board-state"  // Primary snapshot (structured tier only)
	BoardBackupKey = "board-backup" // Backup record (all tiers)
)

// StorageAdapter is one persistence tier.
// Implementations report failures as returned errors and never panic.
type StorageAdapter interface {
	// Name identifies the backend (e.g. "sqlite", "jsonfile", "cookie").
	Name() string

	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key string, value []byte) error

	// Read returns the value under key, or ErrNotFound if absent.
	Read(ctx context.Context, key string) ([]byte, error)

	// Clear removes key. Clearing an absent key is not an error.
	Clear(ctx context.Context, key string) error
}

// Logger provides category-based logging.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards all log entries.
type NopLogger struct{}

func (NopLogger) Debug(string, string) {}
func (NopLogger) Info(string, string)  {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time in UTC without a monotonic reading,
// so values survive a JSON round trip unchanged.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator produces unique entity IDs.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator implements IDGenerator with random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
