// Package cookiestore provides the tiny storage tier as a cookie jar file.
//
// Each entry is one Set-Cookie line. Values are query-escaped so that any
// payload fits the cookie value grammar, and each entry carries an Expires
// attribute. Expired entries read as absent and are pruned on the next write.
package cookiestore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
)

const (
	// MaxValueSize is the largest value accepted, in characters.
	MaxValueSize = 3000
	// Expiry is the lifetime of an entry after its last write.
	Expiry = 30 * 24 * time.Hour
	// FileName is the jar file name inside the data directory.
	FileName = "cookies.txt"
)

// Store implements domain.StorageAdapter using a cookie jar file.
type Store struct {
	clock domain.Clock
	path  string
	mu    sync.Mutex
}

// New creates a new Store for the given jar path.
// The file does not need to exist; it will be created on first write.
func New(path string, clock domain.Clock) *Store {
	return &Store{
		path:  path,
		clock: clock,
	}
}

// Name returns the backend name.
func (s *Store) Name() string {
	return domain.BackendCookie
}

// Write stores value under key with a fresh expiry. Values over
// MaxValueSize characters are rejected with domain.ErrPayloadTooLarge.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if n := len([]rune(string(value))); n > MaxValueSize {
		return fmt.Errorf("cookiestore: %d characters: %w", n, domain.ErrPayloadTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cookies, err := s.load()
	if err != nil {
		return err
	}
	now := s.clock.Now()
	kept := cookies[:0]
	for _, c := range cookies {
		if c.Name != key && !expired(c, now) {
			kept = append(kept, c)
		}
	}
	kept = append(kept, &http.Cookie{
		Name:    key,
		Value:   url.QueryEscape(string(value)),
		Path:    "/",
		Expires: now.Add(Expiry).Truncate(time.Second),
	})
	return s.save(kept)
}

// Read returns the value under key, or domain.ErrNotFound if it is absent
// or expired.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cookies, err := s.load()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for _, c := range cookies {
		if c.Name != key {
			continue
		}
		if expired(c, now) {
			return nil, domain.ErrNotFound
		}
		value, err := url.QueryUnescape(c.Value)
		if err != nil {
			return nil, fmt.Errorf("cookiestore: unescape %q: %w", key, err)
		}
		return []byte(value), nil
	}
	return nil, domain.ErrNotFound
}

// Clear removes key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cookies, err := s.load()
	if err != nil {
		return err
	}
	kept := cookies[:0]
	for _, c := range cookies {
		if c.Name != key {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cookies) {
		return nil
	}
	return s.save(kept)
}

func expired(c *http.Cookie, now time.Time) bool {
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

// load parses the jar. Lines that do not parse are skipped.
func (s *Store) load() ([]*http.Cookie, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cookie jar: %w", err)
	}

	var cookies []*http.Cookie
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := http.ParseSetCookie(line)
		if err != nil {
			continue
		}
		cookies = append(cookies, c)
	}
	return cookies, nil
}

func (s *Store) save(cookies []*http.Cookie) error {
	var b strings.Builder
	b.WriteString("# taskboard cookie jar\n")
	for _, c := range cookies {
		line := c.String()
		if line == "" {
			return fmt.Errorf("cookiestore: invalid cookie name %q", c.Name)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return writeAtomic(s.path, []byte(b.String()), 0o600)
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Ensure Store implements StorageAdapter.
var _ domain.StorageAdapter = (*Store)(nil)
