// Package recovery writes redundant board backups to every storage tier and
// reconstructs the board from whichever tier survived.
package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/taskboard/internal/codec"
	"github.com/runoshun/taskboard/internal/domain"
)

const logCategory = "recovery"

// Record is the backup entry stored in every tier.
type Record struct {
	Data      string `json:"data"`      // Serialized board
	Hash      string `json:"hash"`      // codec.Checksum(Data)
	Timestamp int64  `json:"timestamp"` // Epoch milliseconds
}

// TierResult is the outcome of one tier operation.
type TierResult struct {
	Err  error
	Tier string
}

// OK returns true if the tier accepted the operation.
func (r TierResult) OK() bool {
	return r.Err == nil
}

// Outcome is the result of a backup across all tiers.
type Outcome struct {
	Results []TierResult // In tier priority order
	Success bool         // At least one tier accepted the write
}

// Recovered is a board reconstructed from a backup tier.
type Recovered struct {
	Timestamp time.Time
	Source    string // Tier name
	Board     domain.Board
}

// TierStatus describes the backup held by one tier.
// Fields are ordered to minimize memory padding.
type TierStatus struct {
	Timestamp  time.Time
	Err        error
	Tier       string
	Size       int
	Present    bool
	ChecksumOK bool
	Valid      bool // Decodes to a board with columns, tasks and tags
}

// Engine orchestrates backup and recovery over an ordered tier list.
// It holds no state beyond its configuration.
type Engine struct {
	clock   domain.Clock
	logger  domain.Logger
	tiers   []domain.StorageAdapter
	timeout time.Duration
}

// New creates an Engine. tiers are given in recovery priority order.
// timeout bounds each tier operation.
func New(tiers []domain.StorageAdapter, clock domain.Clock, logger domain.Logger, timeout time.Duration) *Engine {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if timeout <= 0 {
		timeout = domain.DefaultStorageTimeout
	}
	return &Engine{
		tiers:   tiers,
		clock:   clock,
		logger:  logger,
		timeout: timeout,
	}
}

// Tiers returns the tier names in priority order.
func (e *Engine) Tiers() []string {
	names := make([]string, len(e.tiers))
	for i, t := range e.tiers {
		names[i] = t.Name()
	}
	return names
}

// Backup serializes the board once and writes the checksummed record to every
// tier concurrently. A failing or hanging tier does not affect the others.
func (e *Engine) Backup(ctx context.Context, board domain.Board) Outcome {
	payload, err := codec.Serialize(board)
	if err != nil {
		e.logger.Error(logCategory, fmt.Sprintf("backup: serialize: %v", err))
		return Outcome{}
	}
	data := string(payload)
	rec, err := json.Marshal(Record{
		Data:      data,
		Hash:      codec.Checksum(data),
		Timestamp: e.clock.Now().UnixMilli(),
	})
	if err != nil {
		e.logger.Error(logCategory, fmt.Sprintf("backup: marshal record: %v", err))
		return Outcome{}
	}

	results := e.forEachTier(ctx, func(ctx context.Context, tier domain.StorageAdapter) error {
		return tier.Write(ctx, domain.BoardBackupKey, rec)
	})

	out := Outcome{Results: results}
	for _, r := range results {
		if r.OK() {
			out.Success = true
			e.logger.Debug(logCategory, fmt.Sprintf("backup written to %s (%d bytes)", r.Tier, len(rec)))
		} else {
			e.logger.Warn(logCategory, fmt.Sprintf("backup to %s failed: %v", r.Tier, r.Err))
		}
	}
	if !out.Success {
		e.logger.Error(logCategory, "backup failed on every tier")
	}
	return out
}

// Recover returns the board from the first tier, in priority order, whose
// record passes the checksum and decodes to a board with columns, tasks and
// tags. The second result is false when every tier is exhausted.
func (e *Engine) Recover(ctx context.Context) (Recovered, bool) {
	for _, tier := range e.tiers {
		st, board := e.inspect(ctx, tier)
		switch {
		case st.Err != nil:
			e.logger.Warn(logCategory, fmt.Sprintf("recover: skip %s: %v", st.Tier, st.Err))
			continue
		case !st.Present:
			e.logger.Debug(logCategory, fmt.Sprintf("recover: %s holds no backup", st.Tier))
			continue
		case !st.ChecksumOK:
			e.logger.Warn(logCategory, fmt.Sprintf("recover: skip %s: checksum mismatch", st.Tier))
			continue
		case !st.Valid:
			e.logger.Warn(logCategory, fmt.Sprintf("recover: skip %s: not a valid board", st.Tier))
			continue
		}
		e.logger.Info(logCategory, fmt.Sprintf("recovered board from %s (saved %s)", st.Tier, st.Timestamp.Format(time.RFC3339)))
		return Recovered{Board: codec.Migrate(board), Source: st.Tier, Timestamp: st.Timestamp}, true
	}
	e.logger.Warn(logCategory, "recover: no tier holds a valid backup")
	return Recovered{}, false
}

// ClearAll removes the backup from every tier. Failures are logged only.
func (e *Engine) ClearAll(ctx context.Context) {
	results := e.forEachTier(ctx, func(ctx context.Context, tier domain.StorageAdapter) error {
		return tier.Clear(ctx, domain.BoardBackupKey)
	})
	for _, r := range results {
		if !r.OK() {
			e.logger.Warn(logCategory, fmt.Sprintf("clear %s failed: %v", r.Tier, r.Err))
		}
	}
}

// Inspect reports the state of the backup held by every tier.
func (e *Engine) Inspect(ctx context.Context) []TierStatus {
	statuses := make([]TierStatus, len(e.tiers))
	var wg sync.WaitGroup
	for i, tier := range e.tiers {
		wg.Add(1)
		go func(i int, tier domain.StorageAdapter) {
			defer wg.Done()
			statuses[i], _ = e.inspect(ctx, tier)
		}(i, tier)
	}
	wg.Wait()
	return statuses
}

// inspect reads and validates one tier's record.
func (e *Engine) inspect(ctx context.Context, tier domain.StorageAdapter) (TierStatus, domain.Board) {
	st := TierStatus{Tier: tier.Name()}

	var raw []byte
	err := e.call(ctx, func(ctx context.Context) error {
		var err error
		raw, err = tier.Read(ctx, domain.BoardBackupKey)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			st.Err = err
		}
		return st, domain.Board{}
	}
	st.Present = true
	st.Size = len(raw)

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return st, domain.Board{}
	}
	if rec.Timestamp > 0 {
		st.Timestamp = time.UnixMilli(rec.Timestamp).UTC()
	}
	if !codec.VerifyChecksum(rec.Data, rec.Hash) {
		return st, domain.Board{}
	}
	st.ChecksumOK = true

	board, keys, err := codec.DecodeRaw([]byte(rec.Data))
	if err != nil || !keys.Complete() {
		return st, domain.Board{}
	}
	st.Valid = true
	return st, board
}

// forEachTier runs fn against every tier concurrently and returns the
// results in tier order.
func (e *Engine) forEachTier(ctx context.Context, fn func(context.Context, domain.StorageAdapter) error) []TierResult {
	results := make([]TierResult, len(e.tiers))
	var wg sync.WaitGroup
	for i, tier := range e.tiers {
		wg.Add(1)
		go func(i int, tier domain.StorageAdapter) {
			defer wg.Done()
			err := e.call(ctx, func(ctx context.Context) error { return fn(ctx, tier) })
			results[i] = TierResult{Tier: tier.Name(), Err: err}
		}(i, tier)
	}
	wg.Wait()
	return results
}

// call runs fn under the per-tier timeout. It returns when fn returns or the
// timeout expires, whichever comes first, and converts a panic into an error.
func (e *Engine) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("tier panic: %v", r)
			}
		}()
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("tier timed out: %w", ctx.Err())
	}
}
