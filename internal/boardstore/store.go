// Package boardstore owns the canonical board: it loads it through the
// primary → recovery → default chain, serializes mutations and persists every
// new snapshot in the background.
package boardstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskboard/internal/codec"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/recovery"
)

const logCategory = "store"

// Source tells where the loaded board came from.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceDefault Source = "default"

	recoveryPrefix = "recovery:"
)

// recoverySource returns the source for a board recovered from tier.
func recoverySource(tier string) Source {
	return Source(recoveryPrefix + tier)
}

// IsRecovery returns true if the board was reconstructed from a backup tier.
func (s Source) IsRecovery() bool {
	return strings.HasPrefix(string(s), recoveryPrefix)
}

// Options configures a Store. Zero values select defaults.
type Options struct {
	Clock   domain.Clock
	IDs     domain.IDGenerator
	Logger  domain.Logger
	Timeout time.Duration // Bounds each primary read and write
}

// job is one queued persistence of a full snapshot.
type job struct {
	done  chan struct{}
	board domain.Board
}

// Store holds the canonical board.
// Fields are ordered to minimize memory padding.
type Store struct {
	primary domain.StorageAdapter
	clock   domain.Clock
	ids     domain.IDGenerator
	logger  domain.Logger
	engine  *recovery.Engine
	wake    chan struct{}
	stopped chan struct{}
	source  Source
	board   domain.Board
	queue   []job
	last    chan struct{} // done channel of the last enqueued job
	timeout time.Duration
	loadMu  sync.Mutex
	mu      sync.Mutex
	ready   bool
	closing bool
	once    sync.Once
}

// New creates a Store persisting to primary and backing up through engine,
// and starts its persistence worker. The store is not ready until Load.
func New(primary domain.StorageAdapter, engine *recovery.Engine, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = domain.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = domain.UUIDGenerator{}
	}
	if opts.Logger == nil {
		opts.Logger = domain.NopLogger{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultStorageTimeout
	}
	s := &Store{
		primary: primary,
		engine:  engine,
		clock:   opts.Clock,
		ids:     opts.IDs,
		logger:  opts.Logger,
		timeout: opts.Timeout,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

// Load populates the board and makes the store ready. It tries the primary
// snapshot, then recovery (writing the result back to primary), then the
// default board, and finally backs the loaded board up before returning.
// Calling Load on a ready store returns the original source.
func (s *Store) Load(ctx context.Context) Source {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	if s.ready {
		source := s.source
		s.mu.Unlock()
		return source
	}
	s.mu.Unlock()

	board, source := s.loadBoard(ctx)
	s.engine.Backup(ctx, board)

	s.mu.Lock()
	s.board = board
	s.source = source
	s.ready = true
	s.mu.Unlock()

	s.logger.Info(logCategory, fmt.Sprintf("board ready (source: %s, %d columns, %d tasks)", source, len(board.Columns), len(board.Tasks)))
	return source
}

func (s *Store) loadBoard(ctx context.Context) (domain.Board, Source) {
	raw, err := s.readPrimary(ctx)
	switch {
	case err == nil:
		board, err := codec.Deserialize(raw)
		if err == nil {
			return board, SourcePrimary
		}
		s.logger.Warn(logCategory, fmt.Sprintf("primary snapshot unreadable: %v", err))
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Debug(logCategory, "no primary snapshot")
	default:
		s.logger.Warn(logCategory, fmt.Sprintf("read primary snapshot: %v", err))
	}

	if rec, ok := s.engine.Recover(ctx); ok {
		if err := s.writePrimary(ctx, rec.Board); err != nil {
			s.logger.Warn(logCategory, fmt.Sprintf("write recovered board to primary: %v", err))
		}
		return rec.Board, recoverySource(rec.Source)
	}

	s.logger.Info(logCategory, "starting from the default board")
	return domain.DefaultBoard(s.ids), SourceDefault
}

func (s *Store) readPrimary(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.primary.Read(ctx, domain.BoardStateKey)
}

func (s *Store) writePrimary(ctx context.Context, board domain.Board) error {
	payload, err := codec.Serialize(board)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.primary.Write(ctx, domain.BoardStateKey, payload)
}

// Ready returns true once Load has completed.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Source returns where the board was loaded from.
func (s *Store) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Board returns a copy of the current board.
func (s *Store) Board() (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return domain.Board{}, domain.ErrNotReady
	}
	return s.board.Clone(), nil
}

// Backup writes the current board to every backup tier and waits for the
// result. Used by the scheduler and on explicit request.
func (s *Store) Backup(ctx context.Context) (recovery.Outcome, error) {
	board, err := s.Board()
	if err != nil {
		return recovery.Outcome{}, err
	}
	return s.engine.Backup(ctx, board), nil
}

// mutate applies fn to the current board under the store lock, swaps in the
// result and queues its persistence. fn returning an error leaves the board
// unchanged.
func (s *Store) mutate(fn func(b domain.Board, now time.Time) (domain.Board, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return domain.ErrNotReady
	}
	if s.closing {
		return domain.ErrStorageClosed
	}
	next, err := fn(s.board, s.clock.Now())
	if err != nil {
		return err
	}
	s.board = next
	s.enqueueLocked(next)
	return nil
}

func (s *Store) enqueueLocked(board domain.Board) {
	j := job{board: board.Clone(), done: make(chan struct{})}
	s.queue = append(s.queue, j)
	s.last = j.done
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run is the persistence worker. Jobs are processed one at a time in
// enqueue order.
func (s *Store) run() {
	defer close(s.stopped)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 {
			if s.closing {
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()
			<-s.wake
			s.mu.Lock()
		}
		j := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.persist(j.board)
		close(j.done)
	}
}

// persist writes the snapshot to primary and backs it up. Failures are
// logged only.
func (s *Store) persist(board domain.Board) {
	ctx := context.Background()
	if err := s.writePrimary(ctx, board); err != nil {
		s.logger.Error(logCategory, fmt.Sprintf("persist to primary: %v", err))
	}
	s.engine.Backup(ctx, board)
}

// Flush waits until every queued persistence has completed or ctx is done.
// It does not cancel the queued work.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last == nil {
		return nil
	}
	select {
	case <-last:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the persistence queue and stops the worker.
// Mutations after Close return domain.ErrStorageClosed.
func (s *Store) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closing = true
		s.mu.Unlock()
		select {
		case s.wake <- struct{}{}:
		default:
		}
		<-s.stopped
	})
}
