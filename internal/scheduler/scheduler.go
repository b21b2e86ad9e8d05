// Package scheduler runs periodic board backups.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/recovery"
)

const logCategory = "scheduler"

// Backupper backs up the current board.
type Backupper interface {
	Backup(ctx context.Context) (recovery.Outcome, error)
}

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron    *cron.Cron
	logger  domain.Logger
	timeout time.Duration
}

// New creates a Scheduler. timeout bounds each job run.
func New(logger domain.Logger, timeout time.Duration) *Scheduler {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		timeout: timeout,
	}
}

// Validate checks a schedule: a five-field cron expression or a descriptor
// such as "@hourly" or "@every 5m".
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%w: %q: %v", domain.ErrInvalidSchedule, spec, err)
	}
	return nil
}

// ScheduleBackup registers a backup of b on spec.
func (s *Scheduler) ScheduleBackup(spec string, b Backupper) (cron.EntryID, error) {
	if err := Validate(spec); err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, func() { s.runBackup(b) })
}

func (s *Scheduler) runBackup(b Backupper) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	out, err := b.Backup(ctx)
	if err != nil {
		s.logger.Warn(logCategory, fmt.Sprintf("scheduled backup skipped: %v", err))
		return
	}
	ok := 0
	for _, r := range out.Results {
		if r.OK() {
			ok++
		}
	}
	if !out.Success {
		s.logger.Error(logCategory, "scheduled backup failed on every tier")
		return
	}
	s.logger.Info(logCategory, fmt.Sprintf("scheduled backup written to %d/%d tiers", ok, len(out.Results)))
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger adapts domain.Logger to cron.Logger.
type cronLogger struct {
	logger domain.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(logCategory, msg+formatKV(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(logCategory, fmt.Sprintf("%s: %v%s", msg, err, formatKV(keysAndValues)))
}

func formatKV(kv []interface{}) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}
