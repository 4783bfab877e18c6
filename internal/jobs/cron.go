// Package jobs runs the periodic sync and recompute work, from the scheduler
// or on demand. A run holds a database-wide job lock, so at most one instance
// of each job runs across all replicas.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/okr-service/internal/config"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/pkg/logger/sl"
	"github.com/robfig/cron/v3"
)

const (
	JobSync      = "sync"
	JobRecompute = "recompute"
)

var (
	ErrJobRunning = errors.New("job is already running")
	ErrUnknownJob = errors.New("unknown job")
)

type Syncer interface {
	SyncIssues(ctx context.Context) (*domain.SyncReport, error)
}

type Recomputer interface {
	RecomputeAll(ctx context.Context) error
}

type Locker interface {
	TryJobLock(ctx context.Context, job string) (release func(), ok bool, err error)
}

type Runner struct {
	log        *slog.Logger
	syncer     Syncer
	recomputer Recomputer
	locks      Locker
	timeout    time.Duration
}

// NewRunner returns a Runner. A zero timeout leaves runs bounded only by
// the caller's context.
func NewRunner(log *slog.Logger, syncer Syncer, recomputer Recomputer, locks Locker, timeout time.Duration) *Runner {
	return &Runner{
		log:        log,
		syncer:     syncer,
		recomputer: recomputer,
		locks:      locks,
		timeout:    timeout,
	}
}

func (r *Runner) Sync(ctx context.Context) (*domain.SyncReport, error) {
	var report *domain.SyncReport

	err := r.locked(ctx, JobSync, func(ctx context.Context) error {
		var err error
		report, err = r.syncer.SyncIssues(ctx)

		return err
	})

	return report, err
}

func (r *Runner) Recompute(ctx context.Context) error {
	return r.locked(ctx, JobRecompute, r.recomputer.RecomputeAll)
}

// Run dispatches by job name.
func (r *Runner) Run(ctx context.Context, job string) error {
	switch job {
	case JobSync:
		_, err := r.Sync(ctx)
		return err
	case JobRecompute:
		return r.Recompute(ctx)
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownJob, job)
	}
}

func (r *Runner) locked(ctx context.Context, job string, fn func(ctx context.Context) error) error {
	const op = "internal.jobs.Runner.locked"
	log := r.log.With(slog.String("op", op), slog.String("job", job))

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	release, ok, err := r.locks.TryJobLock(ctx, job)
	if err != nil {
		return fmt.Errorf("%s: failed to take job lock: %w", op, err)
	}

	if !ok {
		log.Info("job is running elsewhere, skipped")
		return ErrJobRunning
	}
	defer release()

	start := time.Now()
	log.Info("job started")

	if err := fn(ctx); err != nil {
		log.Error("job failed", sl.Err(err), slog.String("duration", time.Since(start).String()))
		return err
	}

	log.Info("job finished", slog.String("duration", time.Since(start).String()))

	return nil
}

// Cron triggers the runner on the configured schedules. Triggered runs
// share a root context that Stop cancels.
type Cron struct {
	c      *cron.Cron
	runner *Runner
	log    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewCron(cfg config.Scheduler, log *slog.Logger, runner *Runner) (*Cron, error) {
	const op = "internal.jobs.NewCron"

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid timezone '%s': %w", op, cfg.Timezone, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cr := &Cron{c: c, runner: runner, log: log, ctx: ctx, cancel: cancel}

	schedules := []struct {
		job  string
		spec string
	}{
		{job: JobSync, spec: cfg.SyncCron},
		{job: JobRecompute, spec: cfg.RecomputeCron},
	}

	for _, s := range schedules {
		if _, err := c.AddFunc(s.spec, cr.trigger(s.job)); err != nil {
			cancel()
			return nil, fmt.Errorf("%s: invalid schedule '%s' for %s: %w", op, s.spec, s.job, err)
		}
	}

	return cr, nil
}

func (cr *Cron) trigger(job string) func() {
	return func() {
		err := cr.runner.Run(cr.ctx, job)
		if err != nil && !errors.Is(err, ErrJobRunning) && !errors.Is(err, context.Canceled) {
			cr.log.Error("scheduled job failed", slog.String("job", job), sl.Err(err))
		}
	}
}

func (cr *Cron) Start() {
	cr.c.Start()
	cr.log.Info("scheduler started", slog.Int("entries", len(cr.c.Entries())))
}

// Stop stops scheduling, cancels running jobs and waits for them to return
// until ctx is done.
func (cr *Cron) Stop(ctx context.Context) {
	done := cr.c.Stop().Done()
	cr.cancel()

	select {
	case <-done:
	case <-ctx.Done():
		cr.log.Warn("scheduler stopped before running jobs finished")
	}
}
