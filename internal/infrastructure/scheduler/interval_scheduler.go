package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SyncRunner is the orchestration surface the scheduler drives
type SyncRunner interface {
	// RunScheduledSync triggers one full sync pass. The single-flight guard
	// inside the runner decides whether work actually happens.
	RunScheduledSync(ctx context.Context)
}

// IntervalProvider yields the current sync interval so runtime changes to
// the stored setting take effect on restart
type IntervalProvider interface {
	SyncInterval(ctx context.Context) time.Duration
}

// IntervalScheduler triggers a full sync on a fixed interval. Restart tears
// the timer down and recreates it with the current interval; a sync started
// by the previous timer is left to finish on its own.
type IntervalScheduler struct {
	runner    SyncRunner
	intervals IntervalProvider
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalScheduler creates a new IntervalScheduler
func NewIntervalScheduler(runner SyncRunner, intervals IntervalProvider, logger *zap.Logger) *IntervalScheduler {
	return &IntervalScheduler{
		runner:    runner,
		intervals: intervals,
		logger:    logger,
	}
}

// Start starts the periodic trigger. Calling Start on a running scheduler
// is a no-op.
func (s *IntervalScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	s.isRunning = true

	interval := s.intervals.SyncInterval(ctx)
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(runCtx, interval)

	s.logger.Info("Sync scheduler started",
		zap.Duration("interval", interval),
	)

	return nil
}

// Stop stops the periodic trigger, waiting for the loop goroutine to exit.
// An in-flight sync run is not interrupted.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Restart recreates the timer with the currently configured interval. Safe
// to call while a sync triggered by the previous timer is still running;
// the single-flight guard in the runner keeps the runs from overlapping.
func (s *IntervalScheduler) Restart(ctx context.Context) error {
	if err := s.Stop(ctx); err != nil {
		return err
	}
	return s.Start(ctx)
}

// IsRunning reports whether the periodic trigger is active
func (s *IntervalScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// runLoop fires the runner every interval until the scheduler is stopped
func (s *IntervalScheduler) runLoop(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logger.Info("Scheduled sync triggered")
			// The loop context only stops the ticker. A run that is already
			// in flight when Stop or Restart fires must complete untouched.
			s.runner.RunScheduledSync(context.WithoutCancel(ctx))
		}
	}
}
