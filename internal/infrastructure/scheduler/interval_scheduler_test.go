package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRunner struct {
	runs atomic.Int64
}

func (r *countingRunner) RunScheduledSync(ctx context.Context) {
	r.runs.Add(1)
}

type fixedInterval struct {
	interval time.Duration
}

func (f *fixedInterval) SyncInterval(ctx context.Context) time.Duration {
	return f.interval
}

func TestIntervalScheduler_StartStop(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewIntervalScheduler(runner, &fixedInterval{interval: 10 * time.Millisecond}, zap.NewNop())

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	assert.Eventually(t, func() bool {
		return runner.runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())

	runsAtStop := runner.runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, runsAtStop, runner.runs.Load())
}

func TestIntervalScheduler_StartTwiceIsNoOp(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewIntervalScheduler(runner, &fixedInterval{interval: time.Hour}, zap.NewNop())

	require.NoError(t, scheduler.Start(context.Background()))
	require.NoError(t, scheduler.Start(context.Background()))

	require.NoError(t, scheduler.Stop(context.Background()))
}

func TestIntervalScheduler_StopWithoutStart(t *testing.T) {
	scheduler := NewIntervalScheduler(&countingRunner{}, &fixedInterval{interval: time.Hour}, zap.NewNop())
	assert.NoError(t, scheduler.Stop(context.Background()))
}

type blockingRunner struct {
	startedOnce sync.Once
	started     chan struct{}
	release     chan struct{}

	mu      sync.Mutex
	ctxErrs []error
}

func (r *blockingRunner) RunScheduledSync(ctx context.Context) {
	r.startedOnce.Do(func() { close(r.started) })
	<-r.release
	r.mu.Lock()
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	r.mu.Unlock()
}

func TestIntervalScheduler_RestartLeavesInflightRunUncancelled(t *testing.T) {
	runner := &blockingRunner{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	scheduler := NewIntervalScheduler(runner, &fixedInterval{interval: 10 * time.Millisecond}, zap.NewNop())

	require.NoError(t, scheduler.Start(context.Background()))
	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("runner never started")
	}

	restartDone := make(chan error, 1)
	go func() { restartDone <- scheduler.Restart(context.Background()) }()

	// Let Restart cancel the loop context while the run is still blocked,
	// then release the run so Restart can finish tearing the loop down
	time.Sleep(20 * time.Millisecond)
	close(runner.release)
	require.NoError(t, <-restartDone)

	runner.mu.Lock()
	require.NotEmpty(t, runner.ctxErrs)
	assert.NoError(t, runner.ctxErrs[0], "in-flight run saw a cancelled context")
	runner.mu.Unlock()

	require.NoError(t, scheduler.Stop(context.Background()))
}

func TestIntervalScheduler_RestartPicksUpNewInterval(t *testing.T) {
	runner := &countingRunner{}
	intervals := &fixedInterval{interval: time.Hour}
	scheduler := NewIntervalScheduler(runner, intervals, zap.NewNop())

	require.NoError(t, scheduler.Start(context.Background()))
	assert.Equal(t, int64(0), runner.runs.Load())

	intervals.interval = 10 * time.Millisecond
	require.NoError(t, scheduler.Restart(context.Background()))

	assert.Eventually(t, func() bool {
		return runner.runs.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, scheduler.Stop(context.Background()))
}
