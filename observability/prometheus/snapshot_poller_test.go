package prometheus

import (
	"context"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cotask-dev/cotask/core"
)

// Main test items:
// 1. Poll publishes each registered executor's stats to the gauges
// 2. Start/Stop drive periodic publishing and are safe to repeat
// 3. AddExecutor replaces providers by name

type fakeSnapshotProvider struct {
	stats core.ExecutorStats
}

func (p *fakeSnapshotProvider) Stats() core.ExecutorStats {
	return p.stats
}

func newTestPoller(t *testing.T, interval time.Duration) *SnapshotPoller {
	t.Helper()
	poller, err := NewSnapshotPoller(prom.NewRegistry(), interval)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}
	return poller
}

// TestSnapshotPoller_Poll verifies a one-shot publish
// Given: A poller with a registered provider
// When: Poll is called
// Then: The gauges reflect the provider's stats
func TestSnapshotPoller_Poll(t *testing.T) {
	poller := newTestPoller(t, time.Second)
	poller.AddExecutor("main", &fakeSnapshotProvider{stats: core.ExecutorStats{
		ID:      "main",
		Workers: 4,
		Queued:  7,
		Active:  2,
		Running: true,
	}})

	poller.Poll()

	if got := testutil.ToFloat64(poller.executorWorkers.WithLabelValues("main")); got != 4 {
		t.Errorf("executor_workers = %v, want 4", got)
	}
	if got := testutil.ToFloat64(poller.executorQueued.WithLabelValues("main")); got != 7 {
		t.Errorf("executor_queued = %v, want 7", got)
	}
	if got := testutil.ToFloat64(poller.executorActive.WithLabelValues("main")); got != 2 {
		t.Errorf("executor_active = %v, want 2", got)
	}
	if got := testutil.ToFloat64(poller.executorRunning.WithLabelValues("main")); got != 1 {
		t.Errorf("executor_running = %v, want 1", got)
	}
}

// TestSnapshotPoller_PublishesRealExecutor verifies integration with Executor
func TestSnapshotPoller_PublishesRealExecutor(t *testing.T) {
	e := core.NewExecutor("real", 2)
	e.Start(context.Background())
	defer e.Stop()

	poller := newTestPoller(t, time.Second)
	poller.AddExecutor(e.ID(), e)
	poller.Poll()

	if got := testutil.ToFloat64(poller.executorWorkers.WithLabelValues("real")); got != 2 {
		t.Errorf("executor_workers = %v, want 2", got)
	}
	if got := testutil.ToFloat64(poller.executorRunning.WithLabelValues("real")); got != 1 {
		t.Errorf("executor_running = %v, want 1", got)
	}
}

// TestSnapshotPoller_StartStop verifies the periodic loop lifecycle
// Given: A poller with a short interval
// When: Start runs for a few intervals, then Stop is called twice
// Then: The gauges were published and Stop returns cleanly both times
func TestSnapshotPoller_StartStop(t *testing.T) {
	poller := newTestPoller(t, 5*time.Millisecond)
	poller.AddExecutor("loop", &fakeSnapshotProvider{stats: core.ExecutorStats{
		ID:      "loop",
		Workers: 3,
		Running: true,
	}})

	poller.Start(context.Background())
	poller.Start(context.Background()) // no-op

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(poller.executorWorkers.WithLabelValues("loop")) == 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := testutil.ToFloat64(poller.executorWorkers.WithLabelValues("loop")); got != 3 {
		t.Fatalf("executor_workers = %v after polling window, want 3", got)
	}

	poller.Stop()
	poller.Stop() // no-op
}

// TestSnapshotPoller_ReplaceProvider verifies provider replacement by name
func TestSnapshotPoller_ReplaceProvider(t *testing.T) {
	poller := newTestPoller(t, time.Second)
	poller.AddExecutor("dup", &fakeSnapshotProvider{stats: core.ExecutorStats{Workers: 1}})
	poller.AddExecutor("dup", &fakeSnapshotProvider{stats: core.ExecutorStats{Workers: 6}})

	poller.Poll()

	if got := testutil.ToFloat64(poller.executorWorkers.WithLabelValues("dup")); got != 6 {
		t.Errorf("executor_workers = %v, want 6", got)
	}
}
