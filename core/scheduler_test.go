package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Main test items:
// 1. Go returns a handle immediately; the body waits for a pool worker
// 2. Go on a stopped executor completes the task with ErrExecutorStopped
// 3. A frame parked across shutdown completes with ErrExecutorStopped
// 4. Completed tasks show up in the executor's execution history

// TestGo_BodyWaitsForWorker verifies creation/execution decoupling
// Given: An executor that has not been started
// When: A task is created on it
// Then: Go returns at once and the body only runs after Start
func TestGo_BodyWaitsForWorker(t *testing.T) {
	e := NewExecutor("deferred", 1)

	task := Go(e, "waiting", func(aw *Awaiter) (int, error) {
		return 5, nil
	})

	time.Sleep(20 * time.Millisecond)
	if task.Ready() {
		t.Fatal("body ran before the executor started")
	}

	e.Start(context.Background())
	defer e.Stop()

	v, err := task.GetResult()
	if err != nil {
		t.Fatalf("GetResult error = %v", err)
	}
	if v != 5 {
		t.Errorf("GetResult value = %d, want 5", v)
	}
}

// TestGo_OnStoppedExecutor verifies creation after shutdown
// Given: A stopped executor
// When: A task is created on it
// Then: The handle is usable and completes with ErrExecutorStopped
func TestGo_OnStoppedExecutor(t *testing.T) {
	e := NewExecutor("stopped", 1)
	e.Start(context.Background())
	e.Stop()

	task := Go(e, "too late", func(aw *Awaiter) (int, error) {
		t.Error("body ran on a stopped executor")
		return 0, nil
	})

	_, err := task.GetResult()
	if !errors.Is(err, ErrExecutorStopped) {
		t.Errorf("GetResult error = %v, want ErrExecutorStopped", err)
	}
}

// TestGo_ParkedFrameAbandonedAtShutdown verifies shutdown of suspended tasks
// Given: A parent awaiting a child that can never complete
// When: The parent's executor stops
// Then: The parent completes with ErrExecutorStopped instead of hanging
func TestGo_ParkedFrameAbandonedAtShutdown(t *testing.T) {
	e := NewExecutor("abandon", 1)
	e.Start(context.Background())

	// The child lives on an executor that never starts, so it stays queued.
	frozen := NewExecutor("frozen", 1)
	child := Go(frozen, "never", func(aw *Awaiter) (int, error) { return 0, nil })

	parent := Go(e, "parent", func(aw *Awaiter) (int, error) {
		return child.Await(aw)
	})

	// Let the parent reach its suspension before stopping.
	time.Sleep(20 * time.Millisecond)
	e.Stop()
	frozen.Stop()

	done := make(chan struct{})
	var err error
	go func() {
		_, err = parent.GetResult()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("abandoned parent never completed")
	}
	if !errors.Is(err, ErrExecutorStopped) {
		t.Errorf("GetResult error = %v, want ErrExecutorStopped", err)
	}
}

// TestGo_RecordsExecutionHistory verifies the completion history
// Given: A mix of succeeding and failing tasks
// When: They complete
// Then: RecentExecutions lists them most recent first with failure flags
func TestGo_RecordsExecutionHistory(t *testing.T) {
	e := newTestExecutor(t, "history", 1)

	ok := Go(e, "ok", func(aw *Awaiter) (int, error) { return 1, nil })
	ok.Wait()
	bad := Go(e, "bad", func(aw *Awaiter) (int, error) { return 0, errors.New("bad") })
	bad.Wait()
	boom := Go(e, "boom", func(aw *Awaiter) (int, error) { panic("boom") })
	boom.Wait()

	// The record is written just after the result becomes visible.
	deadline := time.Now().Add(2 * time.Second)
	var records []TaskExecutionRecord
	for {
		records = e.RecentExecutions(0)
		if len(records) >= 3 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(records) != 3 {
		t.Fatalf("RecentExecutions returned %d records, want 3", len(records))
	}

	want := map[string]struct{ failed, panicked bool }{
		"ok":   {failed: false, panicked: false},
		"bad":  {failed: true, panicked: false},
		"boom": {failed: true, panicked: true},
	}
	for _, r := range records {
		expect, found := want[r.Name]
		if !found {
			t.Errorf("unexpected record %q", r.Name)
			continue
		}
		delete(want, r.Name)
		if r.Failed != expect.failed || r.Panicked != expect.panicked {
			t.Errorf("record %q = failed %v panicked %v, want failed %v panicked %v",
				r.Name, r.Failed, r.Panicked, expect.failed, expect.panicked)
		}
		if r.ExecutorID != "history" {
			t.Errorf("record %q executor = %q, want history", r.Name, r.ExecutorID)
		}
		if r.TaskID == "" {
			t.Errorf("record %q has empty task ID", r.Name)
		}
	}
	if len(want) != 0 {
		t.Errorf("missing records for %v", want)
	}
}
