package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// Executor manages a fixed set of worker goroutines pulling WorkItems from a
// shared FIFO queue. Each submitted item runs exactly once, in submission
// order relative to items submitted by the same goroutine.
//
// The queue lock is never held while an item runs, so an item may itself
// submit new work or register continuations without deadlocking.
type Executor struct {
	id      string
	workers int

	queue  *WorkQueue
	signal chan struct{}

	metricActive int32 // Executing in Worker

	// Handlers and Metrics
	panicHandler PanicHandler
	metrics      Metrics
	rejectedWork RejectedWorkHandler
	logger       Logger

	history executionHistory

	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	running   bool
	runningMu sync.RWMutex

	// Lifecycle
	draining int32 // atomic flag: reject new submissions
	stopOnce sync.Once
	stopCh   chan struct{} // closed once workers are told to stop; frames abandon on it
}

// NewExecutor creates an executor with default handlers. Workers do not run
// until Start is called.
func NewExecutor(id string, workers int) *Executor {
	return NewExecutorWithConfig(id, workers, DefaultExecutorConfig())
}

// NewExecutorWithConfig creates an executor with the given configuration.
func NewExecutorWithConfig(id string, workers int, config *ExecutorConfig) *Executor {
	if workers < 1 {
		workers = 1
	}

	e := &Executor{
		id:      id,
		workers: workers,
		queue:   NewWorkQueue(),
		signal:  make(chan struct{}, workers*2),
		stopCh:  make(chan struct{}),
	}

	historyCapacity := 0
	if config != nil {
		e.panicHandler = config.PanicHandler
		e.metrics = config.Metrics
		e.rejectedWork = config.RejectedWorkHandler
		e.logger = config.Logger
		historyCapacity = config.HistoryCapacity
	}

	// Use defaults if not provided
	if e.panicHandler == nil {
		e.panicHandler = &DefaultPanicHandler{}
	}
	if e.metrics == nil {
		e.metrics = &NilMetrics{}
	}
	if e.rejectedWork == nil {
		e.rejectedWork = &DefaultRejectedWorkHandler{}
	}
	if e.logger == nil {
		e.logger = NewNoOpLogger()
	}

	e.history = newExecutionHistory(historyCapacity)

	return e
}

// Start launches the worker goroutines.
func (e *Executor) Start(ctx context.Context) {
	e.runningMu.Lock()
	defer e.runningMu.Unlock()

	if e.running {
		return // Already running
	}

	e.ctx, e.cancel = context.WithCancel(ctx)
	e.running = true

	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.workerLoop(i, e.ctx)
	}

	e.logger.Debug("executor started", F("executor", e.id), F("workers", e.workers))
}

// Submit enqueues a WorkItem and wakes one idle worker. It never blocks the
// caller. After shutdown has begun it rejects the item with
// ErrExecutorStopped instead of silently dropping it.
func (e *Executor) Submit(item WorkItem) error {
	if atomic.LoadInt32(&e.draining) == 1 {
		e.rejectedWork.HandleRejectedWork(e.id, "shutdown")
		e.metrics.RecordItemRejected(e.id, "shutdown")
		e.logger.Warn("submission rejected", F("executor", e.id), F("reason", "shutdown"))
		return ErrExecutorStopped
	}
	e.enqueue(item)
	return nil
}

// SubmitFunc adapts f to a WorkItem and submits it.
func (e *Executor) SubmitFunc(f func()) error {
	return e.Submit(WorkFunc(f))
}

// submitResume enqueues a continuation hop. It bypasses the draining check so
// resume chains keep flowing while StopGraceful waits for in-flight tasks;
// only a fully stopped executor drops the hop, in which case the target frame
// unblocks through the stop signal instead.
func (e *Executor) submitResume(item WorkItem) error {
	select {
	case <-e.stopCh:
		return ErrExecutorStopped
	default:
	}
	e.enqueue(item)
	return nil
}

func (e *Executor) enqueue(item WorkItem) {
	e.queue.Push(item)
	e.metrics.RecordQueueDepth(e.id, e.queue.Len())

	select {
	case e.signal <- struct{}{}:
	default:
		// Signal channel full, but the item is already queued; a worker
		// draining the queue will pick it up.
	}
}

// Stop shuts the executor down. Workers finish the item they are running (if
// any) and exit; queued-but-undequeued items are dropped. Suspended frames
// scheduled on this executor observe the stop and complete their tasks with
// ErrExecutorStopped.
func (e *Executor) Stop() {
	atomic.StoreInt32(&e.draining, 1)
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.queue.Clear()

	e.runningMu.Lock()
	if !e.running {
		e.runningMu.Unlock()
		return
	}
	e.runningMu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}
	e.Join()

	e.runningMu.Lock()
	e.running = false
	e.runningMu.Unlock()

	e.logger.Debug("executor stopped", F("executor", e.id))
}

// StopGraceful stops the executor after draining queued work. New
// submissions are rejected immediately, but continuation hops of in-flight
// tasks keep running until the queue and the workers go idle. Returns an
// error if the drain exceeds timeout; remaining work is then dropped.
func (e *Executor) StopGraceful(timeout time.Duration) error {
	if !e.IsRunning() {
		e.Stop()
		return nil
	}

	atomic.StoreInt32(&e.draining, 1)

	deadline := time.After(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	var drainErr error
drain:
	for {
		select {
		case <-deadline:
			drainErr = fmt.Errorf("graceful stop timeout after %v, forced clearing", timeout)
			break drain
		case <-ticker.C:
			if e.QueuedCount() == 0 && e.ActiveCount() == 0 {
				break drain
			}
		}
	}

	e.Stop()
	return drainErr
}

// workerLoop is the main loop for each worker.
func (e *Executor) workerLoop(id int, ctx context.Context) {
	defer e.wg.Done()
	stopCh := ctx.Done()

	for {
		item, ok := e.getWork(stopCh)
		if !ok {
			return
		}

		atomic.AddInt32(&e.metricActive, 1)
		start := time.Now()

		// Task frames capture their own failures; recover here is the
		// last resort for raw WorkFunc submissions.
		func() {
			defer func() {
				atomic.AddInt32(&e.metricActive, -1)
				if r := recover(); r != nil {
					e.metrics.RecordTaskPanic(e.id, r)
					e.panicHandler.HandlePanic(ctx, e.id, id, r, debug.Stack())
				}
			}()
			item.Run()
		}()

		e.metrics.RecordItemDuration(e.id, time.Since(start))
	}
}

// getWork pops the next item, or blocks until one is signalled or the worker
// is told to stop. The signal channel and the stop channel are combined in a
// single select so a wakeup can never be missed.
func (e *Executor) getWork(stopCh <-chan struct{}) (WorkItem, bool) {
	for {
		if item, ok := e.queue.Pop(); ok {
			return item, true
		}

		select {
		case <-e.signal:
			continue
		case <-stopCh:
			return nil, false
		}
	}
}

// Join waits for all worker goroutines to finish.
func (e *Executor) Join() {
	e.wg.Wait()
}

// stopping exposes the stop signal to suspended frames.
func (e *Executor) stopping() <-chan struct{} {
	return e.stopCh
}

// ID returns the ID of the executor.
func (e *Executor) ID() string {
	return e.id
}

// IsRunning returns whether the executor workers are running.
func (e *Executor) IsRunning() bool {
	e.runningMu.RLock()
	defer e.runningMu.RUnlock()
	return e.running
}

// WorkerCount returns the number of workers.
func (e *Executor) WorkerCount() int {
	return e.workers
}

// QueuedCount returns the number of items waiting in the queue.
func (e *Executor) QueuedCount() int {
	return e.queue.Len()
}

// ActiveCount returns the number of items currently executing.
func (e *Executor) ActiveCount() int {
	return int(atomic.LoadInt32(&e.metricActive))
}

// Stats returns a point-in-time snapshot of the executor.
func (e *Executor) Stats() ExecutorStats {
	return ExecutorStats{
		ID:      e.id,
		Workers: e.workers,
		Queued:  e.QueuedCount(),
		Active:  e.ActiveCount(),
		Running: e.IsRunning(),
	}
}

func (e *Executor) recordExecution(record TaskExecutionRecord) {
	e.history.Add(record)
}

// RecentExecutions returns up to limit completed task records, most recent
// first. A limit <= 0 returns all retained records.
func (e *Executor) RecentExecutions(limit int) []TaskExecutionRecord {
	return e.history.Recent(limit)
}
