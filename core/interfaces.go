package core

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// WorkItem: The schedulable unit
// =============================================================================

// WorkItem is a unit of work the Executor knows how to run.
//
// A WorkItem is owned by the queue until it is dequeued, then by the call
// stack of the worker running it. Items that carry task work capture their
// own failures; a panic escaping Run is handled by the worker's last-resort
// PanicHandler.
type WorkItem interface {
	Run()
}

// WorkFunc adapts a plain function to the WorkItem interface.
type WorkFunc func()

// Run executes the function.
func (f WorkFunc) Run() { f() }

// =============================================================================
// PanicHandler: Interface for handling work item panics
// =============================================================================

// PanicHandler is called when a work item panics during execution.
// This allows custom panic handling, logging, and recovery strategies.
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a work item panics.
	//
	// Parameters:
	// - ctx: The context of the worker that ran the item
	// - executorID: The ID of the executor where the panic occurred
	// - workerID: The ID of the worker
	// - panicInfo: The panic value recovered from the item
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(ctx context.Context, executorID string, workerID int, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler provides a basic panic handler that logs to stdout.
type DefaultPanicHandler struct{}

// HandlePanic prints panic information to stdout.
func (h *DefaultPanicHandler) HandlePanic(ctx context.Context, executorID string, workerID int, panicInfo any, stackTrace []byte) {
	fmt.Printf("[Worker %d @ %s] Panic: %v\nStack trace:\n%s",
		workerID, executorID, panicInfo, stackTrace)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting executor metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting work execution.
type Metrics interface {
	// RecordItemDuration records how long a work item occupied a worker.
	RecordItemDuration(executorID string, duration time.Duration)

	// RecordTaskPanic records that a work item panicked during execution.
	RecordTaskPanic(executorID string, panicInfo any)

	// RecordQueueDepth records the current queue depth.
	RecordQueueDepth(executorID string, depth int)

	// RecordItemRejected records that a submission was rejected
	// (e.g., during shutdown).
	RecordItemRejected(executorID string, reason string)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordItemDuration is a no-op.
func (m *NilMetrics) RecordItemDuration(executorID string, duration time.Duration) {}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(executorID string, panicInfo any) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(executorID string, depth int) {}

// RecordItemRejected is a no-op.
func (m *NilMetrics) RecordItemRejected(executorID string, reason string) {}

// =============================================================================
// RejectedWorkHandler: Interface for handling rejected submissions
// =============================================================================

// RejectedWorkHandler is called when a submission is rejected by the executor.
// This happens when the executor is shutting down.
//
// Implementations should be thread-safe as they may be called concurrently.
type RejectedWorkHandler interface {
	// HandleRejectedWork is called when a submission is rejected.
	HandleRejectedWork(executorID string, reason string)
}

// DefaultRejectedWorkHandler provides a basic handler that logs rejections.
type DefaultRejectedWorkHandler struct{}

// HandleRejectedWork logs the rejected submission.
func (h *DefaultRejectedWorkHandler) HandleRejectedWork(executorID string, reason string) {
	fmt.Printf("[Executor %s] Work rejected: %s\n", executorID, reason)
}

// =============================================================================
// ExecutorConfig: Configuration for Executor
// =============================================================================

// ExecutorConfig holds configuration options for an Executor.
// All handlers are optional; if not provided, default implementations will be used.
type ExecutorConfig struct {
	// PanicHandler is called when a work item panics. Defaults to DefaultPanicHandler.
	PanicHandler PanicHandler

	// Metrics is called to record executor metrics. Defaults to NilMetrics.
	Metrics Metrics

	// RejectedWorkHandler is called when a submission is rejected.
	// Defaults to DefaultRejectedWorkHandler.
	RejectedWorkHandler RejectedWorkHandler

	// Logger receives executor lifecycle and rejection logs. Defaults to NoOpLogger.
	Logger Logger

	// HistoryCapacity bounds the per-executor ring buffer of completed task
	// records. Defaults to 100.
	HistoryCapacity int
}

// DefaultExecutorConfig returns a config with default handlers.
func DefaultExecutorConfig() *ExecutorConfig {
	return &ExecutorConfig{
		PanicHandler:        &DefaultPanicHandler{},
		Metrics:             &NilMetrics{},
		RejectedWorkHandler: &DefaultRejectedWorkHandler{},
		Logger:              NewNoOpLogger(),
	}
}
