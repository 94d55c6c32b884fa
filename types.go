package cotask

import "github.com/cotask-dev/cotask/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the cotask package for most use cases.

// Task is a shareable handle to one asynchronous computation's result.
type Task[R any] = core.Task[R]

// TaskFunc is a task body.
type TaskFunc[R any] = core.TaskFunc[R]

// Awaiter is the await capability handed to a task body.
type Awaiter = core.Awaiter

// WorkItem is the schedulable unit the executor knows how to run.
type WorkItem = core.WorkItem

// WorkFunc adapts a plain function to the WorkItem interface.
type WorkFunc = core.WorkFunc

// Executor is the fixed-size worker pool running queued work items.
type Executor = core.Executor

// ExecutorConfig configures handlers, metrics, logging and history.
type ExecutorConfig = core.ExecutorConfig

// ExecutorStats is a point-in-time executor snapshot.
type ExecutorStats = core.ExecutorStats

// TaskExecutionRecord is one entry of an executor's completion history.
type TaskExecutionRecord = core.TaskExecutionRecord

// ContinuationManager is the per-task registry of waiters.
type ContinuationManager = core.ContinuationManager

// Continuation pairs a resume work item with its target executor.
type Continuation = core.Continuation

// PanicError captures a panic that escaped a task body.
type PanicError = core.PanicError

// Logger and Field mirror the structured logging interface used by core.
type (
	Logger = core.Logger
	Field  = core.Field
)

// ErrExecutorStopped is returned for submissions after shutdown and for
// tasks abandoned at shutdown.
var ErrExecutorStopped = core.ErrExecutorStopped

// Constructors and helpers re-exported from core.
var (
	NewExecutor           = core.NewExecutor
	NewExecutorWithConfig = core.NewExecutorWithConfig
	DefaultExecutorConfig = core.DefaultExecutorConfig
	F                     = core.F
)

// Go creates a task on the global executor. See GoOn for explicit executors.
func Go[R any](name string, fn TaskFunc[R]) Task[R] {
	return core.Go(GetGlobalExecutor(), name, fn)
}

// GoOn creates a task scheduled on the given executor.
func GoOn[R any](executor *Executor, name string, fn TaskFunc[R]) Task[R] {
	return core.Go(executor, name, fn)
}
