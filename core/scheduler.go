package core

import (
	"errors"
	"runtime/debug"
	"time"
)

// TaskFunc is a task body. It receives an Awaiter bound to the task's own
// frame, through which it can await other tasks. The returned value or error
// becomes the task's outcome; a panic is captured as a *PanicError.
type TaskFunc[R any] func(aw *Awaiter) (R, error)

// Go creates a task and schedules it on executor. The call returns
// immediately with a handle; the body runs on a pool worker, never on the
// calling goroutine. If the executor is already shutting down the task
// completes at once with the submission error.
func Go[R any](executor *Executor, name string, fn TaskFunc[R]) Task[R] {
	s := newTaskState[R](name)
	t := Task[R]{state: s}

	f := newFrame(executor)
	s.frame.Store(f)

	// Initial suspension: the frame goroutine parks until a worker delivers
	// its first run token.
	if err := executor.Submit(f); err != nil {
		var zero R
		s.complete(zero, err)
		return t
	}
	go runFrame(s, f, fn)

	return t
}

// runFrame is the body goroutine of one task. It waits for the initial
// resumption, runs fn with panics captured, completes the shared state and
// releases whichever worker delivered the final token.
func runFrame[R any](s *taskState[R], f *frame, fn TaskFunc[R]) {
	defer close(f.dead)

	if err := f.park(); err != nil {
		// Abandoned at shutdown before the first segment ran.
		var zero R
		s.complete(zero, err)
		return
	}
	started := time.Now()

	aw := &Awaiter{frame: f}
	var value R
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				var zero R
				value = zero
				err = &PanicError{TaskName: s.name, Value: r, Stack: debug.Stack()}
			}
		}()
		value, err = fn(aw)
	}()

	s.complete(value, err)

	finished := time.Now()
	var panicErr *PanicError
	f.executor.recordExecution(TaskExecutionRecord{
		TaskID:     s.id,
		Name:       s.name,
		ExecutorID: f.executor.id,
		StartedAt:  started,
		FinishedAt: finished,
		Duration:   finished.Sub(started),
		Failed:     err != nil,
		Panicked:   errors.As(err, &panicErr),
	})
}
