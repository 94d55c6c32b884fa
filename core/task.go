package core

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// taskState is the record shared by every handle of one task: the
// single-assignment result slot, the resumption handle of the in-flight
// frame, and the continuation wait list.
type taskState[R any] struct {
	id        string
	name      string
	createdAt time.Time

	value     R
	err       error
	completed atomic.Bool   // guards the single-assignment result slot
	done      chan struct{} // closed exactly once, after value/err are written

	frame   atomic.Pointer[frame] // cleared exactly once at completion
	waiters ContinuationManager
}

func newTaskState[R any](name string) *taskState[R] {
	return &taskState[R]{
		id:        uuid.NewString(),
		name:      name,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// complete writes the result slot exactly once, clears the resumption handle
// and releases the registered waiters, in that order. The writes to value and
// err happen-before the close of done, which happens-before every resumed
// waiter runs. A second call is a protocol violation and leaves the stored
// outcome untouched.
func (s *taskState[R]) complete(value R, err error) bool {
	if !s.completed.CompareAndSwap(false, true) {
		reportViolation("duplicate result write on task " + s.describe())
		return false
	}

	s.value = value
	s.err = err
	s.frame.Store(nil)
	close(s.done)
	s.waiters.ResumeAll()
	return true
}

func (s *taskState[R]) describe() string {
	if s.name != "" {
		return s.name
	}
	return s.id
}

// Task is a shareable handle to one asynchronous computation's eventual
// result. Copies share the same underlying state; the zero Task is invalid.
//
// Task handles are the only surface a non-pool goroutine needs: GetResult,
// Wait and Ready observe the outcome, Await composes tasks from inside a
// task body.
type Task[R any] struct {
	state *taskState[R]
}

// ID returns the unique identifier assigned at task creation.
func (t Task[R]) ID() string {
	return t.state.id
}

// Name returns the debug name given to Go, which may be empty.
func (t Task[R]) Name() string {
	return t.state.name
}

// GetResult blocks until the task completes, then returns the stored value
// or the stored failure. It is idempotent: repeated and concurrent calls
// return the identical outcome.
func (t Task[R]) GetResult() (R, error) {
	<-t.state.done
	return t.state.value, t.state.err
}

// Wait blocks until the task completes without extracting the value.
func (t Task[R]) Wait() {
	<-t.state.done
}

// Ready reports whether the task has completed. It never blocks.
func (t Task[R]) Ready() bool {
	select {
	case <-t.state.done:
		return true
	default:
		return false
	}
}

// RegisterContinuation registers a waiter to be resumed on executor once the
// task completes. If the task is already complete at call time — including
// when completion raced the caller's readiness check — the resumption is
// submitted immediately instead of entering the wait list, so the waiter is
// resumed exactly once either way.
func (t Task[R]) RegisterContinuation(resume WorkItem, executor *Executor) {
	c := Continuation{Resume: resume, Executor: executor}
	if !t.state.waiters.Register(c) {
		c.resume()
	}
}
