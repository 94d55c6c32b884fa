package core

// Awaiter is the await capability handed to a task body. It carries the
// frame of the running task; Task.Await uses it to suspend that frame while
// another task completes. An Awaiter must only be used from the body it was
// passed to.
type Awaiter struct {
	frame *frame
}

// Executor returns the executor the owning task is scheduled on.
func (aw *Awaiter) Executor() *Executor {
	return aw.frame.executor
}

// Await suspends the calling task body until t completes, then returns t's
// value or failure.
//
// If t is already complete the call returns inline, without a queue hop.
// Otherwise the frame releases its worker, registers a continuation with t
// and parks; the readiness check and the registration are not atomic against
// t's concurrent completion, which is why RegisterContinuation resumes the
// waiter immediately when it loses that race. Resumption may land on any
// pool worker, so the body must not assume affinity with the worker it
// suspended on.
//
// If the executor stops while the frame is parked, Await fails with
// ErrExecutorStopped even though t may still complete later.
func (t Task[R]) Await(aw *Awaiter) (R, error) {
	if t.Ready() {
		return t.state.value, t.state.err
	}

	f := aw.frame
	if err := f.suspend(func() {
		t.RegisterContinuation(f, f.executor)
	}); err != nil {
		var zero R
		return zero, err
	}

	// A resumption is delivered only after the producer's completion write,
	// so the slot is safe to read without further synchronization.
	return t.state.value, t.state.err
}
