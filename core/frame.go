package core

// frame is the resumable handle of one task body. The body runs on a
// dedicated goroutine, but a run token rendezvous ties every segment of it
// to exactly one pool worker: a worker delivers a token through gate and is
// held until the frame either suspends (a token through yield) or finishes
// (dead is closed). At most WorkerCount body segments execute at once.
//
// frame implements WorkItem; submitting it to an executor schedules one
// resumption.
type frame struct {
	executor *Executor
	gate     chan struct{} // run tokens, capacity 1
	yield    chan struct{} // suspension tokens, capacity 1
	dead     chan struct{} // closed when the body goroutine exits
}

func newFrame(e *Executor) *frame {
	return &frame{
		executor: e,
		gate:     make(chan struct{}, 1),
		yield:    make(chan struct{}, 1),
		dead:     make(chan struct{}),
	}
}

// Run delivers one run token and holds the calling worker until the frame
// suspends or finishes. The continuation protocol guarantees at most one
// pending resumption per suspension, so a full gate means a double resume.
func (f *frame) Run() {
	select {
	case f.gate <- struct{}{}:
	case <-f.dead:
		return
	default:
		reportViolation("double resume of a suspended task frame")
		return
	}

	select {
	case <-f.yield:
	case <-f.dead:
	}
}

// park blocks until a run token arrives or the executor stops. When both are
// ready the token wins, so an in-flight resumption is not discarded.
func (f *frame) park() error {
	select {
	case <-f.gate:
		return nil
	case <-f.executor.stopping():
		select {
		case <-f.gate:
			return nil
		default:
			return ErrExecutorStopped
		}
	}
}

// suspend releases the current worker, runs register while the frame is
// unscheduled, then parks until resumed. register must arrange for exactly
// one future resumption (or resume immediately when the awaited task already
// completed); the buffered gate absorbs a resumption that lands before the
// frame parks.
func (f *frame) suspend(register func()) error {
	select {
	case f.yield <- struct{}{}:
	default:
		// No worker is attached (the frame was already abandoned by a
		// stopped executor); there is nothing to release.
	}
	register()
	return f.park()
}
