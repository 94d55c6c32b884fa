package core

import (
	"sync"
)

// Continuation is a waiter registered with a producer task: a resume work
// item paired with the executor it must be resumed on.
type Continuation struct {
	Resume   WorkItem
	Executor *Executor
}

// resume submits the continuation's resume item to its target executor.
// A fully stopped target drops the hop; a frame waiting behind it unblocks
// through the executor's stop signal instead.
func (c Continuation) resume() {
	if c.Executor == nil {
		return
	}
	if err := c.Executor.submitResume(c.Resume); err != nil {
		c.Executor.logger.Debug("continuation dropped at shutdown", F("executor", c.Executor.id))
	}
}

// ContinuationManager lets N consumers await one producer without polling
// and without deep synchronous resume chains.
//
// The wait list is consumed exactly once: a continuation registered strictly
// before ResumeAll is resumed exactly once, asynchronously; a registration
// that arrives after consumption is reported back to the registrar, which
// resumes it itself (see Task.RegisterContinuation). The manager's lock is
// never held while submitting to an executor.
type ContinuationManager struct {
	mu            sync.Mutex
	consumed      bool
	continuations []Continuation
}

// Register appends c to the wait list. It reports false once the list has
// been consumed; the caller is then responsible for resuming c immediately.
func (m *ContinuationManager) Register(c Continuation) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.consumed {
		return false
	}
	m.continuations = append(m.continuations, c)
	return true
}

// ResumeAll submits one resume work item per registered continuation to that
// continuation's target executor. It never resumes inline; this bounds stack
// depth and decouples the producer's completion path from the consumers'
// execution. Only the first call consumes the list; later calls are no-ops.
func (m *ContinuationManager) ResumeAll() {
	m.mu.Lock()
	if m.consumed {
		m.mu.Unlock()
		return
	}
	m.consumed = true
	waiters := m.continuations
	m.continuations = nil
	m.mu.Unlock()

	for _, c := range waiters {
		c.resume()
	}
}

// Pending returns the number of continuations currently waiting.
func (m *ContinuationManager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.continuations)
}
