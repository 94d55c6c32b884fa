package cotask

import (
	"context"
	"errors"
	"sync"

	"github.com/cotask-dev/cotask/core"
)

// =============================================================================
// Global Executor Helper (Singleton)
// =============================================================================

// DefaultWorkerCount is the worker count used by the global executor when
// SetGlobalWorkerCount was never called.
const DefaultWorkerCount = 4

// ErrGlobalExecutorStarted is returned by SetGlobalWorkerCount once the
// global executor exists; the pool size is fixed at first access.
var ErrGlobalExecutorStarted = errors.New("cotask: global executor already created")

var (
	globalMu       sync.Mutex
	globalExecutor *core.Executor
	globalWorkers  = DefaultWorkerCount
)

// SetGlobalWorkerCount configures the worker count the global executor will
// be built with. It must be called before the first GetGlobalExecutor
// access; afterwards it fails with ErrGlobalExecutorStarted.
func SetGlobalWorkerCount(workers int) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalExecutor != nil {
		return ErrGlobalExecutorStarted
	}
	if workers < 1 {
		workers = 1
	}
	globalWorkers = workers
	return nil
}

// GetGlobalExecutor returns the process-wide executor, lazily constructing
// and starting it on first access. The worker count is fixed at that point.
func GetGlobalExecutor() *core.Executor {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalExecutor == nil {
		globalExecutor = core.NewExecutor("global-executor", globalWorkers)
		globalExecutor.Start(context.Background())
	}
	return globalExecutor
}

// ShutdownGlobalExecutor stops the global executor and clears it. A later
// GetGlobalExecutor builds a fresh one; the worker count becomes
// configurable again until then.
func ShutdownGlobalExecutor() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalExecutor != nil {
		globalExecutor.Stop()
		globalExecutor = nil
		globalWorkers = DefaultWorkerCount
	}
}
