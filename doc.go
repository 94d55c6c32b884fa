// Package cotask provides a minimal composable asynchronous task runtime:
// a fixed-size worker-pool executor, future-backed task handles, and a
// continuation mechanism that lets one task suspend while awaiting another
// without busy-polling or unbounded synchronous resume chains.
//
// # Quick Start
//
// Use the process-wide executor (4 workers by default, lazily started on
// first use):
//
//	defer cotask.ShutdownGlobalExecutor()
//
//	task := cotask.Go("mul", func(aw *cotask.Awaiter) (int, error) {
//		return 6 * 8, nil
//	})
//	v, err := task.GetResult()
//
// # Key Concepts
//
// Task: a shareable handle to one asynchronous computation's eventual
// result. Creating a task returns immediately; the body runs on a pool
// worker, never on the creating goroutine. GetResult, Wait and Ready are the
// only operations a non-pool goroutine needs to observe outcomes.
//
// Awaiter: handed to every task body. Awaiting another task from inside a
// body suspends the awaiting task and frees its worker; when the awaited
// task completes, each waiter is re-enqueued on its executor as a fresh work
// item, never resumed inline.
//
// Executor: the fixed worker pool running queued work items. Construct your
// own with NewExecutor for explicit dependency injection, or rely on the
// global one.
//
// # Composition
//
//	parent := cotask.Go("mul_add", func(aw *cotask.Awaiter) (int, error) {
//		p1 := cotask.Go("mul(2,4)", func(*cotask.Awaiter) (int, error) { return 2 * 4, nil })
//		p2 := cotask.Go("mul(6,8)", func(*cotask.Awaiter) (int, error) { return 6 * 8, nil })
//		v1, err := p1.Await(aw)
//		if err != nil {
//			return 0, err
//		}
//		v2, err := p2.Await(aw)
//		if err != nil {
//			return 0, err
//		}
//		return v1 + v2, nil
//	})
//
// # Failures
//
// An error returned by a body, or a panic captured inside it, is stored in
// the task's single-assignment result slot and surfaces to every GetResult
// caller; it never reaches the worker dispatch loop.
package cotask
