package core

import (
	"errors"
	"fmt"
)

// ErrExecutorStopped is returned when work is submitted to an executor that
// is shutting down, and by Await/GetResult for tasks the executor abandoned
// at shutdown before they could run.
var ErrExecutorStopped = errors.New("cotask: executor stopped")

// PanicError captures a panic that escaped a task body. It is stored in the
// task's result slot and surfaces through GetResult; the original panic value
// is preserved in Value.
type PanicError struct {
	TaskName string
	Value    any
	Stack    []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	name := e.TaskName
	if name == "" {
		name = "unnamed task"
	}
	return fmt.Sprintf("cotask: panic in %s: %v", name, e.Value)
}

// StrictViolations controls how protocol violations (duplicate result write,
// double resume of a suspended frame) are handled. When false (the default)
// the violation is logged and ignored; when true the process panics at the
// violation site. Enable it in tests and debug builds.
var StrictViolations = false

// violationLogger receives protocol violation reports. Violations indicate a
// bug in task wiring, so they are loud by default.
var violationLogger Logger = NewDefaultLogger()

func reportViolation(detail string) {
	if StrictViolations {
		panic("cotask: protocol violation: " + detail)
	}
	violationLogger.Error("protocol violation", F("detail", detail))
}
