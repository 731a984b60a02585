package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrInvalidCapacity indicates a queue capacity outside [MinCapacity, MaxCapacity]
	ErrInvalidCapacity = errors.New("invalid queue capacity")

	// ErrInvalidConfig indicates an invalid scheduler configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrQueueClosed indicates an insert into a closed queue
	ErrQueueClosed = errors.New("queue is closed")

	// ErrMalformedTask indicates a workload line that is not two positive integers
	ErrMalformedTask = errors.New("malformed task line")

	// ErrDuplicateTask indicates a task id that appears more than once in a workload
	ErrDuplicateTask = errors.New("duplicate task id")

	// ErrWorkloadMismatch indicates the counted and parsed task totals disagree
	ErrWorkloadMismatch = errors.New("workload task count mismatch")
)

// ErrorKind classifies a SchedulerError
type ErrorKind int

const (
	// KindConfig is a bad argument or configuration value
	KindConfig ErrorKind = iota
	// KindResource is a file or other resource that cannot be opened
	KindResource
	// KindWorkload is a workload that cannot be parsed
	KindWorkload
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindResource:
		return "resource"
	case KindWorkload:
		return "workload"
	default:
		return "unknown"
	}
}

// SchedulerError represents a fatal setup error
type SchedulerError struct {
	// Operation is the name of the operation where the error occurred
	Operation string

	// Kind classifies the error
	Kind ErrorKind

	// Cause is the underlying error
	Cause error

	// Context contains error context information
	Context map[string]interface{}
}

// Error implements the error interface
func (e *SchedulerError) Error() string {
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Operation, e.Cause)
}

// Unwrap returns the underlying error
func (e *SchedulerError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is a specific error
func (e *SchedulerError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewSchedulerError creates a new SchedulerError
func NewSchedulerError(operation string, kind ErrorKind, cause error) *SchedulerError {
	return &SchedulerError{
		Operation: operation,
		Kind:      kind,
		Cause:     cause,
		Context:   make(map[string]interface{}),
	}
}

// WithContext adds error context
func (e *SchedulerError) WithContext(key string, value interface{}) *SchedulerError {
	e.Context[key] = value
	return e
}

// KindOf reports the kind of the first SchedulerError in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var se *SchedulerError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
