// Package outcome provides tagged results for I/O and parse steps that must
// degrade to "nothing" instead of failing the whole action.
package outcome

import "fmt"

// Status tags a Result.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is ok(value) | empty | failed(reason).
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

// OK wraps a usable value.
func OK[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Value: v}
}

// Empty reports that the step succeeded but produced nothing usable.
func Empty[T any]() Result[T] {
	return Result[T]{Status: StatusEmpty}
}

// Failed records why the step could not complete.
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

// Get returns the value and whether it is usable.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Status == StatusOK
}

// OK reports whether the result carries a value.
func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

// Or returns the value, or fallback when the result is empty or failed.
func (r Result[T]) Or(fallback T) T {
	if r.Status == StatusOK {
		return r.Value
	}
	return fallback
}
