package models

// Status is the request lifecycle state of a single widget submission.
type Status int

const (
	// StatusIdle means nothing has been submitted, or a submission settled without an outcome.
	StatusIdle Status = iota
	// StatusLoading means a request is in flight.
	StatusLoading
	// StatusSuccess means the request completed and a result is available.
	StatusSuccess
	// StatusFailed means the submission failed and an error message is available.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "error"
	}
	return "unknown"
}

// Lifecycle tracks one submission of a widget: idle, loading, success with a result, or error with a
// message. The states are mutually exclusive; entering one discards whatever the previous state held.
//
// The zero value is an idle lifecycle.
type Lifecycle[T any] struct {
	status Status
	result T
	err    string
}

// Begin resets any prior result or error and marks the submission as loading.
func (l *Lifecycle[T]) Begin() {
	var zero T
	l.status = StatusLoading
	l.result = zero
	l.err = ""
}

// Succeed stores the result of the submission.
func (l *Lifecycle[T]) Succeed(result T) {
	l.status = StatusSuccess
	l.result = result
	l.err = ""
}

// Fail stores a user-visible error message for the submission.
func (l *Lifecycle[T]) Fail(message string) {
	var zero T
	l.status = StatusFailed
	l.result = zero
	l.err = message
}

// Settle clears the loading state. A submission that was resolved keeps its outcome, one that was
// not falls back to idle.
func (l *Lifecycle[T]) Settle() {
	if l.status == StatusLoading {
		l.status = StatusIdle
	}
}

// Status returns the current state.
func (l Lifecycle[T]) Status() Status {
	return l.status
}

// Result returns the stored result and whether the lifecycle is in the success state.
func (l Lifecycle[T]) Result() (T, bool) {
	return l.result, l.status == StatusSuccess
}

// Err returns the stored error message and whether the lifecycle is in the error state.
func (l Lifecycle[T]) Err() (string, bool) {
	return l.err, l.status == StatusFailed
}
