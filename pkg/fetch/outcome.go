// Package fetch issues list requests for an admin screen and classifies
// each attempt into a FetchOutcome: loading, success, empty (404) or failure.
package fetch

// Status tags the variant of an Outcome.
type Status string

const (
	// StatusLoading means a fetch is in flight.
	StatusLoading Status = "loading"

	// StatusSuccess means a well-formed page of results was received.
	StatusSuccess Status = "success"

	// StatusEmptyNotFound means the server answered 404 for the filtered set.
	// It is rendered as the normal empty state, not as an error.
	StatusEmptyNotFound Status = "empty"

	// StatusFailure means the request or its envelope failed.
	StatusFailure Status = "failure"
)

// Result is one page of rows plus the server's pagination counters.
type Result[T any] struct {
	// Items are in server order and are never re-sorted.
	Items      []T
	TotalItems int
	// TotalPages is always >= 1.
	TotalPages int
}

// EmptyResult returns a result with no items and a single page.
func EmptyResult[T any]() Result[T] {
	return Result[T]{Items: []T{}, TotalItems: 0, TotalPages: 1}
}

// Outcome is the classification of one fetch attempt.
type Outcome[T any] struct {
	Status Status
	Result Result[T]

	// Message is the user-facing failure text (StatusFailure only).
	Message string

	// Err is the underlying error (StatusFailure only).
	Err error
}

// Loading returns the in-flight outcome.
func Loading[T any]() Outcome[T] {
	return Outcome[T]{Status: StatusLoading}
}

// Success wraps a decoded page.
func Success[T any](r Result[T]) Outcome[T] {
	return Outcome[T]{Status: StatusSuccess, Result: r}
}

// EmptyNotFound returns the normalised outcome of a 404 response.
func EmptyNotFound[T any]() Outcome[T] {
	return Outcome[T]{Status: StatusEmptyNotFound, Result: EmptyResult[T]()}
}

// Failure returns a failed outcome.
func Failure[T any](message string, err error) Outcome[T] {
	return Outcome[T]{Status: StatusFailure, Message: message, Err: err}
}

// IsLoading reports whether the outcome is StatusLoading.
func (o Outcome[T]) IsLoading() bool { return o.Status == StatusLoading }

// IsFailure reports whether the outcome is StatusFailure.
func (o Outcome[T]) IsFailure() bool { return o.Status == StatusFailure }

// HasResult reports whether the outcome carries a usable result
// (success or the normalised empty result).
func (o Outcome[T]) HasResult() bool {
	return o.Status == StatusSuccess || o.Status == StatusEmptyNotFound
}
