package pipeline

// Result is the outcome of processing one element: a value or the error
// that prevented producing it.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a produced value.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps the error for an element that could not be produced.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsSuccess reports whether the result carries a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the carried value; the zero value for failures.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil.
func (r Result[T]) Err() error {
	return r.err
}
