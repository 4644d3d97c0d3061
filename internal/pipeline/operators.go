package pipeline

import "context"

// Map transforms each value using fn. An error from fn is fatal.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: p.create(ctx), fn: fn}
		},
	}
}

// MapResult applies fn to successful results. Failures pass through
// unchanged and errors from fn become failures instead of stopping the
// pipeline.
func MapResult[I, O any](p *Pipeline[Result[I]], fn func(context.Context, I) (O, error)) *Pipeline[Result[O]] {
	return Map(p, liftResult(fn))
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](p *Pipeline[T], fn func(T) bool) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &filterIter[T]{source: p.create(ctx), fn: fn}
		},
	}
}

// IgnoreErrors unwraps successful results and drops failures. onDrop, when
// non-nil, is called with each dropped error on the consuming goroutine.
func IgnoreErrors[T any](p *Pipeline[Result[T]], onDrop func(error)) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &ignoreErrorsIter[T]{source: p.create(ctx), onDrop: onDrop}
		},
	}
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return Map(p, func(ctx context.Context, v T) (T, error) {
		if err := fn(ctx, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	})
}

func liftResult[I, O any](fn func(context.Context, I) (O, error)) func(context.Context, Result[I]) (Result[O], error) {
	return func(ctx context.Context, in Result[I]) (Result[O], error) {
		if !in.IsSuccess() {
			return Fail[O](in.Err()), nil
		}
		out, err := fn(ctx, in.Value())
		if err != nil {
			return Fail[O](err), nil
		}
		return Success(out), nil
	}
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, ok, err
		}
		if it.fn(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type ignoreErrorsIter[T any] struct {
	source Iterator[Result[T]]
	onDrop func(error)
}

func (it *ignoreErrorsIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		r, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		if r.IsSuccess() {
			return r.Value(), true, nil
		}
		if it.onDrop != nil {
			it.onDrop(r.Err())
		}
	}
}

func (it *ignoreErrorsIter[T]) Close() error { return it.source.Close() }
