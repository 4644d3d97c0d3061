package pipeline

import (
	"context"
	"sync"
)

// Buffer adds a buffered channel between pipeline stages.
// This decouples the production rate from the consumption rate.
func Buffer[T any](p *Pipeline[T], size int) *Pipeline[T] {
	if size <= 0 {
		size = 1
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			source := p.create(ctx)
			bufCtx, cancel := context.WithCancel(ctx)
			ch := make(chan result[T], size)
			done := make(chan struct{})

			go func() {
				defer close(done)
				defer close(ch)
				for {
					val, ok, err := source.Next(bufCtx)
					if err != nil {
						send(bufCtx, ch, result[T]{err: err})
						return
					}
					if !ok {
						return
					}
					if !send(bufCtx, ch, result[T]{val: val, ok: true}) {
						return
					}
				}
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					<-done
					return source.Close()
				},
			}
		},
	}
}

// Parallel applies fn to each value concurrently with up to n workers.
// Order is NOT preserved. Use Map for ordered processing.
func Parallel[I, O any](p *Pipeline[I], n int, fn func(context.Context, I) (O, error)) *Pipeline[O] {
	if n <= 0 {
		n = 1
	}
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			source := p.create(ctx)
			workerCtx, cancel := context.WithCancel(ctx)
			out := make(chan result[O], n)
			in := make(chan I, n)

			var wg sync.WaitGroup

			// Producer: pull from source into input channel
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer close(in)
				for {
					val, ok, err := source.Next(workerCtx)
					if err != nil {
						send(workerCtx, out, result[O]{err: err})
						return
					}
					if !ok {
						return
					}
					select {
					case in <- val:
					case <-workerCtx.Done():
						return
					}
				}
			}()

			// Workers: process input and write to output
			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for val := range in {
						o, err := fn(workerCtx, val)
						if err != nil {
							send(workerCtx, out, result[O]{err: err})
							cancel()
							return
						}
						if !send(workerCtx, out, result[O]{val: o, ok: true}) {
							return
						}
					}
				}()
			}

			return fanIn(out, &wg, cancel, source.Close)
		},
	}
}

// ParallelResult is MapResult spread over n workers. Order is NOT preserved.
func ParallelResult[I, O any](p *Pipeline[Result[I]], n int, fn func(context.Context, I) (O, error)) *Pipeline[Result[O]] {
	return Parallel(p, n, liftResult(fn))
}

// Interleave opens a sub-stream for every input value and yields the values
// of all open sub-streams as they become available. At most cycleLength
// sub-streams are open at once; the next input is opened when one of them is
// exhausted. Order across sub-streams is NOT defined, order within one
// sub-stream is preserved.
//
// An error from open or from a sub-stream's Next is fatal. Each sub-stream is
// closed by the worker that drained it.
func Interleave[I, O any](p *Pipeline[I], cycleLength int, open func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	if cycleLength <= 0 {
		cycleLength = 1
	}
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			source := p.create(ctx)
			workerCtx, cancel := context.WithCancel(ctx)
			out := make(chan result[O], cycleLength)
			in := make(chan I)

			var wg sync.WaitGroup

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer close(in)
				for {
					val, ok, err := source.Next(workerCtx)
					if err != nil {
						send(workerCtx, out, result[O]{err: err})
						return
					}
					if !ok {
						return
					}
					select {
					case in <- val:
					case <-workerCtx.Done():
						return
					}
				}
			}()

			for range cycleLength {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for val := range in {
						if err := drainInto(workerCtx, val, open, out); err != nil {
							send(workerCtx, out, result[O]{err: err})
							cancel()
							return
						}
						if workerCtx.Err() != nil {
							return
						}
					}
				}()
			}

			return fanIn(out, &wg, cancel, source.Close)
		},
	}
}

// drainInto opens one sub-stream and forwards its values to out until it is
// exhausted or ctx is cancelled.
func drainInto[I, O any](ctx context.Context, in I, open func(context.Context, I) (Iterator[O], error), out chan<- result[O]) (err error) {
	iter, err := open(ctx, in)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := iter.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if !ok {
			return nil
		}
		if !send(ctx, out, result[O]{val: val, ok: true}) {
			return nil
		}
	}
}

// fanIn closes out once every goroutine in wg has finished and returns an
// iterator over it. Closing the iterator cancels the workers and waits for
// them before closing the upstream source.
func fanIn[T any](out chan result[T], wg *sync.WaitGroup, cancel context.CancelFunc, closeSource func() error) Iterator[T] {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(out)
		close(done)
	}()

	return &channelIter[T]{
		ch: out,
		closer: func() error {
			cancel()
			<-done
			return closeSource()
		},
	}
}

func send[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
