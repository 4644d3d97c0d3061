package pipeline

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	ok := Success(42)
	assert.True(t, ok.IsSuccess())
	assert.Equal(t, 42, ok.Value())
	assert.NoError(t, ok.Err())

	bad := errors.New("bad")
	failed := Fail[int](bad)
	assert.False(t, failed.IsSuccess())
	assert.Zero(t, failed.Value())
	assert.ErrorIs(t, failed.Err(), bad)
}

func TestMapResult(t *testing.T) {
	odd := errors.New("odd")
	upstream := errors.New("upstream")
	in := FromSlice([]Result[int]{Success(1), Success(2), Fail[int](upstream)})

	out := MapResult(in, func(_ context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, odd
		}
		return n * 10, nil
	})
	got, err := Collect(context.Background(), out)
	require.NoError(t, err, "failures must not stop the pipeline")
	require.Len(t, got, 3)

	assert.ErrorIs(t, got[0].Err(), odd)
	assert.Equal(t, 20, got[1].Value())
	assert.ErrorIs(t, got[2].Err(), upstream, "upstream failure passes through")
}

func TestParallelResult(t *testing.T) {
	items := make([]Result[int], 50)
	for i := range items {
		items[i] = Success(i)
	}
	out := ParallelResult(FromSlice(items), 8, func(_ context.Context, n int) (int, error) {
		if n%10 == 0 {
			return 0, errors.New("tens")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), out)
	require.NoError(t, err)
	require.Len(t, got, 50)

	failures := 0
	for _, r := range got {
		if !r.IsSuccess() {
			failures++
		}
	}
	assert.Equal(t, 5, failures)
}

func TestIgnoreErrors(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	in := FromSlice([]Result[string]{
		Fail[string](e1),
		Success("a"),
		Fail[string](e2),
		Success("b"),
	})

	var dropped []error
	got, err := Collect(context.Background(), IgnoreErrors(in, func(err error) {
		dropped = append(dropped, err)
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, []error{e1, e2}, dropped)
}

func TestIgnoreErrors_NilCallback(t *testing.T) {
	in := FromSlice([]Result[int]{Fail[int](errors.New("x")), Success(3)})
	got, err := Collect(context.Background(), IgnoreErrors(in, nil))
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got)
}

func TestIgnoreErrors_AllFailed(t *testing.T) {
	in := FromSlice([]Result[int]{Fail[int](errors.New("x")), Fail[int](errors.New("y"))})
	got, err := Collect(context.Background(), IgnoreErrors(in, nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIgnoreErrors_AfterParallel(t *testing.T) {
	items := make([]Result[int], 40)
	for i := range items {
		if i%4 == 0 {
			items[i] = Fail[int](errors.New("corrupt"))
			continue
		}
		items[i] = Success(i)
	}
	got, err := Collect(context.Background(), IgnoreErrors(ParallelResult(FromSlice(items), 4,
		func(_ context.Context, n int) (int, error) { return n, nil }), nil))
	require.NoError(t, err)
	assert.Len(t, got, 30)

	sort.Ints(got)
	assert.Equal(t, 1, got[0])
}
