package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retriableErr struct{ msg string }

func (e *retriableErr) Error() string { return e.msg }

func items(n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestExecuteProcessesAllItemsOnSuccess(t *testing.T) {
	var mu sync.Mutex
	var seen []interface{}

	e := New(Config{Workers: 3, BatchSize: 2})
	err := e.Execute(context.Background(), items(10), func(ctx context.Context, batch []interface{}) error {
		mu.Lock()
		seen = append(seen, batch...)
		mu.Unlock()
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, seen, 10)
}

func TestExecuteHalvesBatchOnRetriableFailure(t *testing.T) {
	var calls int64

	e := New(Config{
		Workers:   1,
		BatchSize: 4,
		IsRetriable: func(err error) bool {
			var re *retriableErr
			return errors.As(err, &re)
		},
	})

	err := e.Execute(context.Background(), items(4), func(ctx context.Context, batch []interface{}) error {
		n := atomic.AddInt64(&calls, 1)
		// Fail the very first (full-size) call only, forcing a halve.
		if n == 1 {
			return &retriableErr{msg: "transient"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, int64(calls), int64(3)) // 1 failed + at least 2 halves
}

func TestExecuteSurfacesFatalError(t *testing.T) {
	e := New(Config{Workers: 2, BatchSize: 2})
	boom := errors.New("boom")

	err := e.Execute(context.Background(), items(4), func(ctx context.Context, batch []interface{}) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestExecuteSurfacesFatalAfterSizeOneRetryExhausted(t *testing.T) {
	var calls int64
	retriable := &retriableErr{msg: "still failing"}

	e := New(Config{
		Workers:   1,
		BatchSize: 1,
		IsRetriable: func(err error) bool {
			var re *retriableErr
			return errors.As(err, &re)
		},
	})

	err := e.Execute(context.Background(), items(1), func(ctx context.Context, batch []interface{}) error {
		atomic.AddInt64(&calls, 1)
		return retriable
	})

	var got *retriableErr
	require.ErrorAs(t, err, &got)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls)) // original attempt + one retry
}

func TestExecuteEmptyItemsReturnsNil(t *testing.T) {
	e := New(Config{Workers: 2, BatchSize: 2})
	err := e.Execute(context.Background(), nil, func(ctx context.Context, batch []interface{}) error {
		t.Fatal("workFn should not be called for empty items")
		return nil
	})
	assert.NoError(t, err)
}
