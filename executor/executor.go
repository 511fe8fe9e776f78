// Package executor is the batch work executor spec §4.2 describes: a
// bounded worker pool draining an internal queue of batches, with
// adaptive batch halving on retriable failure and a percentage-at-
// granularity progress reporter. Modeled on the teacher's
// work/agent.go (a channel-driven agent reading off a work channel,
// reporting back on a return channel, stopped via a dedicated stop
// channel) generalized from "one agent sealing one block" to "W
// workers draining a shared, priority-aware batch queue." The queue
// itself is a mutex/condition-variable structure rather than a pair of
// Go channels: halving keeps feeding new batches back in at runtime,
// and a fixed-capacity channel has no good answer for "what if every
// worker is blocked trying to re-enqueue a split at once" the way a
// growable queue does.
package executor

import (
	"context"
	"errors"
	"sync"

	gometrics "github.com/rcrowley/go-metrics"

	"github.com/kaiachain/chainetl/log"
	"github.com/kaiachain/chainetl/rpc"
)

var logger = log.NewModuleLogger("executor")

// WorkFunc processes one batch. It must be idempotent: spec §4.2
// requires a halved batch be safely re-executable, and a failed batch of
// size 1 is re-executed once before its error surfaces as fatal.
type WorkFunc func(ctx context.Context, batch []interface{}) error

// Retriable reports whether err should trigger the halve-and-retry path
// instead of surfacing as fatal. Defaults to DefaultIsRetriable.
type Retriable func(err error) bool

// DefaultIsRetriable treats any *rpc.RetriableRPCError as retriable,
// matching spec §7's RetriableRPCError classification.
func DefaultIsRetriable(err error) bool {
	var retriableErr *rpc.RetriableRPCError
	return errors.As(err, &retriableErr)
}

// Config configures an Executor.
type Config struct {
	Workers       int       // W, the worker pool size. Defaults to 5 (spec §4.1's default).
	BatchSize     int       // B, the initial batch size. Required, must be >= 1.
	IsRetriable   Retriable // defaults to DefaultIsRetriable.
	ProgressEvery int       // percentage granularity for progress logs; 0 disables.
}

// Executor runs a WorkFunc over batches of a fixed-size item sequence,
// halving a batch on retriable failure and surfacing fatal errors to
// the caller of Execute.
type Executor struct {
	workers     int
	batchSize   int
	isRetriable Retriable
	progressPct int
	counter     gometrics.Counter // cumulative items processed across every Execute call
}

// New builds an Executor from cfg, applying spec §4.1's default worker
// count when Workers is left at zero.
func New(cfg Config) *Executor {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	isRetriable := cfg.IsRetriable
	if isRetriable == nil {
		isRetriable = DefaultIsRetriable
	}
	return &Executor{
		workers:     workers,
		batchSize:   batchSize,
		isRetriable: isRetriable,
		progressPct: cfg.ProgressEvery,
		counter:     gometrics.NewCounter(),
	}
}

// Counter is the cumulative count of successfully processed items across
// every Execute call this Executor has run, suitable for registering with
// package metrics' Prometheus bridge.
func (e *Executor) Counter() gometrics.Counter { return e.counter }

type job struct {
	items   []interface{}
	retried bool // true once already re-executed at size 1; a second failure is fatal.
}

// batchQueue is a FIFO priority queue of two lanes: hi (halved retries)
// is always drained before lo (fresh batches), matching spec §4.2's
// "re-enqueued at higher priority."
type batchQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	hi, lo []job
	closed bool
}

func newBatchQueue() *batchQueue {
	q := &batchQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *batchQueue) push(j job, highPriority bool) {
	q.mu.Lock()
	if highPriority {
		q.hi = append(q.hi, j)
	} else {
		q.lo = append(q.lo, j)
	}
	q.cond.Signal()
	q.mu.Unlock()
}

// pop blocks until a job is available or the queue is closed and
// drained, returning ok=false only in the latter case.
func (q *batchQueue) pop() (j job, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.hi) == 0 && len(q.lo) == 0 {
		if q.closed {
			return job{}, false
		}
		q.cond.Wait()
	}
	if len(q.hi) > 0 {
		j, q.hi = q.hi[0], q.hi[1:]
	} else {
		j, q.lo = q.lo[0], q.lo[1:]
	}
	return j, true
}

func (q *batchQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Execute splits items into Executor.batchSize chunks and runs workFn
// over each chunk across the worker pool, halving and re-enqueuing at
// higher priority on a retriable failure, and returning the first fatal
// error encountered (if any). It blocks until every batch (including
// every split descendant) has either succeeded or failed fatally, or
// until ctx is canceled.
func (e *Executor) Execute(ctx context.Context, items []interface{}, workFn WorkFunc) error {
	if len(items) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reporter := newProgressReporter(len(items), e.progressPct, e.counter)
	queue := newBatchQueue()

	var mu sync.Mutex
	var firstErr error
	var pending int
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	enqueue := func(j job, highPriority bool) {
		mu.Lock()
		pending++
		mu.Unlock()
		queue.push(j, highPriority)
	}
	finish := func() {
		mu.Lock()
		pending--
		done := pending == 0
		mu.Unlock()
		if done {
			cancel()
		}
	}

	for start := 0; start < len(items); start += e.batchSize {
		end := start + e.batchSize
		if end > len(items) {
			end = len(items)
		}
		enqueue(job{items: items[start:end]}, false)
	}

	// Wake every blocked pop() once the caller's context ends, so a
	// cancellation (ours, on fatal failure, or the caller's own) always
	// lets workers drain rather than hang on cond.Wait forever.
	go func() {
		<-ctx.Done()
		queue.close()
	}()

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				j, ok := queue.pop()
				if !ok {
					return
				}

				err := workFn(ctx, j.items)
				switch {
				case err == nil:
					reporter.add(len(j.items))
					finish()

				case !e.isRetriable(err):
					logger.Error("fatal batch failure", "size", len(j.items), "err", err)
					fail(err)
					finish()

				case len(j.items) <= 1 && j.retried:
					logger.Error("batch of size 1 failed after retry, surfacing fatal", "err", err)
					fail(err)
					finish()

				case len(j.items) <= 1:
					logger.Warn("retrying size-1 batch once before surfacing fatal", "err", err)
					enqueue(job{items: j.items, retried: true}, true)
					finish()

				default:
					mid := len(j.items) / 2
					logger.Warn("retriable failure, halving batch", "size", len(j.items), "err", err)
					enqueue(job{items: j.items[:mid]}, true)
					enqueue(job{items: j.items[mid:]}, true)
					finish()
				}
			}
		}()
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return firstErr
	}
	if ctx.Err() != nil && pending != 0 {
		return ctx.Err()
	}
	return nil
}
