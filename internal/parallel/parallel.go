// Package parallel provides the worker pool behind the ensemble and
// hyperparameter-search stages. Individual tree fits and cross-validation
// candidates are independent work items, so they fan out across a fixed
// pool and fan back in with their original ordering preserved.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of goroutines for parallel processing.
type WorkerPool struct {
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a new worker pool. A non-positive size defaults
// to runtime.NumCPU().
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{numWorkers: numWorkers, ctx: ctx, cancel: cancel}
}

// NumWorkers returns the pool size.
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Close cancels outstanding work.
func (wp *WorkerPool) Close() {
	wp.cancel()
}

// Map executes worker over every item using a fan-out/fan-in pattern and
// returns the results in input order. The worker receives the item index
// so seeded workloads stay deterministic regardless of scheduling.
func Map[T, R any](wp *WorkerPool, items []T, worker func(int, T) R) []R {
	if len(items) == 0 {
		return nil
	}

	indexCh := make(chan int, len(items))
	results := make([]R, len(items))

	var wg sync.WaitGroup
	for range wp.numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				select {
				case <-wp.ctx.Done():
					return
				default:
					results[idx] = worker(idx, items[idx])
				}
			}
		}()
	}

	for i := range items {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	return results
}
