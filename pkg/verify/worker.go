package verify

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/mul"
	"github.com/oisee/q15mul/pkg/result"
)

// WorkerPool manages parallel sweep workers.
type WorkerPool struct {
	NumWorkers int
	Results    *result.Table
	checked    atomic.Int64
	found      atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Results:    result.NewTable(),
	}
}

// RowTask is a unit of work: compare f with the golden model for operand
// A against every b in [BFrom, BTo).
type RowTask struct {
	A          fixed.Q15
	BFrom, BTo uint32
	Slot       int // index into the digest slice
}

// Stats returns sweep statistics.
func (wp *WorkerPool) Stats() (checked, found int64) {
	return wp.checked.Load(), wp.found.Load()
}

// RunRows distributes row tasks across workers and stores each row's
// digest at digests[task.Slot].
func (wp *WorkerPool) RunRows(f Func, tasks []RowTask, digests []uint64) {
	ch := make(chan RowTask, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				digests[task.Slot] = wp.processRow(f, task)
			}
		}()
	}
	wg.Wait()
}

// processRow checks one row and returns the digest of f's outputs.
func (wp *WorkerPool) processRow(f Func, task RowTask) uint64 {
	d := xxhash.New()
	var checked int64
	for bv := task.BFrom; bv < task.BTo; bv++ {
		b := fixed.Q15(bv)
		want := mul.Multiply(task.A, b)
		got := f(task.A, b)
		putEntry(d, task.A, b, got)
		checked++

		if want.Raw != got.Raw || want.Result != got.Result {
			wp.found.Add(1)
			wp.Results.Add(result.Mismatch{
				A: task.A, B: b,
				WantRaw: want.Raw, WantResult: want.Result,
				GotRaw: got.Raw, GotResult: got.Result,
			})
		}
	}
	wp.checked.Add(checked)
	return d.Sum64()
}
