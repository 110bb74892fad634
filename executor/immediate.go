package executor

import "github.com/br-lewis/continuum/future"

// immediate runs every task synchronously on the enqueuing goroutine.
type immediate struct{}

// Immediate returns an Executor that runs tasks inline. It is single
// threaded trivially, since nothing is ever queued.
func Immediate() future.Executor {
	return immediate{}
}

func (immediate) Enqueue(t future.Task) { t() }
