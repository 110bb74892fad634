package bind

import "github.com/br-lewis/continuum/future"

// complete marshals a promise completion onto the installed Executor. The
// graph engine assumes single-threaded dispatch (§5); the operations this
// package wraps — a process exiting, a zookeeper watch firing — complete on
// arbitrary OS-thread-backed goroutines, so every binding routes its
// SetValue/SetError through the same Executor the rest of the graph uses
// rather than calling it directly from the callback goroutine. With
// executor.Loop installed, that means every mutation to the graph happens
// on the loop's single goroutine no matter which external thread triggered
// it.
func complete(fn func()) {
	future.CurrentExecutor().Enqueue(fn)
}
