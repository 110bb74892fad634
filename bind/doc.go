// Package bind adapts callback- and channel-based APIs into
// future.Future-returning ones: each binding creates a Promise and, once
// the underlying operation finishes on its own goroutine, completes it
// through the installed future.Executor.
//
// Run and Output wrap os/exec process execution (adapted from the teacher's
// exec package) as a *future.Future[struct{}] and a
// *future.Future[*CommandOutput]. ZkClient's WatchValue and WatchExists wrap
// github.com/samuel/go-zookeeper watch channels (adapted from the
// teacher's zk package) as futures.
package bind
