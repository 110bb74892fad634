// Package executor provides concrete future.Executor implementations:
//
//   - Immediate runs every task inline, on the calling goroutine, the
//     moment it is enqueued. Good for unit tests and any program that never
//     leaves the main goroutine.
//   - Queue is a deterministic, manually-driven FIFO executor for tests
//     that want to control exactly when continuations run relative to the
//     rest of the test body.
//   - Loop runs a dedicated goroutine that drains an internal channel of
//     tasks one at a time, recovering and logging panics so one bad
//     continuation can't take the whole process down — the production
//     choice for a long-lived server.
//
// Exactly one Executor is active at a time, process-wide, via
// future.SetExecutor.
package executor
