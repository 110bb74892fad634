// Package future implements an event-loop-agnostic promise/future graph
// engine: a dynamically built DAG of per-operation "contexts" that own
// continuations, propagate values and errors, splice sub-graphs returned by
// asynchronous continuations, and route upstream messages back to their
// origin.
//
// The engine never blocks and never spawns goroutines of its own. Every
// continuation runs on whatever goroutine drives the installed Executor
// (SetExecutor); callers that need real concurrency supply an Executor from
// package github.com/br-lewis/continuum/executor.
//
// # Basic usage
//
//	p := future.NewPromise[int]()
//	f := p.Future()
//	future.Then(f, func(v int) int { return v * 2 })
//	p.SetValue(21)
//
// # Error handling
//
// Errors are typed and dispatched by concrete Go type, not by a single
// `error` interface value. future.OnError registers a handler for one
// concrete error type; unmatched errors are forwarded downstream until a
// matching handler is found, or parked at the frontier if none ever
// matches.
//
// # Messages
//
// Future.SendMessage routes an arbitrary typed value upstream, toward the
// producer, the mirror image of error propagation.
package future
