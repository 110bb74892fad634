package future

import "sync/atomic"

// Task is a zero-argument unit of work enqueued on an Executor. The engine
// never inspects or retries a Task; once it has run, the Executor discards
// it.
type Task func()

// Executor is the single-threaded dispatch contract the graph engine
// delegates to. Implementations MUST run enqueued tasks serially, in the
// order they were enqueued, on whatever goroutine they choose to dispatch
// from. The engine never calls Enqueue concurrently with itself, but makes
// no promise about which goroutine calls it; an Executor shared across
// goroutines must serialize its own dispatch.
//
// See package github.com/br-lewis/continuum/executor for concrete
// implementations (an inline executor for tests, a deterministic queue for
// the testing harness, and a dedicated-goroutine event loop for production
// use).
type Executor interface {
	Enqueue(Task)
}

// ExecutorFunc adapts a plain func(Task) into an Executor.
type ExecutorFunc func(Task)

// Enqueue implements Executor.
func (f ExecutorFunc) Enqueue(t Task) { f(t) }

// execBox boxes an Executor behind a fixed concrete type so successive
// SetExecutor calls can swap between different Executor implementations.
// atomic.Value.Store panics if the concrete type of the stored value
// changes between calls, and Executor implementations vary (ExecutorFunc,
// *executor.Loop, *executor.Queue, ...), so the Value must always hold the
// same box type rather than the Executor interface value directly.
type execBox struct{ e Executor }

var currentExecutor atomic.Value // stores execBox

// SetExecutor installs the process-wide current Executor. It is the only
// piece of global mutable state the engine keeps; overwriting it replaces
// whatever was installed before, including with an Executor of a different
// concrete type. Callers must install an Executor before fulfilling any
// future — the engine panics on first dispatch attempt if none has been
// installed.
func SetExecutor(e Executor) {
	if e == nil {
		panic("future: SetExecutor called with a nil Executor")
	}
	currentExecutor.Store(execBox{e})
}

// CurrentExecutor returns the process-wide current Executor, or nil if none
// has been installed yet.
func CurrentExecutor() Executor {
	b, ok := currentExecutor.Load().(execBox)
	if !ok {
		return nil
	}
	return b.e
}

func dispatch(t Task) {
	e := CurrentExecutor()
	if e == nil {
		panic("future: no Executor installed; call future.SetExecutor before fulfilling any future")
	}
	e.Enqueue(t)
}
