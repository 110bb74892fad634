package future

import "github.com/pkg/errors"

// BrokenPromise is the sentinel error the engine injects when a Promise's
// producer side disappears while a consumer (Future) is still listening
// and the context never reached a ready state (§4.4, §7).
type BrokenPromise struct{}

func (BrokenPromise) Error() string { return "future: broken promise" }

// Future is the read side of an async operation. Futures are move-only:
// once passed to Then (or one of its variants), Collect, or returned from an
// async continuation, the original handle must not be used again. OnError,
// OnErrorVoid and OnMessage do not move it; they return the same handle. A zero Future
// is not valid; obtain one from NewPromise or Then.
type Future[V any] struct {
	ctx   *TypedContext[V]
	moved bool
}

func newFuture[V any](ctx *TypedContext[V]) *Future[V] {
	ctx.core.attachFuture()
	return &Future[V]{ctx: ctx}
}

// takeContext hands the underlying TypedContext to the engine (AsyncNext
// splicing, Collect construction) and marks this handle moved. Whether the
// future-ref itself is detached is the caller's responsibility: AsyncNext
// splices via makeShadowOf, which requires hasFuture still set (and clears
// it as part of its own contract — §4.1); Collect links via setTarget,
// which doesn't touch hasFuture, so Collect detaches it explicitly once
// the structural prev/next edge takes over as the reason the node stays
// alive.
func (f *Future[V]) takeContext() *TypedContext[V] {
	f.assertUsable()
	f.moved = true
	return f.ctx
}

func (f *Future[V]) assertUsable() {
	if f.moved {
		panic(errors.New("future: use of a Future after it was moved (passed to Then/Collect or returned from an async continuation)"))
	}
}

// IsReady reports whether the future's context is ready: it has a value, a
// parked error, or has forwarded its error onward. A still-parked unmatched
// error means IsReady is true but there is no value, so Value panics;
// callers interested in errors use OnError.
func (f *Future[V]) IsReady() bool {
	f.assertUsable()
	return f.ctx.core.ready()
}

// Value returns the produced value. Precondition: a value has been produced
// (IsReady alone is not enough when an error is parked).
func (f *Future[V]) Value() V {
	f.assertUsable()
	if !f.ctx.core.valueSet {
		panic(errors.New("future: Value called on a future that holds no value"))
	}
	return f.ctx.Value()
}

// SendMessage routes an arbitrary typed value upstream toward this
// future's ultimate producer (§4.1 sendMessage).
func (f *Future[V]) SendMessage(msg interface{}) {
	f.assertUsable()
	f.ctx.core.sendMessage(NewSignal(msg))
}

// Then chains a synchronous continuation onto f: fn returns a plain value U
// and the successor is built as a SyncNext node. A continuation that returns
// a *Future[U] goes through ThenAsync instead, which builds an AsyncNext node
// that splices the returned sub-graph in as a shadow (§4.3). f is moved.
func Then[V, U any](f *Future[V], fn func(V) U) *Future[U] {
	succ := thenSync(f.takeContext(), fn)
	return newFuture(succ)
}

// ThenAsync is Then's async-returning counterpart; see Then.
func ThenAsync[V, U any](f *Future[V], fn func(V) *Future[U]) *Future[U] {
	succ := thenAsync(f.takeContext(), fn)
	return newFuture(succ)
}

// ThenVoid chains a side-effecting continuation that produces no value.
func ThenVoid[V any](f *Future[V], fn func(V)) *Future[struct{}] {
	return Then(f, func(v V) struct{} {
		fn(v)
		return struct{}{}
	})
}

// ThenVoidIn chains a continuation onto a void-valued future — one that
// only signals "done", not a value worth reading (typically one produced by
// ThenVoid). fn is the func()->U shape of §4.3's continuation protocol,
// for producers that care that the predecessor completed but not what it
// produced. f is moved.
func ThenVoidIn[V any](f *Future[struct{}], fn func() V) *Future[V] {
	succ := thenSyncVoidIn(f.takeContext(), fn)
	return newFuture(succ)
}

// ThenAsyncVoidIn is ThenVoidIn's async-returning counterpart; see
// ThenVoidIn and ThenAsync.
func ThenAsyncVoidIn[V any](f *Future[struct{}], fn func() *Future[V]) *Future[V] {
	succ := thenAsyncVoidIn(f.takeContext(), fn)
	return newFuture(succ)
}

// OnError registers a typed error handler on f's own context: if a Signal
// of concrete type E ever reaches this context (stored now, or arriving
// later), fn runs and its return value becomes this context's value,
// continuing downstream exactly as a normal value would (§4.2, §6). OnError
// returns f itself — it does not create a new node.
func OnError[V, E any](f *Future[V], fn func(E) V) *Future[V] {
	f.assertUsable()
	onError(f.ctx, fn)
	return f
}

// OnErrorVoid is OnError for a void-valued future.
func OnErrorVoid[E any](f *Future[struct{}], fn func(E)) *Future[struct{}] {
	f.assertUsable()
	onErrorVoid(f.ctx, fn)
	return f
}

// OnMessage registers a message handler on f's context for the duration of
// the upstream routing protocol (§4.1 addMessageHandler). Unlike OnError it
// never produces a value.
func OnMessage[V, M any](f *Future[V], fn func(M)) *Future[V] {
	f.assertUsable()
	onMessageFrom(f.ctx, fn)
	return f
}

// Promise is the write side of an async operation: a root Initial context
// an application fulfils with SetValue or SetError.
type Promise[V any] struct {
	ctx    *TypedContext[V]
	closed bool
}

// NewPromise constructs a fresh, unresolved Promise with a root Initial
// context.
func NewPromise[V any]() *Promise[V] {
	ctx := newInitial[V]()
	ctx.core.attachPromise()
	return &Promise[V]{ctx: ctx}
}

// Future returns a new Future handle referring to the same context. It may
// be called at most once per Promise in typical use (the returned Future
// is move-only), but nothing prevents taking it immediately after
// construction and threading it through Then chains.
func (p *Promise[V]) Future() *Future[V] {
	if p.closed {
		panic(errors.New("future: Future called on a closed Promise"))
	}
	return newFuture(p.ctx)
}

// SetValue fulfils the promise with v. Precondition: not ready.
func (p *Promise[V]) SetValue(v V) {
	p.assertOpen()
	p.ctx.setValue(v)
}

// SetError fulfils the promise with a typed error signal. Precondition:
// not ready.
func (p *Promise[V]) SetError(err interface{}) {
	p.assertOpen()
	p.ctx.setError(err)
}

// OnMessage registers a root-side, untyped message handler — the
// producer's half of the upstream message protocol (§6
// Promise.onMessage). Unlike Future's package-level OnMessage, which
// dispatches by a specific Go type, this catches any message that reaches
// the root, matching the spec's "registers message handler at root".
func (p *Promise[V]) OnMessage(fn func(interface{})) {
	p.assertOpen()
	h := signalHandler{invoke: func(sig Signal) { fn(sig.Payload()) }}
	p.ctx.core.addMessageHandler(h)
}

// RecoveredPanic wraps a panic value recovered by OnPanic.
type RecoveredPanic struct {
	Value interface{}
}

// OnPanic installs a handler that intercepts panics raised while running a
// continuation inline on this Promise's shadow (direct-dispatch) path — the
// splice created by an AsyncNext continuation, or a combinator edge like
// Collect, both of which run their delivery synchronously on whatever
// goroutine fulfils the predecessor rather than through the installed
// Executor. It has no effect on continuations dispatched through an
// Executor, since recovering those is the Executor's job (see
// executor.Loop). OnPanic propagates forward to every successor context
// spliced or chained onto this Promise's root after it is installed.
func (p *Promise[V]) OnPanic(fn func(RecoveredPanic)) {
	p.assertOpen()
	p.ctx.core.panicHandler = func(r interface{}) { fn(RecoveredPanic{Value: r}) }
}

func (p *Promise[V]) assertOpen() {
	if p.closed {
		panic(errors.New("future: use of a Promise after Detach/forget"))
	}
}

// Detach releases this Promise's reference to its context. If the context
// is still fulfillable (someone can still consume it) and not yet ready,
// Detach injects a BrokenPromise error before releasing — the Go analogue
// of the spec's "promise going out of scope" (§4.4, §7), made explicit
// because Go has no deterministic destructors. Callers that construct a
// Promise and may abandon it without fulfilling it should `defer
// p.Detach()`.
func (p *Promise[V]) Detach() {
	if p.closed {
		return
	}
	p.closed = true
	c := &p.ctx.core
	if c.fulfillable() && !c.ready() {
		c.storeError(NewSignal(BrokenPromise{}))
	}
	c.detachPromise()
}

// Completer converts a Promise into a single func(V, error) suitable for
// passing to callback-style APIs (see package
// github.com/br-lewis/continuum/bind).
func (p *Promise[V]) Completer() func(V, error) {
	return func(v V, err error) {
		if err != nil {
			p.SetError(err)
			return
		}
		p.SetValue(v)
	}
}

// SharedPromise wraps a Promise in reference-counted ownership so multiple
// callbacks can each hold a handle and complete or close it independently
// (§4.4). The underlying Promise is closed — producing BrokenPromise if the
// future side is still listening — only once every held reference has
// called Forget.
type SharedPromise[V any] struct {
	state *sharedPromiseState[V]
}

type sharedPromiseState[V any] struct {
	promise *Promise[V]
	refs    int
}

// NewSharedPromise constructs a SharedPromise with one outstanding
// reference.
func NewSharedPromise[V any]() *SharedPromise[V] {
	return &SharedPromise[V]{state: &sharedPromiseState[V]{promise: NewPromise[V](), refs: 1}}
}

// Future returns a Future over the shared promise's context.
func (s *SharedPromise[V]) Future() *Future[V] { return s.state.promise.Future() }

// SetValue fulfils the shared promise.
func (s *SharedPromise[V]) SetValue(v V) { s.state.promise.SetValue(v) }

// SetError fulfils the shared promise with an error.
func (s *SharedPromise[V]) SetError(err interface{}) { s.state.promise.SetError(err) }

// Clone returns a new handle to the same shared promise, incrementing its
// reference count.
func (s *SharedPromise[V]) Clone() *SharedPromise[V] {
	s.state.refs++
	return &SharedPromise[V]{state: s.state}
}

// Forget drops this handle's reference; once the last reference is
// forgotten the underlying Promise is closed (injecting BrokenPromise if
// it was still fulfillable and unready).
func (s *SharedPromise[V]) Forget() {
	if s.state == nil {
		return
	}
	s.state.refs--
	if s.state.refs <= 0 {
		s.state.promise.Detach()
	}
	s.state = nil
}
