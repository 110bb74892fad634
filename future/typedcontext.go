package future

// TypedContext is the value-carrying layer described in §4.2: it owns an
// optional value of V on top of an untyped coreNode, has a setError method,
// and is what the thenSync/thenAsync/onError helpers below operate on (the
// then helpers construct successor nodes). Application code does not construct a TypedContext directly; it is
// reached through Future[V] / Promise[V] / SharedPromise[V] (future.go).
type TypedContext[V any] struct {
	core  coreNode
	value V
}

// newTypedContext allocates a TypedContext whose coreNode.owner is set by
// the caller once the concrete continuation closure is ready (Initial,
// SyncNext, AsyncNext, or the collect combinator all follow this
// two-step construction so the owner closure can capture the finished
// *TypedContext[V]).
func newTypedContext[V any]() *TypedContext[V] {
	tc := &TypedContext[V]{}
	tc.core.owner = nil // set by caller immediately after construction
	return tc
}

// setValue places v into this context's storage and marks it ready,
// scheduling delivery to a successor if one exists. Precondition: not
// ready.
func (tc *TypedContext[V]) setValue(v V) {
	tc.value = v
	tc.core.setValueReady()
}

// Value returns the stored value. Precondition: the context is valued
// (callers should check IsReady first; future.Value on the handle layer
// enforces this).
func (tc *TypedContext[V]) Value() V { return tc.value }

// setError boxes err and stores it via the untyped layer.
func (tc *TypedContext[V]) setError(err interface{}) {
	tc.core.storeError(NewSignal(err))
}

// thenSync builds a SyncNext successor for f and links it. It and the three
// helpers after it back the free functions Then, ThenVoidIn, ThenAsync and
// ThenAsyncVoidIn in future.go (Go methods cannot introduce new type
// parameters, so the public generic API lives there).
func thenSync[I, V any](prev *TypedContext[I], f func(I) V) *TypedContext[V] {
	succ := newSyncNext(prev, f)
	prev.core.setTarget(&succ.core, false)
	return succ
}

func thenSyncVoidIn[V any](prev *TypedContext[struct{}], f func() V) *TypedContext[V] {
	succ := newSyncNextVoidIn(f)
	prev.core.setTarget(&succ.core, false)
	return succ
}

func thenAsync[I, V any](prev *TypedContext[I], f func(I) *Future[V]) *TypedContext[V] {
	succ := newAsyncNext(prev, f)
	prev.core.setTarget(&succ.core, false)
	return succ
}

func thenAsyncVoidIn[V any](prev *TypedContext[struct{}], f func() *Future[V]) *TypedContext[V] {
	succ := newAsyncNextVoidIn(f)
	prev.core.setTarget(&succ.core, false)
	return succ
}

// onError registers a typed error handler on tc itself (not a new
// successor, per §4.2/§6: "registers typed error handler; returns self").
func onError[E, V any](tc *TypedContext[V], f func(E) V) *TypedContext[V] {
	h := signalHandler{
		tag: errorTypeTag[E](),
		invoke: func(sig Signal) {
			e, _ := sig.Payload().(E)
			tc.setValue(f(e))
		},
	}
	tc.core.addErrorHandler(h)
	return tc
}

// onErrorVoid is onError for a void-valued context: f has no return value.
func onErrorVoid[E any](tc *TypedContext[struct{}], f func(E)) *TypedContext[struct{}] {
	h := signalHandler{
		tag: errorTypeTag[E](),
		invoke: func(sig Signal) {
			e, _ := sig.Payload().(E)
			f(e)
			tc.setValue(struct{}{})
		},
	}
	tc.core.addErrorHandler(h)
	return tc
}

// onMessageFrom registers a message handler on tc — shared by the exported
// OnMessage in future.go for any value type V, void contexts included,
// since the handler only ever reads the message payload, never tc.value.
func onMessageFrom[V, M any](tc *TypedContext[V], f func(M)) {
	h := signalHandler{
		tag: errorTypeTag[M](),
		invoke: func(sig Signal) {
			m, _ := sig.Payload().(M)
			f(m)
		},
	}
	tc.core.addMessageHandler(h)
}
