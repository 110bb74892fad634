package future

// This file implements the three concrete continuation kinds of §4.3:
// Initial (the root attached to a Promise), SyncNext (runs a pure I->V
// function) and AsyncNext (runs an I->Future[V] function and splices the
// returned sub-graph). Each kind is a small unexported type implementing
// the node interface and captured as a coreNode's owner; TypedContext[V]
// itself stays kind-agnostic.

// initialNode backs the root context a Promise owns. It has no
// predecessor, so acceptInput is never invoked on it.
type initialNode struct{}

func (initialNode) acceptInput(*coreNode) {
	panic("future: Initial context received acceptInput; it has no predecessor")
}

func newInitial[V any]() *TypedContext[V] {
	tc := newTypedContext[V]()
	tc.core.owner = initialNode{}
	return tc
}

// syncNextNode runs a pure I -> V function when its predecessor is ready.
type syncNextNode[I, V any] struct {
	self *TypedContext[V]
	prev *TypedContext[I]
	f    func(I) V
}

func (n *syncNextNode[I, V]) acceptInput(*coreNode) {
	n.self.setValue(n.f(n.prev.Value()))
}

func newSyncNext[I, V any](prev *TypedContext[I], f func(I) V) *TypedContext[V] {
	self := newTypedContext[V]()
	self.core.owner = &syncNextNode[I, V]{self: self, prev: prev, f: f}
	return self
}

// syncNextVoidInNode is the I-void variant: the predecessor carries no
// value worth reading. Backs the exported ThenVoidIn in future.go.
type syncNextVoidInNode[V any] struct {
	self *TypedContext[V]
	f    func() V
}

func (n *syncNextVoidInNode[V]) acceptInput(*coreNode) {
	n.self.setValue(n.f())
}

func newSyncNextVoidIn[V any](f func() V) *TypedContext[V] {
	self := newTypedContext[V]()
	self.core.owner = &syncNextVoidInNode[V]{self: self, f: f}
	return self
}

// asyncNextNode runs an I -> Future[V] function on first acceptInput,
// splices the returned sub-graph's head context in as a shadow of this
// node, and on the shadow's own fulfilment (the second acceptInput call)
// forwards the shadow's value as this node's own value. This two-phase
// protocol is the splicing mechanism of §4.3.
type asyncNextNode[I, V any] struct {
	self   *TypedContext[V]
	prev   *TypedContext[I]
	f      func(I) *Future[V]
	shadow *TypedContext[V]
}

func (n *asyncNextNode[I, V]) acceptInput(*coreNode) {
	if n.shadow == nil {
		sub := n.f(n.prev.Value())
		n.shadow = sub.takeContext()
		n.shadow.core.makeShadowOf(&n.self.core)
		return
	}
	n.self.setValue(n.shadow.Value())
}

func newAsyncNext[I, V any](prev *TypedContext[I], f func(I) *Future[V]) *TypedContext[V] {
	self := newTypedContext[V]()
	self.core.owner = &asyncNextNode[I, V]{self: self, prev: prev, f: f}
	return self
}

// asyncNextVoidInNode is the I-void variant of AsyncNext. Backs the
// exported ThenAsyncVoidIn in future.go.
type asyncNextVoidInNode[V any] struct {
	self   *TypedContext[V]
	f      func() *Future[V]
	shadow *TypedContext[V]
}

func (n *asyncNextVoidInNode[V]) acceptInput(*coreNode) {
	if n.shadow == nil {
		sub := n.f()
		n.shadow = sub.takeContext()
		n.shadow.core.makeShadowOf(&n.self.core)
		return
	}
	n.self.setValue(n.shadow.Value())
}

func newAsyncNextVoidIn[V any](f func() *Future[V]) *TypedContext[V] {
	self := newTypedContext[V]()
	self.core.owner = &asyncNextVoidInNode[V]{self: self, f: f}
	return self
}
