package future

// collectNode implements the fan-in combinator of §4.5: it awaits N input
// contexts in any order, preserves input order in the output slice, and
// short-circuits on the first error.
type collectNode[T any] struct {
	self     *TypedContext[[]T]
	inputs   []*TypedContext[T]
	indexOf  map[*coreNode]int
	results  []T
	received int
}

// acceptInput implements §4.5 "accept-input". Guarded for idempotence: the
// engine never actually redelivers to an already-ready node, but a
// multi-predecessor node is the one place the spec calls the guard out
// explicitly, since coreNode.storeError's own ready() guard only protects
// the error path.
func (n *collectNode[T]) acceptInput(prev *coreNode) {
	if n.self.core.ready() {
		return
	}
	idx, ok := n.indexOf[prev]
	if !ok {
		return
	}
	n.results[idx] = n.inputs[idx].Value()
	n.received++
	if n.received == len(n.inputs) {
		out := make([]T, len(n.results))
		copy(out, n.results)
		n.self.setValue(out)
	}
}

// Collect fans N futures of a common type into a single future of a slice,
// preserving input order regardless of completion order, and forwarding
// the first error encountered (§4.5). Every input Future is moved.
func Collect[T any](inputs []*Future[T]) *Future[[]T] {
	self := newTypedContext[[]T]()

	if len(inputs) == 0 {
		// No predecessor will ever call acceptInput on this node, so it
		// needs no owner; it fulfils itself synchronously (§4.5).
		result := newFuture(self)
		self.setValue([]T{})
		return result
	}

	typed := make([]*TypedContext[T], len(inputs))
	for i, f := range inputs {
		typed[i] = f.takeContext()
		// Collect links via setTarget, not makeShadowOf, so unlike AsyncNext
		// splicing it must drop the future-ref itself: ownership passes to
		// the prev/next edge set up below.
		typed[i].core.detachFuture()
	}

	cn := &collectNode[T]{
		inputs:  typed,
		indexOf: make(map[*coreNode]int, len(typed)),
		results: make([]T, len(typed)),
	}
	self.core.owner = cn
	cn.self = self

	for i, tc := range typed {
		cn.indexOf[&tc.core] = i
	}

	result := newFuture(self)

	for _, tc := range typed {
		tc.core.setTarget(&self.core, true)
	}

	return result
}
