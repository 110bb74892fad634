package future

import "github.com/pkg/errors"

// node is implemented by every concrete continuation kind (Initial,
// SyncNext, AsyncNext, and the collect combinator). coreNode calls back
// into it once a predecessor's result is ready to deliver; this is the
// seam that lets coreNode stay fully untyped while the continuation kinds
// hold the typed payload.
type node interface {
	// acceptInput is called, at most once per (prev, this) edge, once prev
	// has a value ready to deliver. Implementations read prev's typed
	// value out of a typed pointer they captured at construction time —
	// the coreNode argument is only used for identity comparison on
	// multi-predecessor (fan-in) nodes.
	acceptInput(prev *coreNode)
}

// coreNode is the untyped graph node described by the engine's data model:
// it owns the prev/next edges, the ready/error/message bookkeeping, and the
// lifetime refcount, independent of what Go type of value flows through it.
type coreNode struct {
	owner node

	// prevs holds every predecessor edge. Plain chain nodes have at most
	// one; the collect combinator holds one per input future.
	prevs []*coreNode
	next  *coreNode

	hasPromise bool
	hasFuture  bool

	valueSet       bool
	storedError    Signal
	errorForwarded bool
	isShadow       bool

	errorHandlers   []signalHandler
	messageHandlers []signalHandler
	storedMessages  []Signal

	// panicHandler, if set, intercepts a panic raised while running a task
	// inline on the shadow (isShadow) path — see Promise.OnPanic. It
	// propagates forward across setTarget/makeShadowOf so a handler
	// installed at a Promise's root also covers its Then chain.
	panicHandler func(interface{})
}

// runInline runs task, recovering into c's panicHandler if one is set.
// Used for the isShadow dispatch path, where tasks run on whatever
// goroutine is fulfilling the predecessor rather than on an Executor that
// might otherwise provide its own panic isolation (see executor.Loop).
func (c *coreNode) runInline(task func()) {
	if c.panicHandler == nil {
		task()
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.panicHandler(r)
		}
	}()
	task()
}

// newCoreNode constructs a node owned by the given continuation kind.
func newCoreNode(owner node) *coreNode {
	return &coreNode{owner: owner}
}

// alive implements invariant 1: a node is alive iff it has a promise or
// future handle referencing it, or a predecessor, or a successor.
func (c *coreNode) alive() bool {
	return c.hasPromise || c.hasFuture || len(c.prevs) > 0 || c.next != nil
}

// ready implements invariant 2: a node is ready iff it has a value, a
// stored error, or has forwarded its error onward.
func (c *coreNode) ready() bool {
	return c.valueSet || !c.storedError.IsZero() || c.errorForwarded
}

// fulfillable implements invariant 5.
func (c *coreNode) fulfillable() bool {
	hasSource := c.hasPromise || len(c.prevs) > 0
	hasSink := c.hasFuture || c.next != nil
	return hasSource && hasSink
}

// setValueReady marks this node valued and, if it has a successor,
// schedules delivery. Precondition: not ready.
func (c *coreNode) setValueReady() {
	if c.ready() {
		panic(errors.New("future: setValue called on an already-ready context"))
	}
	c.valueSet = true
	c.scheduleFulfil()
}

// scheduleFulfil implements the fulfilment algorithm of §4.1: build the
// deliver-then-unlink closure and either run it inline (shadow edge) or
// hand it to the executor.
func (c *coreNode) scheduleFulfil() {
	next := c.next
	if next == nil {
		return
	}
	task := func() {
		next.owner.acceptInput(c)
		c.unsetTarget()
	}
	if c.isShadow {
		c.runInline(task)
		return
	}
	dispatch(task)
}

// makeShadowOf implements §4.1 makeShadowOf: c becomes a shadow inserted
// between next's former sole predecessor and next.
func (c *coreNode) makeShadowOf(next *coreNode) {
	if !c.hasFuture {
		panic(errors.New("future: makeShadowOf requires a future handle on the shadow node"))
	}
	if c.isShadow {
		panic(errors.New("future: makeShadowOf called on a node that is already a shadow"))
	}
	if len(next.prevs) != 1 {
		panic(errors.New("future: makeShadowOf requires next to have exactly one predecessor"))
	}
	nextPrev := next.prevs[0]
	next.removePrev(nextPrev)
	nextPrev.next = nil

	c.isShadow = true
	c.hasFuture = false
	c.setTarget(next, true)

	nextPrev.tryDestroy()
}

// setTarget implements §4.1 setTarget: links c -> next. Precondition:
// c.next is empty and next has no existing predecessor edge to c.
func (c *coreNode) setTarget(next *coreNode, direct bool) {
	if c.next != nil {
		panic(errors.New("future: setTarget called on a context that already has a successor"))
	}
	for _, p := range next.prevs {
		if p == c {
			panic(errors.New("future: setTarget called twice for the same edge"))
		}
	}

	c.next = next
	next.prevs = append(next.prevs, c)
	if direct {
		c.isShadow = true
	}
	if c.panicHandler != nil && next.panicHandler == nil {
		next.panicHandler = c.panicHandler
	}

	switch {
	case c.valueSet:
		c.scheduleFulfil()
	case !c.storedError.IsZero():
		c.forwardError()
	}
}

// storeError implements §4.1 storeError: try a matching handler, else
// forward to next, else park. Precondition: not ready.
func (c *coreNode) storeError(sig Signal) {
	if c.ready() {
		// Defensive: the engine never produces a second error/value for an
		// already-ready node (spec §4.5 "idempotent on duplicate
		// deliveries"), but guard rather than violate invariant 2.
		return
	}
	if h, idx, ok := c.matchErrorHandler(sig); ok {
		c.consumeErrorHandler(h, idx, sig)
		return
	}
	c.storedError = sig
	if c.next != nil {
		c.forwardError()
	}
}

func (c *coreNode) matchErrorHandler(sig Signal) (signalHandler, int, bool) {
	for i, h := range c.errorHandlers {
		if h.matches(sig) {
			return h, i, true
		}
	}
	return signalHandler{}, -1, false
}

func (c *coreNode) consumeErrorHandler(h signalHandler, idx int, sig Signal) {
	c.errorHandlers = append(c.errorHandlers[:idx], c.errorHandlers[idx+1:]...)
	task := func() { h.invoke(sig) }
	if c.isShadow {
		c.runInline(task)
		return
	}
	dispatch(task)
}

// forwardError implements §4.1 "error forward": moves storedError onto
// next, marks this node errorForwarded (terminal), and unlinks.
func (c *coreNode) forwardError() {
	sig := c.storedError
	c.storedError = Signal{}
	c.errorForwarded = true
	next := c.next
	c.next = nil
	next.removePrev(c)
	next.storeError(sig)
	c.tryDestroy()
	next.tryDestroy()
}

// addErrorHandler implements §4.1 addErrorHandler.
func (c *coreNode) addErrorHandler(h signalHandler) {
	if !c.storedError.IsZero() && h.matches(c.storedError) {
		sig := c.storedError
		c.storedError = Signal{}
		task := func() { h.invoke(sig) }
		if c.isShadow {
			c.runInline(task)
		} else {
			dispatch(task)
		}
		return
	}
	c.errorHandlers = append(c.errorHandlers, h)
}

// sendMessage implements §4.1 sendMessage: routed upstream along prevs,
// cloned to every branch at a fan-in node, delivered or queued at the
// origin.
func (c *coreNode) sendMessage(sig Signal) {
	if len(c.prevs) > 0 {
		for _, p := range c.prevs {
			p.sendMessage(sig.Clone())
		}
		return
	}
	c.deliverOrQueueMessage(sig)
}

func (c *coreNode) deliverOrQueueMessage(sig Signal) {
	for i, h := range c.messageHandlers {
		if h.matches(sig) {
			c.messageHandlers = append(c.messageHandlers[:i], c.messageHandlers[i+1:]...)
			task := func() { h.invoke(sig) }
			if c.isShadow {
				c.runInline(task)
			} else {
				dispatch(task)
			}
			return
		}
	}
	c.storedMessages = append(c.storedMessages, sig)
}

// addMessageHandler implements §4.1 addMessageHandler, draining any queued
// message of a matching type.
func (c *coreNode) addMessageHandler(h signalHandler) {
	for i, sig := range c.storedMessages {
		if h.matches(sig) {
			c.storedMessages = append(c.storedMessages[:i], c.storedMessages[i+1:]...)
			task := func() { h.invoke(sig) }
			if c.isShadow {
				c.runInline(task)
			} else {
				dispatch(task)
			}
			return
		}
	}
	c.messageHandlers = append(c.messageHandlers, h)
}

// unsetTarget implements §4.1 unset-target: remove the bidirectional link
// and let both sides check their own lifetime.
func (c *coreNode) unsetTarget() {
	next := c.next
	if next == nil {
		return
	}
	c.next = nil
	next.removePrev(c)
	c.tryDestroy()
	next.tryDestroy()
}

func (c *coreNode) removePrev(p *coreNode) {
	for i, pv := range c.prevs {
		if pv == p {
			c.prevs = append(c.prevs[:i], c.prevs[i+1:]...)
			return
		}
	}
}

// attachPromise / detachPromise / attachFuture / detachFuture implement the
// refcount maintenance of §4.1; detach always runs tryDestroy.
func (c *coreNode) attachPromise() { c.hasPromise = true }
func (c *coreNode) detachPromise() {
	c.hasPromise = false
	c.tryDestroy()
}
func (c *coreNode) attachFuture() { c.hasFuture = true }
func (c *coreNode) detachFuture() {
	c.hasFuture = false
	c.tryDestroy()
}

// tryDestroy is the explicit analogue of the spec's "self-destructs when
// not alive": Go has no deterministic destructors, so nothing needs
// freeing by hand and tryDestroy only evaluates alive(). The broken-promise
// trigger (invariant 5) is not handled here: Promise.Detach injects
// BrokenPromise itself, before it calls detachPromise. See future.go.
func (c *coreNode) tryDestroy() {
	_ = c.alive() // invariant 1 holds trivially under GC; kept for documentation/testing hooks.
}
