package future

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queueExecutor is a minimal deterministic FIFO executor local to this test
// file so future's own tests don't need to import package executor (which
// itself imports future) — a small, duplicated test double rather than a
// cross-package dependency, matching how the teacher's own packages avoid
// test-only cycles.
type queueExecutor struct {
	tasks []Task
}

func (q *queueExecutor) Enqueue(t Task) { q.tasks = append(q.tasks, t) }

func (q *queueExecutor) drain() {
	for len(q.tasks) > 0 {
		t := q.tasks[0]
		q.tasks = q.tasks[1:]
		t()
	}
}

func withQueueExecutor(t *testing.T) *queueExecutor {
	t.Helper()
	q := &queueExecutor{}
	SetExecutor(q)
	return q
}

func TestPromiseFuture_SetValueThenChain(t *testing.T) {
	q := withQueueExecutor(t)

	p := NewPromise[int]()
	f := p.Future()

	doubled := Then(f, func(v int) int { return v * 2 })
	tripled := Then(doubled, func(v int) int { return v * 3 })

	p.SetValue(7)
	q.drain()

	assert.True(t, tripled.IsReady())
	assert.Equal(t, 42, tripled.Value())
}

func TestPromiseFuture_ValueSetBeforeThen(t *testing.T) {
	q := withQueueExecutor(t)

	p := NewPromise[int]()
	f := p.Future()
	p.SetValue(10)

	doubled := Then(f, func(v int) int { return v * 2 })
	q.drain()

	assert.True(t, doubled.IsReady())
	assert.Equal(t, 20, doubled.Value())
}

func TestThenAsync_SplicesSubgraph(t *testing.T) {
	q := withQueueExecutor(t)

	outer := NewPromise[int]()
	inner := NewSharedPromise[string]()

	result := ThenAsync(outer.Future(), func(v int) *Future[string] {
		return inner.Future()
	})

	outer.SetValue(5)
	q.drain()
	assert.False(t, result.IsReady(), "async continuation should not resolve until the inner future does")

	inner.SetValue("done")
	q.drain()

	assert.True(t, result.IsReady())
	assert.Equal(t, "done", result.Value())
}

func TestThenVoidIn_IgnoresPredecessorValue(t *testing.T) {
	q := withQueueExecutor(t)

	p := NewPromise[int]()
	voided := ThenVoid(p.Future(), func(int) {})
	named := ThenVoidIn(voided, func() string { return "fired" })

	p.SetValue(42)
	q.drain()

	assert.True(t, named.IsReady())
	assert.Equal(t, "fired", named.Value())
}

func TestThenAsyncVoidIn_SplicesSubgraph(t *testing.T) {
	q := withQueueExecutor(t)

	outer := NewPromise[int]()
	inner := NewPromise[string]()

	voided := ThenVoid(outer.Future(), func(int) {})
	result := ThenAsyncVoidIn(voided, func() *Future[string] {
		return inner.Future()
	})

	outer.SetValue(1)
	q.drain()
	assert.False(t, result.IsReady(), "async void-in continuation should wait on the inner future")

	inner.SetValue("done")
	q.drain()

	assert.True(t, result.IsReady())
	assert.Equal(t, "done", result.Value())
}

func TestOnError_TypedDispatch(t *testing.T) {
	q := withQueueExecutor(t)

	type notFound struct{}
	type timeout struct{}

	p := NewPromise[int]()
	f := p.Future()

	var handledNotFound, handledTimeout bool
	f = OnError(f, func(notFound) int {
		handledNotFound = true
		return -1
	})
	f = OnError(f, func(timeout) int {
		handledTimeout = true
		return -2
	})

	p.SetError(notFound{})
	q.drain()

	assert.True(t, f.IsReady())
	assert.Equal(t, -1, f.Value())
	assert.True(t, handledNotFound)
	assert.False(t, handledTimeout)
}

func TestOnError_UnmatchedTypeStaysParked(t *testing.T) {
	q := withQueueExecutor(t)

	type notFound struct{}
	type other struct{}

	p := NewPromise[int]()
	f := p.Future()
	f = OnError(f, func(notFound) int { return -1 })

	p.SetError(other{})
	q.drain()

	assert.True(t, f.IsReady(), "a parked error counts as ready")
	assert.False(t, f.ctx.core.valueSet, "no handler matched, so no value was produced")
}

func TestSharedPromise_ForgetInjectsBrokenPromise(t *testing.T) {
	q := withQueueExecutor(t)

	sp := NewSharedPromise[int]()
	f := sp.Future()

	var gotBroken bool
	f = OnError(f, func(BrokenPromise) int {
		gotBroken = true
		return 0
	})

	sp.Forget()
	q.drain()

	assert.True(t, gotBroken)
	assert.True(t, f.IsReady())
}

func TestSharedPromise_CloneDefersForget(t *testing.T) {
	q := withQueueExecutor(t)

	sp := NewSharedPromise[int]()
	clone := sp.Clone()
	f := sp.Future()
	f = OnError(f, func(BrokenPromise) int { return -1 })

	sp.Forget()
	assert.False(t, f.IsReady(), "future should not see BrokenPromise while a clone is outstanding")

	clone.Forget()
	q.drain()
	assert.True(t, f.IsReady())
	assert.Equal(t, -1, f.Value())
}

func TestPromise_DetachAfterValueSetIsNotBroken(t *testing.T) {
	q := withQueueExecutor(t)

	p := NewPromise[int]()
	f := p.Future()
	p.SetValue(1)
	p.Detach()
	q.drain()

	assert.True(t, f.IsReady())
	assert.Equal(t, 1, f.Value())
}

func TestPromise_OnMessageCatchesQueuedMessage(t *testing.T) {
	q := withQueueExecutor(t)

	p := NewPromise[int]()
	f := p.Future()

	f.SendMessage("ping")

	var got interface{}
	done := make(chan struct{}, 1)
	p.OnMessage(func(msg interface{}) {
		got = msg
		done <- struct{}{}
	})
	q.drain()

	require.NotEmpty(t, done)
	assert.Equal(t, "ping", got)
}

func TestPromise_OnPanicRecoversShadowDispatch(t *testing.T) {
	withQueueExecutor(t)

	type boom struct{}

	p := NewPromise[int]()
	f := p.Future()

	var recovered interface{}
	p.OnPanic(func(r RecoveredPanic) { recovered = r.Value })

	f = OnError(f, func(boom) int { panic("handler exploded") })

	// Collect's input edges run inline (direct/shadow dispatch), which is
	// exactly where OnPanic is meant to catch a misbehaving handler.
	_ = Collect([]*Future[int]{f})

	p.SetError(boom{})

	assert.Equal(t, "handler exploded", recovered)
}

func TestFuture_PanicsOnUseAfterMove(t *testing.T) {
	withQueueExecutor(t)

	p := NewPromise[int]()
	f := p.Future()
	_ = Then(f, func(v int) int { return v })

	assert.Panics(t, func() {
		Then(f, func(v int) int { return v })
	})
}
