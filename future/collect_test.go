package future

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollect_Empty(t *testing.T) {
	withQueueExecutor(t)

	f := Collect[int](nil)
	assert.True(t, f.IsReady())
	assert.Equal(t, []int{}, f.Value())
}

func TestCollect_PreservesOrderRegardlessOfCompletionOrder(t *testing.T) {
	q := withQueueExecutor(t)

	p0 := NewPromise[int]()
	p1 := NewPromise[int]()
	p2 := NewPromise[int]()

	result := Collect([]*Future[int]{p0.Future(), p1.Future(), p2.Future()})

	// fulfil out of order
	p2.SetValue(2)
	p0.SetValue(0)
	p1.SetValue(1)
	q.drain()

	assert.True(t, result.IsReady())
	assert.Equal(t, []int{0, 1, 2}, result.Value())
}

func TestCollect_ShortCircuitsOnFirstError(t *testing.T) {
	q := withQueueExecutor(t)

	type boom struct{}

	p0 := NewPromise[int]()
	p1 := NewPromise[int]()

	result := Collect([]*Future[int]{p0.Future(), p1.Future()})

	var gotErr bool
	result = OnError(result, func(boom) []int {
		gotErr = true
		return nil
	})

	p0.SetError(boom{})
	q.drain()

	assert.True(t, gotErr)
	assert.False(t, result.IsReady() && len(result.Value()) > 0, "value should not be populated from the error path")

	// the still-pending p1 resolving afterward should not panic or
	// overwrite the already-forwarded error.
	p1.SetValue(1)
	q.drain()
}

func TestCollect_PartialCompletionNotReady(t *testing.T) {
	q := withQueueExecutor(t)

	p0 := NewPromise[int]()
	p1 := NewPromise[int]()

	result := Collect([]*Future[int]{p0.Future(), p1.Future()})

	p0.SetValue(1)
	q.drain()

	assert.False(t, result.IsReady())
}
