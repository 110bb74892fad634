package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/br-lewis/continuum/executor"
	"github.com/br-lewis/continuum/future"
)

func TestMain(m *testing.M) {
	future.SetExecutor(executor.Immediate())
	m.Run()
}

func TestGetOrCreate_CallsFactoryOnce(t *testing.T) {
	m := New[string, int]()
	calls := 0

	f1 := m.GetOrCreate("a", func(p *future.Promise[int]) {
		calls++
		p.SetValue(1)
	})
	f2 := m.GetOrCreate("a", func(p *future.Promise[int]) {
		calls++
		p.SetValue(2)
	})

	require.Equal(t, 1, calls)
	assert.Equal(t, 1, f1.Value())
	_ = f2
	assert.Equal(t, 1, m.Size())
}

func TestGetOrCreate_DistinctKeys(t *testing.T) {
	m := New[string, int]()

	m.GetOrCreate("a", func(p *future.Promise[int]) { p.SetValue(1) })
	m.GetOrCreate("b", func(p *future.Promise[int]) { p.SetValue(2) })

	assert.Equal(t, 2, m.Size())
}

func TestGet_MissingKey(t *testing.T) {
	m := New[string, int]()
	_, ok := m.Get("missing")
	assert.False(t, ok)
}

func TestGet_ExistingKey(t *testing.T) {
	m := New[string, int]()
	m.GetOrCreate("a", func(p *future.Promise[int]) { p.SetValue(7) })

	f, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 7, f.Value())
}

func TestDelete(t *testing.T) {
	m := New[string, int]()
	m.GetOrCreate("a", func(p *future.Promise[int]) { p.SetValue(1) })

	m.Delete("a")
	assert.Equal(t, 0, m.Size())

	_, ok := m.Get("a")
	assert.False(t, ok)
}

func TestPurge(t *testing.T) {
	m := New[string, int]()
	m.GetOrCreate("a", func(p *future.Promise[int]) { p.SetValue(1) })
	m.GetOrCreate("b", func(p *future.Promise[int]) { p.SetValue(2) })

	m.Purge()
	assert.Equal(t, 0, m.Size())
}
