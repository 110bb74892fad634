package future

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_ZeroValue(t *testing.T) {
	var sig Signal
	assert.True(t, sig.IsZero())
}

func TestSignal_NewSignalNotZero(t *testing.T) {
	sig := NewSignal(42)
	assert.False(t, sig.IsZero())
	assert.Equal(t, 42, sig.Payload())
}

func TestSignal_SameTypeAs(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(2)
	c := NewSignal("nope")

	assert.True(t, a.SameTypeAs(b))
	assert.False(t, a.SameTypeAs(c))
}

func TestSignal_ExactTypeNotInterface(t *testing.T) {
	type myError struct{ error }
	wrapped := NewSignal(myError{})
	plain := NewSignal(assertErr{})

	assert.False(t, wrapped.SameTypeAs(plain))
}

type assertErr struct{}

func (assertErr) Error() string { return "assert" }

func TestSignal_Clone(t *testing.T) {
	sig := NewSignal("hello")
	clone := sig.Clone()
	assert.Equal(t, sig.Payload(), clone.Payload())
	assert.Equal(t, sig.Type(), clone.Type())
}
