package future

import "reflect"

// Signal is an opaque, type-tagged payload used to carry errors and
// messages through the context graph without the graph itself needing to
// know their concrete Go type. Two Signals match (see SameTypeAs) iff their
// underlying concrete types are identical; the graph never compares
// payloads by value.
type Signal struct {
	tag     reflect.Type
	payload interface{}
}

// NewSignal boxes v behind its concrete runtime type. NewSignal(nil)
// returns the zero Signal.
func NewSignal(v interface{}) Signal {
	if v == nil {
		return Signal{}
	}
	return Signal{tag: reflect.TypeOf(v), payload: v}
}

// IsZero reports whether s carries no payload.
func (s Signal) IsZero() bool { return s.tag == nil }

// Payload returns the boxed value, or nil for the zero Signal.
func (s Signal) Payload() interface{} { return s.payload }

// Type returns the concrete type tag, or nil for the zero Signal.
func (s Signal) Type() reflect.Type { return s.tag }

// SameTypeAs reports whether s and other carry payloads of the identical
// concrete type. Two zero Signals are never considered a match.
func (s Signal) SameTypeAs(other Signal) bool {
	return s.tag != nil && s.tag == other.tag
}

// Clone returns a Signal referring to the same payload. Signal is an
// immutable value type (the payload itself is never mutated by the
// engine), so cloning is a cheap shallow copy — this is what lets
// sendMessage hand an independent Signal to every predecessor edge of a
// fan-in node without the branches observing each other's consumption.
func (s Signal) Clone() Signal { return s }
