package future

import "reflect"

// signalHandler is a type-tagged handler awaiting a Signal of one concrete
// type on a given context. It specializes into an error-handler (registered
// via OnError, which produces a new value on the context it was registered
// against) or a message-handler (registered via OnMessage, a pure side
// effect with no return value) purely by what its invoke closure does;
// the graph's matching and bookkeeping logic (addErrorHandler,
// addMessageHandler, storeError, sendMessage) is identical for both.
type signalHandler struct {
	tag    reflect.Type
	invoke func(Signal)
}

// matches reports whether h is the handler that should consume sig. A nil
// tag is a wildcard, used by Promise.OnMessage to catch any upstream
// message regardless of its concrete type.
func (h signalHandler) matches(sig Signal) bool {
	if sig.tag == nil {
		return false
	}
	return h.tag == nil || h.tag == sig.tag
}

func errorTypeTag[E any]() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}
