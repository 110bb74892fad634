package future

// HandleMust is invoked by Must when given a non-nil error. It panics by
// default; tests or unusual call sites may override it (e.g. to fail
// through a test framework's own fatal path instead of a bare panic).
var HandleMust = func(err error) { panic(err) }

// Must returns v if err is nil; otherwise it invokes HandleMust. Kept from
// the teacher's future.Must as a convenience for call sites that treat a
// given error as unrecoverable — typically unwrapping a Value() result the
// caller already knows is ready and has no error handler for.
func Must[V any](v V, err error) V {
	if err != nil {
		HandleMust(err)
	}
	return v
}

// Lazy returns a function that calls f at most once, on first call, caching
// its result for every subsequent call. It is not safe for concurrent use.
// It is exported for call sites that want memoization without a future or
// a key.
func Lazy[V any](f func() V) func() V {
	var (
		done  bool
		value V
	)
	return func() V {
		if !done {
			value = f()
			done = true
		}
		return value
	}
}
