package segmented

import "errors"

// ErrNoCollectorBound is the panic value for any operation that needs a
// thread-bound Allocator (via Current) and finds none. This mirrors the
// source's treatment of a missing thread context as a programming error,
// not a recoverable condition: callers are expected to bind an allocator
// with New before touching it from a given OS thread.
var ErrNoCollectorBound = errors.New("segmented: no collector bound to the current thread")

// errDanglingNode is the panic value for Release/unregister calls on a
// Root or Pin that is not (or is no longer) present in its registry. This
// can only happen from a double Release or from corrupted bookkeeping,
// both programming errors.
var errDanglingNode = errors.New("segmented: release of a node not present in the registry")
