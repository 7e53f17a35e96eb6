package marksweep

import "errors"

// ErrNoCollectorBound mirrors the other two backends' version of the same
// fatal precondition violation.
var ErrNoCollectorBound = errors.New("marksweep: no collector bound to the current thread")

var errDanglingNode = errors.New("marksweep: release of a root not present in the registry")
