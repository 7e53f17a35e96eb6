package twospace

import "errors"

// ErrNoCollectorBound mirrors segmented.ErrNoCollectorBound for code using
// the package-level MustCurrent entry point.
var ErrNoCollectorBound = errors.New("twospace: no collector bound to the current thread")

// ErrOutOfMemory is raised by Allocate when the active semi-space is full and
// the allocator was configured with RaiseOnOOM.
var ErrOutOfMemory = errors.New("twospace: semi-space exhausted")

var errDanglingNode = errors.New("twospace: release of a root not present in the registry")
