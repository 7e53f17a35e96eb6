// Package twospace implements a compact two-space copying collector over a
// fixed-capacity arena: no segments, no pins, no weak references — the
// simplest variant the source describes, trading the segmented backend's
// flexibility for a single capacity number and a simple full/not-full
// allocation failure mode.
//
// As with segmented, "space" here is an accounting budget rather than a
// literal memory region: objects still live on the ordinary Go heap so
// that Go's own collector can see every pointer inside them. Collect
// still relocates every reachable object by calling its Clone method, the
// same self-update discipline segmented uses, just without the segment or
// pin machinery layered on top of it.
package twospace
