// Package marksweep implements a mark-and-sweep collector: objects are
// allocated individually through the system allocator (ordinary Go
// allocation) and never move, so there is no forwarding pointer, no
// segment, and no pinning — an object's address is stable for its entire
// lifetime by construction. A collection instead walks every live
// reference setting a mark bit, then sweeps the allocator's global object
// list, destroying anything left unmarked.
//
// Clone from the copying backends has no equivalent here: a managed type
// provides Mark (trace its own reference fields, the way Clone traces
// them in segmented and twospace) and Destroy (release any resources held
// outside the Go heap before the object itself is forgotten).
package marksweep
