package segmented

import "reflect"

// Object is implemented by every type managed by an Allocator. Size reports
// the number of bytes the object should be accounted against segment and
// allocator budgets; it does not need to be exact, only stable and
// representative, since no real memory arena is sized from it. Clone
// produces a fresh copy of the receiver for the destination allocator a,
// updating any reference fields in place via Field or Copy before
// returning the copy, and must call a.InstallForward(receiver, copy)
// exactly once before doing so.
type Object interface {
	GCHeader() *Header
	Size() uintptr
	Clone(a *Allocator) Object
}

// IsNil reports whether o is a nil Object, handling the case where o wraps
// a typed nil pointer (an interface holding a (*T)(nil) is not == nil).
func IsNil(o Object) bool {
	if o == nil {
		return true
	}
	v := reflect.ValueOf(o)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

// InstallForward records that old has been replaced by shell for the rest
// of the current collection cycle. It is idempotent: once old is marked
// copied, later calls (including the one a pinned object's own Clone makes
// on itself during the pin trace) are no-ops. This is what lets a single
// Clone method serve both the pinned, in-place trace and ordinary
// relocation without the caller needing to know which one is happening.
func (a *Allocator) InstallForward(old, shell Object) {
	hdr := old.GCHeader()
	if hdr.copied {
		return
	}
	hdr.forward = shell
	hdr.copied = true
}

// Copy returns the live replacement for obj under allocator a: obj itself
// if it is nil or foreign to a; the shell its header forwards to if it has
// already been copied this cycle; obj itself
// (traced in place) if it is the self-forwarding sentinel installed by a
// pin pre-pass; otherwise obj.Clone(a)'s result, with obj's header updated
// to forward to it.
//
// Every holder of a reference to a managed object — a Root, a Pin's
// tracked value is the one exception, see Pin — must overwrite its own
// storage with Copy's result, because Copy may have relocated the object
// out from under the old pointer. Field does this for struct fields.
func Copy(a *Allocator, obj Object) Object {
	if a == nil || IsNil(obj) {
		return obj
	}
	hdr := obj.GCHeader()
	if hdr.copied {
		return hdr.forward
	}
	if hdr.forward == obj {
		// Self-forwarding sentinel from the pin pre-pass: trace in place,
		// discard the shell Clone hands back.
		hdr.copied = true
		obj.Clone(a)
		return obj
	}
	if hdr.segment != nil && hdr.segment.owner == a {
		return obj.Clone(a)
	}
	return obj
}

func copyTyped[T Object](a *Allocator, v T) T {
	return Copy(a, Object(v)).(T)
}

// Field copies *slot under a and writes the result back into *slot,
// returning the same value. Every Clone implementation that has reference
// fields must route each of them through Field (or the lower-level Copy,
// for callers that already have an Object rather than a typed slot).
func Field[T Object](a *Allocator, slot *T) T {
	*slot = copyTyped(a, *slot)
	return *slot
}
