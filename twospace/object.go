package twospace

import "reflect"

// Object is implemented by every type managed by an Allocator.
type Object interface {
	GCHeader() *Header
	Size() uintptr
	Clone(a *Allocator) Object
}

// IsNil reports whether o is a nil Object, including a typed nil pointer
// boxed in a non-nil interface.
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
// of the current cycle. Even without pins, this is what lets a cyclic
// object graph terminate: the second time Copy reaches an object already
// being cloned, it short-circuits on the copied bit instead of recursing
// forever.
func (a *Allocator) InstallForward(old, shell Object) {
	hdr := old.GCHeader()
	if hdr.copied {
		return
	}
	hdr.forward = shell
	hdr.copied = true
}

// Copy returns the live replacement for obj under allocator a. See
// segmented.Copy for the fuller discussion; this backend's version is
// simpler because there is no pinned self-forwarding case to recognize.
func Copy(a *Allocator, obj Object) Object {
	if a == nil || IsNil(obj) {
		return obj
	}
	hdr := obj.GCHeader()
	if hdr.copied {
		return hdr.forward
	}
	if hdr.owner == a {
		return obj.Clone(a)
	}
	return obj
}

func copyTyped[T Object](a *Allocator, v T) T {
	return Copy(a, Object(v)).(T)
}

// Field copies *slot under a and writes the result back into *slot.
func Field[T Object](a *Allocator, slot *T) T {
	*slot = copyTyped(a, *slot)
	return *slot
}
