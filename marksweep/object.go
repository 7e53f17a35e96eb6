package marksweep

import "reflect"

// Object is implemented by every type managed by an Allocator. Mark
// traces the object's reference-typed fields by calling the package-level
// Mark (or Field) on each of them; it does not construct anything, unlike
// the copying backends' Clone. Destroy releases any resources the object
// holds outside the Go heap; it is called once, during the sweep phase,
// on every object that was not reached this cycle.
type Object interface {
	GCHeader() *Header
	Size() uintptr
	Mark(a *Allocator)
	Destroy()
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

// Mark sets obj's mark bit and, the first time it is visited this cycle,
// recursively marks its referents by calling obj.Mark(a). Foreign objects
// (owned by a different Allocator) and objects already marked this cycle
// are left alone.
func Mark(a *Allocator, obj Object) {
	if a == nil || IsNil(obj) {
		return
	}
	hdr := obj.GCHeader()
	if hdr.owner != a {
		return
	}
	if hdr.mark {
		return
	}
	hdr.mark = true
	obj.Mark(a)
}

// Field marks *slot under a and returns it unchanged. Addresses never
// move in this backend, so there is nothing to write back — Field exists
// purely so a Mark implementation reads the same way a Clone
// implementation does in the copying backends.
func Field[T Object](a *Allocator, slot *T) T {
	Mark(a, Object(*slot))
	return *slot
}
