// Package mem provides memory layout utilities shared by the arena pools.
package mem

import "reflect"

// WordSize is the zero-fill granularity of the recycle pass, in bytes.
// Child storage handed to an arena must be a positive multiple of this.
const WordSize = 4

// HasPointers reports whether values of type T contain Go pointers
// (pointers, maps, slices, strings, channels, funcs or interfaces,
// directly or inside nested structs/arrays).
//
// Pools holding pointer-carrying types must stay on the Go heap so the
// garbage collector can see them; pointer-free types can live in off-heap
// anonymous mappings.
func HasPointers[T any]() bool {
	return typeHasPointers(reflect.TypeFor[T]())
}

func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Ptr, UnsafePointer, Map, Slice, String, Chan, Func, Interface.
		return true
	}
}
