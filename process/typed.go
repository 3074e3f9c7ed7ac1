package process

import (
	"fmt"
	"reflect"
	"unsafe"
)

// SizeOf returns T's exact in-memory size, padding included.
func SizeOf[T any]() MemorySize {
	var t T
	return MemorySize(unsafe.Sizeof(t))
}

// ReadT reads a value of type T from the target at addr using T's native
// in-memory layout. No byte-order conversion happens; the result is only
// meaningful when target and reader share architecture and endianness.
// T must be plain data: types containing Go-managed references (pointers,
// slices, strings, maps, ...) are rejected before any OS call, since a
// remote address copied into a Go pointer is garbage to the collector.
func ReadT[T any](a *Accessor, addr MemoryAddress) (T, error) {
	var v T

	if err := checkPOD[T](); err != nil {
		return v, err
	}
	size := SizeOf[T]()
	if size == 0 {
		return v, fmt.Errorf("ReadT: size of %T is zero", v)
	}

	data, err := a.ReadMemory(addr, size)
	if err != nil {
		return v, err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), size), data)
	return v, nil
}

// WriteT serializes v to its exact native byte representation and writes
// it at addr. The same plain-data restriction as ReadT applies.
func WriteT[T any](a *Accessor, addr MemoryAddress, v T) error {
	if err := checkPOD[T](); err != nil {
		return err
	}
	size := int(SizeOf[T]())
	if size == 0 {
		return fmt.Errorf("WriteT: size of %T is zero", v)
	}

	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(unsafe.Pointer(&v)), size))
	return a.WriteMemory(addr, data)
}

func checkPOD[T any]() error {
	t := reflect.TypeFor[T]()
	if ref := managedRef(t); ref != nil {
		return fmt.Errorf("%s is not plain data: contains %s", t, ref)
	}
	return nil
}

// managedRef walks t and returns the first nested type whose layout holds
// a Go-managed reference, or nil when t is plain data.
func managedRef(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Slice, reflect.String,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return t
	case reflect.Array:
		return managedRef(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if ref := managedRef(t.Field(i).Type); ref != nil {
				return ref
			}
		}
	}
	return nil
}
