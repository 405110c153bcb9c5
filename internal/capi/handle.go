package capi

import (
	"sync"
	"sync/atomic"
)

// registry maps opaque integer handles to Go values so that C never holds a
// Go pointer. Handle 0 is never issued.
type registry[T any] struct {
	m    sync.Map
	next atomic.Uintptr
}

func (r *registry[T]) add(v T) uintptr {
	h := r.next.Add(1)
	r.m.Store(h, v)

	return h
}

func (r *registry[T]) get(h uintptr) (T, bool) {
	var zero T

	if h == 0 {
		return zero, false
	}

	v, ok := r.m.Load(h)
	if !ok {
		return zero, false
	}

	return v.(T), true
}

// take removes and returns the value of h. A second take of the same handle
// reports false.
func (r *registry[T]) take(h uintptr) (T, bool) {
	var zero T

	if h == 0 {
		return zero, false
	}

	v, ok := r.m.LoadAndDelete(h)
	if !ok {
		return zero, false
	}

	return v.(T), true
}

func (r *registry[T]) len() int {
	var n int

	r.m.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}
