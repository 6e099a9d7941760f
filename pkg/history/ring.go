// Package history holds fixed-capacity, insertion-ordered buffers.
package history

// Ring is a fixed-capacity circular buffer. Pushing past capacity evicts the
// oldest element.
type Ring[T any] struct {
	data []T
	pos  int
	full bool
}

// NewRing creates a ring holding at most capacity elements.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Push appends v, evicting the oldest element when full.
func (r *Ring[T]) Push(v T) {
	if len(r.data) == 0 {
		return
	}
	r.data[r.pos] = v
	r.pos++
	if r.pos == len(r.data) {
		r.pos = 0
		r.full = true
	}
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int {
	if r.full {
		return len(r.data)
	}
	return r.pos
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// At returns the i-th element, 0 being the oldest. It panics when i is out
// of range.
func (r *Ring[T]) At(i int) T {
	return *r.ptr(i)
}

// Newest returns the most recently pushed element.
func (r *Ring[T]) Newest() (T, bool) {
	var zero T
	n := r.Len()
	if n == 0 {
		return zero, false
	}
	return r.At(n - 1), true
}

// Each calls fn for every element from oldest to newest. fn may modify the
// element in place.
func (r *Ring[T]) Each(fn func(v *T)) {
	n := r.Len()
	for i := 0; i < n; i++ {
		fn(r.ptr(i))
	}
}

// Slice copies the contents, oldest first.
func (r *Ring[T]) Slice() []T {
	n := r.Len()
	out := make([]T, n)
	if r.full {
		copy(out, r.data[r.pos:])
		copy(out[len(r.data)-r.pos:], r.data[:r.pos])
	} else {
		copy(out, r.data[:r.pos])
	}
	return out
}

// Clear empties the ring without releasing its storage.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.pos = 0
	r.full = false
}

func (r *Ring[T]) ptr(i int) *T {
	n := r.Len()
	if i < 0 || i >= n {
		panic("history: index out of range")
	}
	if r.full {
		return &r.data[(r.pos+i)%len(r.data)]
	}
	return &r.data[i]
}
