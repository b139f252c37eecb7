package graph

// Registry maps stable external indices to values and back.
//
// Indices are handed out monotonically and are never reused: a removed
// element leaves a gap, surviving elements keep their index, and Clear
// continues numbering where the previous generation stopped. Lookups are
// O(1) because an index is a position in a dense slot slice offset by base.
//
// The zero value is an empty registry ready for use.
type Registry[T comparable] struct {
	slots []T
	live  []bool
	base  int
	count int
}

// Register stores v and returns its new index.
func (r *Registry[T]) Register(v T) int {
	index := r.base + len(r.slots)
	r.slots = append(r.slots, v)
	r.live = append(r.live, true)
	r.count++
	return index
}

// Resolve returns the value registered under index.
// The second result is false for indices that were never issued, were
// unregistered, or belong to a generation discarded by Clear.
func (r *Registry[T]) Resolve(index int) (T, bool) {
	var zero T
	slot := index - r.base
	if slot < 0 || slot >= len(r.slots) || !r.live[slot] {
		return zero, false
	}
	return r.slots[slot], true
}

// Unregister removes index. It reports whether the index was live.
func (r *Registry[T]) Unregister(index int) bool {
	slot := index - r.base
	if slot < 0 || slot >= len(r.slots) || !r.live[slot] {
		return false
	}
	var zero T
	r.slots[slot] = zero
	r.live[slot] = false
	r.count--
	return true
}

// Len returns the number of live indices.
func (r *Registry[T]) Len() int { return r.count }

// Next returns the index the next Register call will hand out.
func (r *Registry[T]) Next() int { return r.base + len(r.slots) }

// Indices returns all live indices in ascending order.
func (r *Registry[T]) Indices() []int {
	out := make([]int, 0, r.count)
	for slot, ok := range r.live {
		if ok {
			out = append(out, r.base+slot)
		}
	}
	return out
}

// Values returns all live values ordered by index.
func (r *Registry[T]) Values() []T {
	out := make([]T, 0, r.count)
	for slot, ok := range r.live {
		if ok {
			out = append(out, r.slots[slot])
		}
	}
	return out
}

// Clear forgets every registered value. Indices issued before Clear never
// resolve again and are not handed out a second time.
func (r *Registry[T]) Clear() {
	r.base += len(r.slots)
	r.slots = nil
	r.live = nil
	r.count = 0
}
