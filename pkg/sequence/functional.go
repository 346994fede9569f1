package sequence

import (
	"iter"
	"slices"
)

// Iterator is a generic, immutable, chainable iterator for any type T.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From creates a new Iterator over a slice. The slice is read lazily.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{seq: slices.Values(data)}
}

// Seq returns the underlying sequence function for range-over-func use.
func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Collect exhausts the iterator and returns a slice of all elements.
func (i *Iterator[T]) Collect() []T {
	var out []T
	for v := range i.seq {
		out = append(out, v)
	}
	return out
}

// Filter returns a new Iterator containing only elements that satisfy the predicate.
func (i *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for v := range i.seq {
				if pred(v) && !yield(v) {
					return
				}
			}
		},
	}
}

// SortBy returns a new Iterator with elements stably sorted by cmp.
func (i *Iterator[T]) SortBy(cmp func(a, b T) int) *Iterator[T] {
	data := i.Collect()
	slices.SortStableFunc(data, cmp)
	return From(data)
}

// Find returns the first element matching the predicate, or false if not found.
func (i *Iterator[T]) Find(pred func(T) bool) (T, bool) {
	for v := range i.seq {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Any returns true if any element matches the predicate.
func (i *Iterator[T]) Any(pred func(T) bool) bool {
	_, ok := i.Find(pred)
	return ok
}

// Last returns the last element, or false if empty.
func (i *Iterator[T]) Last() (T, bool) {
	var (
		last  T
		found bool
	)
	for v := range i.seq {
		last, found = v, true
	}
	return last, found
}

// Count returns the number of elements in the iterator.
func (i *Iterator[T]) Count() int {
	n := 0
	for range i.seq {
		n++
	}
	return n
}

// ToArray maps every element through callback into a new slice.
func ToArray[T any, S any](it *Iterator[T], callback func(T) S) []S {
	var arr []S
	for v := range it.seq {
		arr = append(arr, callback(v))
	}
	return arr
}
