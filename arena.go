package depot

import (
	"fmt"
	"iter"
)

// arena owns a bounded set of items by value, each addressed by the index it
// was registered at. Indices are assigned in registration order and never
// reused.
type arena[K comparable, T any] struct {
	resource    string
	items       []T
	itemIndices map[K]int
	maxCapacity int
}

func newArena[K comparable, T any](resource string, capacity int) *arena[K, T] {
	return &arena[K, T]{
		resource:    resource,
		items:       make([]T, 0, capacity),
		itemIndices: make(map[K]int, capacity),
		maxCapacity: capacity,
	}
}

func (a *arena[K, T]) GetIndex(key K) (int, bool) {
	index, ok := a.itemIndices[key]
	return index, ok
}

func (a *arena[K, T]) GetItem(index int) *T {
	return &a.items[index]
}

// Register stores item under key at the next free index.
func (a *arena[K, T]) Register(key K, item T) (int, error) {
	if _, ok := a.itemIndices[key]; ok {
		return -1, DuplicateRegistrationError{Kind: a.resource, Name: fmt.Sprint(key)}
	}
	if len(a.items) >= a.maxCapacity {
		return -1, CapacityExceededError{Resource: a.resource, Limit: a.maxCapacity}
	}
	idx := len(a.items)
	a.itemIndices[key] = idx
	a.items = append(a.items, item)
	return idx, nil
}

func (a *arena[K, T]) Len() int {
	return len(a.items)
}

// Items yields every item in registration order.
func (a *arena[K, T]) Items() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range a.items {
			if !yield(i, &a.items[i]) {
				return
			}
		}
	}
}
