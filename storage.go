package depot

import (
	"iter"
	"reflect"
)

const noSlot int32 = -1

var _ componentStore = &ComponentStore[struct{}]{}

// componentStore is the type-erased view the registry needs for bulk removal.
type componentStore interface {
	Remove(Entity) error
	Has(Entity) bool
	Size() int
	Name() string
	borrowedBy() int
}

// ComponentStore keeps the values of one component type packed at the front
// of a fixed-size array. entityToSlot and slotToEntity are kept in lock-step
// so that add, remove and lookup are O(1). Removal moves the last value into
// the vacated slot, so dense order changes on every Remove.
type ComponentStore[T any] struct {
	name         string
	values       []T
	entityToSlot []int32
	slotToEntity []Entity
	size         int
	borrowed     int
}

func newComponentStore[T any](capacity int) *ComponentStore[T] {
	s := &ComponentStore[T]{
		name:         typeName[T](),
		values:       make([]T, capacity),
		entityToSlot: make([]int32, capacity),
		slotToEntity: make([]Entity, capacity),
	}
	for i := range s.entityToSlot {
		s.entityToSlot[i] = noSlot
	}
	return s
}

// Add appends value for en at the end of the dense region.
func (s *ComponentStore[T]) Add(en Entity, value T) error {
	if !s.inRange(en) {
		return InvalidEntityError{Entity: en}
	}
	if s.entityToSlot[en] != noSlot {
		return ComponentExistsError{Entity: en, Component: s.name}
	}
	if s.borrowed > 0 {
		return BorrowedStoreError{Component: s.name}
	}
	slot := s.size
	s.values[slot] = value
	s.entityToSlot[en] = int32(slot)
	s.slotToEntity[slot] = en
	s.size++
	return nil
}

// Remove drops the value of en by moving the last dense value into its slot.
func (s *ComponentStore[T]) Remove(en Entity) error {
	if !s.Has(en) {
		return ComponentNotFoundError{Entity: en, Component: s.name}
	}
	if s.borrowed > 0 {
		return BorrowedStoreError{Component: s.name}
	}
	gap := s.entityToSlot[en]
	last := int32(s.size - 1)
	moved := s.slotToEntity[last]

	s.values[gap] = s.values[last]
	s.slotToEntity[gap] = moved
	s.entityToSlot[moved] = gap

	var zero T
	s.values[last] = zero
	s.entityToSlot[en] = noSlot
	s.size--
	return nil
}

// Get returns a copy of the value held for en.
func (s *ComponentStore[T]) Get(en Entity) (T, error) {
	if !s.Has(en) {
		var zero T
		return zero, ComponentNotFoundError{Entity: en, Component: s.name}
	}
	return s.values[s.entityToSlot[en]], nil
}

// Set overwrites the value held for en.
func (s *ComponentStore[T]) Set(en Entity, value T) error {
	if !s.Has(en) {
		return ComponentNotFoundError{Entity: en, Component: s.name}
	}
	s.values[s.entityToSlot[en]] = value
	return nil
}

// Update lends fn a pointer to the value held for en. The pointer must not
// escape fn: while fn runs the store refuses Add and Remove, and once fn
// returns the slot may be reused for another entity.
func (s *ComponentStore[T]) Update(en Entity, fn func(*T)) error {
	if !s.Has(en) {
		return ComponentNotFoundError{Entity: en, Component: s.name}
	}
	s.borrowed++
	defer func() { s.borrowed-- }()
	fn(&s.values[s.entityToSlot[en]])
	return nil
}

func (s *ComponentStore[T]) Has(en Entity) bool {
	return s.inRange(en) && s.entityToSlot[en] != noSlot
}

// Size is the number of packed values.
func (s *ComponentStore[T]) Size() int {
	return s.size
}

func (s *ComponentStore[T]) Capacity() int {
	return len(s.values)
}

func (s *ComponentStore[T]) Name() string {
	return s.name
}

// All yields entity/value copies in current dense order. The order is only
// meaningful until the next Add or Remove.
func (s *ComponentStore[T]) All() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for slot := 0; slot < s.size; slot++ {
			if !yield(s.slotToEntity[slot], s.values[slot]) {
				return
			}
		}
	}
}

func (s *ComponentStore[T]) borrowedBy() int {
	return s.borrowed
}

func (s *ComponentStore[T]) inRange(en Entity) bool {
	return int(en) < len(s.entityToSlot)
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
