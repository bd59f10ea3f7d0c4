package depot

import "iter"

// EntityManager owns the pool of entity handles and the signature of every
// live entity. Freed handles are recycled first in, first out.
type EntityManager struct {
	capacity   int
	live       []bool
	signatures []Signature

	// free is a ring buffer of recyclable handles
	free     []Entity
	freeHead int
	freeLen  int

	count int
}

func newEntityManager(capacity int) *EntityManager {
	m := &EntityManager{
		capacity:   capacity,
		live:       make([]bool, capacity),
		signatures: make([]Signature, capacity),
		free:       make([]Entity, capacity),
		freeLen:    capacity,
	}
	for i := range m.free {
		m.free[i] = Entity(i)
	}
	return m
}

// CreateEntity takes the next free handle and resets its signature.
func (m *EntityManager) CreateEntity() (Entity, error) {
	if m.freeLen == 0 {
		return 0, CapacityExceededError{Resource: "entity", Limit: m.capacity}
	}
	en := m.free[m.freeHead]
	m.freeHead = (m.freeHead + 1) % m.capacity
	m.freeLen--

	m.live[en] = true
	m.signatures[en] = Signature{}
	m.count++
	return en, nil
}

// DestroyEntity returns a live handle to the pool.
func (m *EntityManager) DestroyEntity(en Entity) error {
	if !m.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	m.live[en] = false
	m.free[(m.freeHead+m.freeLen)%m.capacity] = en
	m.freeLen++
	m.count--
	return nil
}

func (m *EntityManager) GetSignature(en Entity) (Signature, error) {
	if !m.Alive(en) {
		return Signature{}, InvalidEntityError{Entity: en}
	}
	return m.signatures[en], nil
}

func (m *EntityManager) SetSignature(en Entity, sig Signature) error {
	if !m.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	m.signatures[en] = sig
	return nil
}

// Alive reports whether en is in range and currently handed out.
func (m *EntityManager) Alive(en Entity) bool {
	return int(en) < m.capacity && m.live[en]
}

// Size is the number of live entities.
func (m *EntityManager) Size() int {
	return m.count
}

func (m *EntityManager) Capacity() int {
	return m.capacity
}

// Live yields every live entity with its signature in handle order.
func (m *EntityManager) Live() iter.Seq2[Entity, Signature] {
	return func(yield func(Entity, Signature) bool) {
		for i, alive := range m.live {
			if alive && !yield(Entity(i), m.signatures[i]) {
				return
			}
		}
	}
}
