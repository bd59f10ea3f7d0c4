package depot

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

type componentSlot struct {
	id      ComponentID
	name    string
	element Component
	store   componentStore
}

// ComponentRegistry assigns ComponentIDs to component types in registration
// order and owns one ComponentStore per registered type.
type ComponentRegistry struct {
	entityCapacity int
	types          *arena[reflect.Type, componentSlot]
	elements       map[Component]ComponentID
}

// table hands out element ids from an unguarded package counter, so engines
// registering on separate goroutines take turns here.
var elementTypeMu sync.Mutex

func newElementType[T any]() Component {
	elementTypeMu.Lock()
	defer elementTypeMu.Unlock()
	return table.FactoryNewElementType[T]()
}

func newComponentRegistry(maxComponents, entityCapacity int) *ComponentRegistry {
	return &ComponentRegistry{
		entityCapacity: entityCapacity,
		types:          newArena[reflect.Type, componentSlot]("component", maxComponents),
		elements:       make(map[Component]ComponentID, maxComponents),
	}
}

func registerComponent[T any](r *ComponentRegistry) (ComponentType[T], error) {
	typ := reflect.TypeFor[T]()
	if _, ok := r.types.GetIndex(typ); ok {
		return ComponentType[T]{}, DuplicateRegistrationError{Kind: "component", Name: typ.String()}
	}
	store := newComponentStore[T](r.entityCapacity)
	element := newElementType[T]()
	id := ComponentID(r.types.Len())

	_, err := r.types.Register(typ, componentSlot{
		id:      id,
		name:    typ.String(),
		element: element,
		store:   store,
	})
	if err != nil {
		return ComponentType[T]{}, err
	}
	r.elements[element] = id
	return ComponentType[T]{
		element: element,
		id:      id,
		store:   store,
	}, nil
}

func storeFor[T any](r *ComponentRegistry) (*ComponentStore[T], ComponentID, error) {
	typ := reflect.TypeFor[T]()
	idx, ok := r.types.GetIndex(typ)
	if !ok {
		return nil, 0, NotRegisteredError{Kind: "component", Name: typ.String()}
	}
	slot := r.types.GetItem(idx)
	return slot.store.(*ComponentStore[T]), slot.id, nil
}

func componentIDOf[T any](r *ComponentRegistry) (ComponentID, error) {
	_, id, err := storeFor[T](r)
	return id, err
}

func getComponent[T any](r *ComponentRegistry, en Entity) (T, error) {
	store, _, err := storeFor[T](r)
	if err != nil {
		var zero T
		return zero, err
	}
	return store.Get(en)
}

// Remove drops the component with the given id from en without static type
// knowledge.
func (r *ComponentRegistry) Remove(en Entity, id ComponentID) error {
	slot, err := r.slot(id)
	if err != nil {
		return err
	}
	return slot.store.Remove(en)
}

// RemoveAll strips every component whose bit is set in sig. Borrowed stores
// are detected before anything is removed, so a failure leaves en intact.
func (r *ComponentRegistry) RemoveAll(en Entity, sig Signature) error {
	width := r.types.Len()
	for id := range sig.IDs(width) {
		slot := r.types.GetItem(int(id))
		if slot.store.borrowedBy() > 0 {
			return BorrowedStoreError{Component: slot.name}
		}
		if !slot.store.Has(en) {
			return ComponentNotFoundError{Entity: en, Component: slot.name}
		}
	}
	for id := range sig.IDs(width) {
		if err := r.Remove(en, id); err != nil {
			return err
		}
	}
	return nil
}

// owns reports whether store is the one registered under id. Zero tokens
// and tokens of another engine fail.
func (r *ComponentRegistry) owns(id ComponentID, store componentStore) bool {
	return int(id) < r.types.Len() && r.types.GetItem(int(id)).store == store
}

// Lookup resolves the table element identity of a registered type.
func (r *ComponentRegistry) Lookup(c Component) (ComponentID, bool) {
	id, ok := r.elements[c]
	return id, ok
}

// Name returns the Go type name registered under id.
func (r *ComponentRegistry) Name(id ComponentID) string {
	slot, err := r.slot(id)
	if err != nil {
		return fmt.Sprintf("component#%d", id)
	}
	return slot.name
}

func (r *ComponentRegistry) Names() []string {
	names := make([]string, 0, r.types.Len())
	for _, slot := range r.types.Items() {
		names = append(names, slot.name)
	}
	return names
}

// Size is the number of registered component types.
func (r *ComponentRegistry) Size() int {
	return r.types.Len()
}

func (r *ComponentRegistry) slot(id ComponentID) (*componentSlot, error) {
	if int(id) >= r.types.Len() {
		return nil, NotRegisteredError{Kind: "component", Name: fmt.Sprintf("id %d", id)}
	}
	return r.types.GetItem(int(id)), nil
}

func componentTypeFor[T any](r *ComponentRegistry) (ComponentType[T], error) {
	store, id, err := storeFor[T](r)
	if err != nil {
		return ComponentType[T]{}, err
	}
	return ComponentType[T]{
		element: r.types.GetItem(int(id)).element,
		id:      id,
		store:   store,
	}, nil
}
