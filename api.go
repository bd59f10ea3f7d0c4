package depot

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

// Entity is an opaque handle in [0, Config.MaxEntities). A handle is owned by
// at most one live entity at a time and is recycled after destruction.
type Entity uint32

// ComponentID is the small integer assigned to a component type when it is
// registered. IDs are handed out in registration order and never reused.
type ComponentID uint32

// Component is the table identity carried by every registered component type.
type Component interface {
	table.ElementType
}

// System is a behavior unit. OnRegister is called exactly once, during
// registration, and must declare the components the system requires.
// Update receives a cursor over the entities whose signature currently
// satisfies that requirement.
type System interface {
	OnRegister(*SignatureBuilder) error
	Update(*Cursor) error
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(Signature) bool
}

type iCursor interface {
	Entities() iter.Seq2[int, Entity]
	Next() bool
}

// componentKey is implemented by ComponentType tokens so queries can resolve
// them without knowing T.
type componentKey interface {
	componentID() (ComponentID, bool)
}

// Cursor walks the membership of one system. It iterates the members present
// when iteration starts and skips any that leave the set before they are
// reached, so Update may add, remove or destroy while iterating.
type Cursor struct {
	members *memberSet

	// Current iteration state
	snapshot []Entity
	index    int
	current  Entity

	initialized bool
}

// ComponentType is the token returned when a component type is registered.
// It is the typed way back into the type's store.
type ComponentType[T any] struct {
	element Component
	id      ComponentID
	store   *ComponentStore[T]
}

// SystemHandle is the caller's reference to a registered system.
type SystemHandle[S System] struct {
	system S
	entry  *systemEntry
}
