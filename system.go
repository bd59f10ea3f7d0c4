package depot

import (
	"iter"
	"reflect"

	iter_util "github.com/TheBitDrifter/util/iter"
)

// memberSet is a packed set of entities with O(1) insert, erase and lookup.
type memberSet struct {
	dense []Entity
	index []int32
}

func newMemberSet(capacity int) *memberSet {
	s := &memberSet{
		dense: make([]Entity, 0, capacity),
		index: make([]int32, capacity),
	}
	for i := range s.index {
		s.index[i] = noSlot
	}
	return s
}

func (s *memberSet) Insert(en Entity) bool {
	if int(en) >= len(s.index) || s.index[en] != noSlot {
		return false
	}
	s.index[en] = int32(len(s.dense))
	s.dense = append(s.dense, en)
	return true
}

func (s *memberSet) Erase(en Entity) bool {
	if !s.Has(en) {
		return false
	}
	gap := s.index[en]
	last := len(s.dense) - 1
	moved := s.dense[last]
	s.dense[gap] = moved
	s.index[moved] = gap
	s.dense = s.dense[:last]
	s.index[en] = noSlot
	return true
}

func (s *memberSet) Has(en Entity) bool {
	return int(en) < len(s.index) && s.index[en] != noSlot
}

func (s *memberSet) Len() int {
	return len(s.dense)
}

type systemEntry struct {
	name      string
	signature Signature
	system    System
	members   *memberSet

	// scratch backs the cursor snapshot between ticks
	scratch []Entity
	running int
}

// SystemRegistry holds every registered system and its live membership.
// Membership is maintained incrementally from signature changes and never
// recomputed by scanning entities, except once when a system registers.
type SystemRegistry struct {
	entityCapacity int
	systems        *arena[reflect.Type, systemEntry]
}

func newSystemRegistry(maxSystems, entityCapacity int) *SystemRegistry {
	return &SystemRegistry{
		entityCapacity: entityCapacity,
		systems:        newArena[reflect.Type, systemEntry]("system", maxSystems),
	}
}

// systemPtr constrains S to be *T and a System, so that registration can
// construct the instance itself.
type systemPtr[T any] interface {
	*T
	System
}

func registerSystem[T any, S systemPtr[T]](r *SystemRegistry, builder *SignatureBuilder) (SystemHandle[S], error) {
	typ := reflect.TypeFor[T]()
	if _, ok := r.systems.GetIndex(typ); ok {
		return SystemHandle[S]{}, DuplicateRegistrationError{Kind: "system", Name: typ.String()}
	}
	if r.systems.Len() >= r.systems.maxCapacity {
		return SystemHandle[S]{}, CapacityExceededError{Resource: "system", Limit: r.systems.maxCapacity}
	}

	sys := S(new(T))
	if err := sys.OnRegister(builder); err != nil {
		return SystemHandle[S]{}, err
	}
	if builder.err != nil {
		return SystemHandle[S]{}, builder.err
	}

	idx, err := r.systems.Register(typ, systemEntry{
		name:      typ.String(),
		signature: builder.signature,
		system:    sys,
		members:   newMemberSet(r.entityCapacity),
	})
	if err != nil {
		return SystemHandle[S]{}, err
	}
	return SystemHandle[S]{system: sys, entry: r.systems.GetItem(idx)}, nil
}

func getSystem[T any, S systemPtr[T]](r *SystemRegistry) (SystemHandle[S], error) {
	typ := reflect.TypeFor[T]()
	idx, ok := r.systems.GetIndex(typ)
	if !ok {
		return SystemHandle[S]{}, NotRegisteredError{Kind: "system", Name: typ.String()}
	}
	entry := r.systems.GetItem(idx)
	return SystemHandle[S]{system: entry.system.(S), entry: entry}, nil
}

// OnEntityDestroy drops en from every membership.
func (r *SystemRegistry) OnEntityDestroy(en Entity) {
	for _, entry := range r.systems.Items() {
		entry.members.Erase(en)
	}
}

// OnSignatureUpdate re-evaluates en against every system's requirement.
func (r *SystemRegistry) OnSignatureUpdate(en Entity, sig Signature) {
	for _, entry := range r.systems.Items() {
		if sig.Contains(entry.signature) {
			entry.members.Insert(en)
		} else {
			entry.members.Erase(en)
		}
	}
}

// Size is the number of registered systems.
func (r *SystemRegistry) Size() int {
	return r.systems.Len()
}

func (r *SystemRegistry) Names() []string {
	names := make([]string, 0, r.systems.Len())
	for _, entry := range r.systems.Items() {
		names = append(names, entry.name)
	}
	return names
}

// SignatureBuilder collects the requirement a system declares in OnRegister.
type SignatureBuilder struct {
	engine    *Engine
	signature Signature
	err       error
}

// Engine gives the registering system access to the engine it will run on.
func (b *SignatureBuilder) Engine() *Engine {
	return b.engine
}

// Require adds registered component ids to the requirement.
func (b *SignatureBuilder) Require(ids ...ComponentID) *SignatureBuilder {
	for _, id := range ids {
		if int(id) >= b.engine.components.Size() {
			b.fail(NotRegisteredError{Kind: "component", Name: b.engine.components.Name(id)})
			continue
		}
		b.signature.Set(id)
	}
	return b
}

// Signature is the requirement declared so far.
func (b *SignatureBuilder) Signature() Signature {
	return b.signature
}

func (b *SignatureBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Require adds component type T to the requirement being built.
func Require[T any](b *SignatureBuilder) *SignatureBuilder {
	id, err := componentIDOf[T](b.engine.components)
	if err != nil {
		b.fail(err)
		return b
	}
	b.signature.Set(id)
	return b
}

// System returns the registered instance.
func (h SystemHandle[S]) System() S {
	return h.system
}

// Update runs the system once over its current membership.
func (h SystemHandle[S]) Update() error {
	entry := h.entry
	if entry == nil {
		return NotRegisteredError{Kind: "system", Name: reflect.TypeFor[S]().String()}
	}
	var buf []Entity
	if entry.running == 0 {
		buf = entry.scratch
	}
	entry.running++
	cursor := newCursor(entry.members, buf)
	defer func() {
		entry.running--
		if entry.running == 0 {
			entry.scratch = cursor.snapshot[:0]
		}
	}()
	return entry.system.Update(cursor)
}

func (h SystemHandle[S]) Name() string {
	if h.entry == nil {
		return ""
	}
	return h.entry.name
}

// Signature is the requirement the system declared when it registered.
func (h SystemHandle[S]) Signature() Signature {
	if h.entry == nil {
		return Signature{}
	}
	return h.entry.signature
}

// Size is the number of current members.
func (h SystemHandle[S]) Size() int {
	if h.entry == nil {
		return 0
	}
	return h.entry.members.Len()
}

func (h SystemHandle[S]) Contains(en Entity) bool {
	return h.entry != nil && h.entry.members.Has(en)
}

// Members yields the current members in packed order. The set must not be
// changed while iterating; use Update and its Cursor for that.
func (h SystemHandle[S]) Members() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if h.entry == nil {
			return
		}
		for _, en := range h.entry.members.dense {
			if !yield(en) {
				return
			}
		}
	}
}

// MemberList copies the current members.
func (h SystemHandle[S]) MemberList() []Entity {
	return iter_util.Collect(h.Members())
}
