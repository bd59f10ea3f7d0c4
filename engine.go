package depot

import (
	"iter"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Engine composes the entity pool, the component registry and the system
// registry, and orders every mutation so that no part ever observes a
// half-updated entity.
//
// An Engine performs no internal locking. It must be confined to a single
// goroutine, or guarded by the caller, for its whole lifetime.
type Engine struct {
	config     Config
	logger     *zap.Logger
	entities   *EntityManager
	components *ComponentRegistry
	systems    *SystemRegistry

	locks   int
	opQueue opQueue
}

// NewEngine builds an engine with capacities fixed by cfg.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		config:     cfg,
		logger:     zap.NewNop(),
		entities:   newEntityManager(cfg.MaxEntities),
		components: newComponentRegistry(cfg.MaxComponents, cfg.MaxEntities),
		systems:    newSystemRegistry(cfg.MaxSystems, cfg.MaxEntities),
		opQueue:    newOpQueue(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger.Debug("engine created",
		zap.Int("max_entities", cfg.MaxEntities),
		zap.Int("max_components", cfg.MaxComponents),
		zap.Int("max_systems", cfg.MaxSystems),
	)
	return e, nil
}

// CreateEntity hands out a fresh entity with an empty signature.
func (e *Engine) CreateEntity() (Entity, error) {
	en, err := e.entities.CreateEntity()
	if err != nil {
		return 0, err
	}
	// systems that require nothing match every entity
	e.systems.OnSignatureUpdate(en, Signature{})
	return en, nil
}

// DestroyEntity strips all components, drops the entity from every system and
// only then returns the handle to the pool.
func (e *Engine) DestroyEntity(en Entity) error {
	if e.Locked() {
		return LockedEngineError{}
	}
	return e.destroyEntity(en)
}

func (e *Engine) destroyEntity(en Entity) error {
	sig, err := e.entities.GetSignature(en)
	if err != nil {
		return err
	}
	if err := e.components.RemoveAll(en, sig); err != nil {
		return err
	}
	e.systems.OnEntityDestroy(en)
	return e.entities.DestroyEntity(en)
}

// EnqueueDestroyEntity destroys en now, or after the last Unlock when the
// engine is locked.
func (e *Engine) EnqueueDestroyEntity(en Entity) error {
	if !e.Locked() {
		return e.DestroyEntity(en)
	}
	if !e.entities.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	e.opQueue.EnqueueDestroy(en, func() error { return e.destroyEntity(en) })
	return nil
}

// RegisterComponentType assigns the next ComponentID to T and creates its
// store.
func RegisterComponentType[T any](e *Engine) (ComponentType[T], error) {
	ct, err := registerComponent[T](e.components)
	if err != nil {
		return ComponentType[T]{}, err
	}
	e.logger.Debug("component registered",
		zap.String("component", typeName[T]()),
		zap.Uint32("component_id", uint32(ct.ID())),
	)
	return ct, nil
}

// GetComponentType returns the token of an already registered type.
func GetComponentType[T any](e *Engine) (ComponentType[T], error) {
	return componentTypeFor[T](e.components)
}

func GetComponentID[T any](e *Engine) (ComponentID, error) {
	return componentIDOf[T](e.components)
}

// AddComponent attaches value to en. Systems see the new signature before it
// is stored on the entity.
func AddComponent[T any](e *Engine, en Entity, value T) error {
	if e.Locked() {
		return LockedEngineError{}
	}
	return addComponentNow(e, en, value)
}

func addComponentNow[T any](e *Engine, en Entity, value T) error {
	if !e.entities.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	store, id, err := storeFor[T](e.components)
	if err != nil {
		return err
	}
	return attach(e, store, id, en, value)
}

// attach stores value and then moves the signature bit, systems first.
func attach[T any](e *Engine, store *ComponentStore[T], id ComponentID, en Entity, value T) error {
	sig, err := e.entities.GetSignature(en)
	if err != nil {
		return err
	}
	if err := store.Add(en, value); err != nil {
		return err
	}
	sig.Set(id)
	e.systems.OnSignatureUpdate(en, sig)
	return e.entities.SetSignature(en, sig)
}

// AddComponentTo is AddComponent addressed by a token, skipping the type
// lookup. The token must come from e.
func AddComponentTo[T any](e *Engine, ct ComponentType[T], en Entity, value T) error {
	if e.Locked() {
		return LockedEngineError{}
	}
	if !e.components.owns(ct.id, ct.store) {
		return ct.notRegistered()
	}
	return attach(e, ct.store, ct.id, en, value)
}

// RemoveComponent detaches the T held by en.
func RemoveComponent[T any](e *Engine, en Entity) error {
	if e.Locked() {
		return LockedEngineError{}
	}
	return removeComponentNow[T](e, en)
}

func removeComponentNow[T any](e *Engine, en Entity) error {
	if !e.entities.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	store, id, err := storeFor[T](e.components)
	if err != nil {
		return err
	}
	return detach(e, store, id, en)
}

func detach[T any](e *Engine, store *ComponentStore[T], id ComponentID, en Entity) error {
	sig, err := e.entities.GetSignature(en)
	if err != nil {
		return err
	}
	if err := store.Remove(en); err != nil {
		return err
	}
	sig.Clear(id)
	e.systems.OnSignatureUpdate(en, sig)
	return e.entities.SetSignature(en, sig)
}

// RemoveComponentFrom is RemoveComponent addressed by a token.
func RemoveComponentFrom[T any](e *Engine, ct ComponentType[T], en Entity) error {
	if e.Locked() {
		return LockedEngineError{}
	}
	if !e.components.owns(ct.id, ct.store) {
		return ct.notRegistered()
	}
	return detach(e, ct.store, ct.id, en)
}

// EnqueueAddComponent adds now, or after the last Unlock when the engine is
// locked.
func EnqueueAddComponent[T any](e *Engine, en Entity, value T) error {
	if !e.Locked() {
		return AddComponent(e, en, value)
	}
	if !e.entities.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	e.opQueue.EnqueueComponentOp(opAddComponent, en, func() error {
		return addComponentNow(e, en, value)
	})
	return nil
}

// EnqueueRemoveComponent removes now, or after the last Unlock when the
// engine is locked.
func EnqueueRemoveComponent[T any](e *Engine, en Entity) error {
	if !e.Locked() {
		return RemoveComponent[T](e, en)
	}
	if !e.entities.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	e.opQueue.EnqueueComponentOp(opRemoveComponent, en, func() error {
		return removeComponentNow[T](e, en)
	})
	return nil
}

// GetComponent returns a copy of the T held by en.
func GetComponent[T any](e *Engine, en Entity) (T, error) {
	if !e.entities.Alive(en) {
		var zero T
		return zero, InvalidEntityError{Entity: en}
	}
	return getComponent[T](e.components, en)
}

// UpdateComponent lends fn a pointer to the T held by en for the duration of
// the call.
func UpdateComponent[T any](e *Engine, en Entity, fn func(*T)) error {
	if !e.entities.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	store, _, err := storeFor[T](e.components)
	if err != nil {
		return err
	}
	return store.Update(en, fn)
}

// SetComponent overwrites the T held by en.
func SetComponent[T any](e *Engine, en Entity, value T) error {
	if !e.entities.Alive(en) {
		return InvalidEntityError{Entity: en}
	}
	store, _, err := storeFor[T](e.components)
	if err != nil {
		return err
	}
	return store.Set(en, value)
}

func HasComponent[T any](e *Engine, en Entity) bool {
	store, _, err := storeFor[T](e.components)
	return err == nil && e.entities.Alive(en) && store.Has(en)
}

// RegisterSystem constructs a T, lets it declare its requirement and starts
// tracking the entities that already satisfy it.
func RegisterSystem[T any, S systemPtr[T]](e *Engine) (SystemHandle[S], error) {
	handle, err := registerSystem[T, S](e.systems, &SignatureBuilder{engine: e})
	if err != nil {
		return SystemHandle[S]{}, err
	}
	required := handle.entry.signature
	for en, sig := range e.entities.Live() {
		if sig.Contains(required) {
			handle.entry.members.Insert(en)
		}
	}
	e.logger.Debug("system registered",
		zap.String("system", handle.entry.name),
		zap.Stringer("signature", required),
		zap.Int("members", handle.entry.members.Len()),
	)
	return handle, nil
}

func GetSystem[T any, S systemPtr[T]](e *Engine) (SystemHandle[S], error) {
	return getSystem[T, S](e.systems)
}

// Signature returns the component signature of a live entity.
func (e *Engine) Signature(en Entity) (Signature, error) {
	return e.entities.GetSignature(en)
}

func (e *Engine) Alive(en Entity) bool {
	return e.entities.Alive(en)
}

func (e *Engine) EntityCount() int {
	return e.entities.Size()
}

func (e *Engine) ComponentTypeCount() int {
	return e.components.Size()
}

func (e *Engine) SystemCount() int {
	return e.systems.Size()
}

func (e *Engine) Config() Config {
	return e.config
}

func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// Lock makes direct structural changes fail until the matching Unlock.
// Locks nest.
func (e *Engine) Lock() {
	e.locks++
}

// Unlock releases one Lock. Releasing the last one applies everything that
// was enqueued meanwhile and returns the combined failures.
func (e *Engine) Unlock() error {
	if e.locks == 0 {
		return nil
	}
	e.locks--
	if e.locks > 0 {
		return nil
	}
	if err := e.processOperationQueue(); err != nil {
		e.logger.Warn("deferred operations failed", zap.Error(err))
		return err
	}
	return nil
}

func (e *Engine) Locked() bool {
	return e.locks > 0
}

// NewQuery starts an ad-hoc query resolved against this engine's components.
func (e *Engine) NewQuery() Query {
	return newQuery(e.components)
}

// Each yields every live entity whose signature satisfies node. It scans
// all handles and is meant for tooling, not per-tick matching.
func (e *Engine) Each(node QueryNode) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for en, sig := range e.entities.Live() {
			if node.Evaluate(sig) && !yield(en) {
				return
			}
		}
	}
}

// LogRegistry writes the registered component types and systems at level.
func (e *Engine) LogRegistry(level zapcore.Level) {
	ce := e.logger.Check(level, "engine registry")
	if ce == nil {
		return
	}
	ce.Write(
		zap.Int("total_components", e.components.Size()),
		zap.Strings("components", e.components.Names()),
		zap.Int("total_systems", e.systems.Size()),
		zap.Strings("systems", e.systems.Names()),
		zap.Int("entities", e.entities.Size()),
	)
}
