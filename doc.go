/*
Package depot provides a fixed-capacity Entity-Component-System (ECS) runtime.

Depot hands out entity handles from a fixed pool, keeps each component type in
its own packed store, and tracks for every registered system the exact set of
entities whose components satisfy that system's requirement. Membership is
updated incrementally on every add, remove and destroy; nothing rescans the
world per tick.

Core Concepts:

  - Entity: An opaque handle recycled through a pool of Config.MaxEntities.
  - Component: Plain Go data attached at most once per type to an entity.
  - Signature: The bit set of component types an entity currently holds.
  - System: A behavior unit matched to entities whose signature is a superset
    of the requirement it declared in OnRegister.

Basic Usage:

	engine, _ := depot.NewEngine(depot.DefaultConfig())

	depot.RegisterComponentType[Position](engine)
	depot.RegisterComponentType[Velocity](engine)

	movement, _ := depot.RegisterSystem[Movement](engine)

	en, _ := engine.CreateEntity()
	depot.AddComponent(engine, en, Position{})
	depot.AddComponent(engine, en, Velocity{X: 1})

	// once per tick, in an order chosen by the caller
	movement.Update()

Component values are copied out by Get. Mutable access is scoped to an Update
callback; the pointer it receives must not outlive the callback, and the store
rejects structural changes while it runs.

An Engine does no internal locking and must be used from one goroutine at a
time. Create one per worker, or guard a shared one externally. Engine.Lock is
a reentrancy guard that defers structural changes, not a mutex.
*/
package depot
