package depot

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryComponentIDs(t *testing.T) {
	r := newComponentRegistry(3, 10)

	pos, err := registerComponent[Position](r)
	require.NoError(t, err)
	vel, err := registerComponent[Velocity](r)
	require.NoError(t, err)

	assert.Equal(t, ComponentID(0), pos.ID())
	assert.Equal(t, ComponentID(1), vel.ID())
	assert.True(t, pos.Registered())

	id, err := componentIDOf[Velocity](r)
	require.NoError(t, err)
	assert.Equal(t, vel.ID(), id)

	_, err = registerComponent[Position](r)
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.Equal(t, 2, r.Size(), "failed registration must not consume an id")

	_, err = registerComponent[Health](r)
	require.NoError(t, err)
	_, err = registerComponent[int](r)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = componentIDOf[string](r)
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.Equal(t, []string{"depot.Position", "depot.Velocity", "depot.Health"}, r.Names())
}

func TestRegistryTypedAccess(t *testing.T) {
	r := newComponentRegistry(4, 10)
	pos, err := registerComponent[Position](r)
	require.NoError(t, err)

	store, id, err := storeFor[Position](r)
	require.NoError(t, err)
	assert.Equal(t, ComponentID(0), id)
	assert.Same(t, pos.store, store)
	require.NoError(t, store.Add(3, Position{X: 1}))

	got, err := getComponent[Position](r, 3)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 1}, got)

	_, _, err = storeFor[Velocity](r)
	assert.ErrorIs(t, err, ErrNotRegistered)
	_, err = getComponent[Velocity](r, 3)
	assert.ErrorIs(t, err, ErrNotRegistered)

	assert.ErrorIs(t, r.Remove(4, id), ErrMissingComponent)
	require.NoError(t, r.Remove(3, id))
	_, err = getComponent[Position](r, 3)
	assert.ErrorIs(t, err, ErrMissingComponent)
}

func TestRegistryRemoveAll(t *testing.T) {
	r := newComponentRegistry(4, 10)
	pos, _ := registerComponent[Position](r)
	vel, _ := registerComponent[Velocity](r)
	health, _ := registerComponent[Health](r)

	pos.store.Add(5, Position{})
	health.store.Add(5, Health{})
	vel.store.Add(6, Velocity{})
	sig := NewSignature(pos.ID(), health.ID())

	t.Run("Borrowed store leaves entity intact", func(t *testing.T) {
		var err error
		vel.Update(6, func(*Velocity) {})
		health.Update(5, func(*Health) {
			err = r.RemoveAll(5, sig)
		})
		assert.True(t, errors.Is(err, ErrLocked))
		assert.True(t, pos.Has(5))
		assert.True(t, health.Has(5))
	})

	t.Run("Missing component leaves entity intact", func(t *testing.T) {
		err := r.RemoveAll(5, NewSignature(pos.ID(), vel.ID()))
		assert.ErrorIs(t, err, ErrMissingComponent)
		assert.True(t, pos.Has(5))
	})

	t.Run("Removes every set bit", func(t *testing.T) {
		require.NoError(t, r.RemoveAll(5, sig))
		assert.False(t, pos.Has(5))
		assert.False(t, health.Has(5))
		assert.True(t, vel.Has(6))
	})

	t.Run("Unknown id", func(t *testing.T) {
		assert.ErrorIs(t, r.Remove(6, ComponentID(3)), ErrNotRegistered)
	})
}

func TestRegistryLookup(t *testing.T) {
	r := newComponentRegistry(4, 10)
	pos, _ := registerComponent[Position](r)
	token, err := componentTypeFor[Position](r)
	require.NoError(t, err)

	id, ok := r.Lookup(token.Element())
	assert.True(t, ok)
	assert.Equal(t, pos.ID(), id)
	assert.Equal(t, pos.Element(), token.Element())
	assert.Equal(t, reflect.TypeFor[Position](), token.Element().Type())
	assert.Equal(t, "depot.Position", r.Name(pos.ID()))
	assert.Equal(t, "component#7", r.Name(7))
}

func TestZeroComponentType(t *testing.T) {
	var zero ComponentType[Position]

	assert.Nil(t, zero.Element())
	assert.False(t, zero.Registered())
	assert.False(t, zero.Has(0))
	_, err := zero.Get(0)
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.ErrorIs(t, zero.Update(0, func(*Position) {}), ErrNotRegistered)
}

// Registries built on separate goroutines each get distinct element ids.
func TestRegistryConcurrentRegistration(t *testing.T) {
	const workers = 8
	elements := make([][2]Component, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			r := newComponentRegistry(4, 10)
			pos, err := registerComponent[Position](r)
			assert.NoError(t, err)
			vel, err := registerComponent[Velocity](r)
			assert.NoError(t, err)
			elements[w] = [2]Component{pos.Element(), vel.Element()}
		}(w)
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	for _, pair := range elements {
		for _, el := range pair {
			require.NotNil(t, el)
			id := uint32(el.ID())
			assert.False(t, seen[id], "element id %d handed out twice", id)
			seen[id] = true
		}
	}
}
