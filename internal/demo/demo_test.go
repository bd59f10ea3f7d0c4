package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBitDrifter/depot"
)

func newWorld(t *testing.T) (*depot.Engine, Setup, depot.Entity) {
	t.Helper()
	engine, err := depot.NewEngine(depot.DefaultConfig())
	require.NoError(t, err)
	setup, err := Register(engine)
	require.NoError(t, err)

	en, err := engine.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, depot.AddComponent(engine, en, Int{I: 1}))
	require.NoError(t, depot.AddComponent(engine, en, Float{F: 2}))
	return engine, setup, en
}

func TestScenario(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		wantI int
		wantF float32
	}{
		{"Increment then multiply", IncFirst, 10, 0.5},
		{"Multiply then increment", MulFirst, 7, 0.5},
		{"With float increment", Full, 10, 0.575},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, setup, en := newWorld(t)
			schedule, err := setup.Schedule(tt.order)
			require.NoError(t, err)

			for tick := 0; tick < 2; tick++ {
				require.NoError(t, Tick(schedule))
			}

			i, err := depot.GetComponent[Int](engine, en)
			require.NoError(t, err)
			f, err := depot.GetComponent[Float](engine, en)
			require.NoError(t, err)
			assert.Equal(t, tt.wantI, i.I)
			assert.InDelta(t, tt.wantF, f.F, 1e-5)
		})
	}
}

func TestMembership(t *testing.T) {
	engine, setup, en := newWorld(t)
	intOnly, err := engine.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, depot.AddComponent(engine, intOnly, Int{}))

	assert.ElementsMatch(t, []depot.Entity{en, intOnly}, setup.IntInc.MemberList())
	assert.Equal(t, []depot.Entity{en}, setup.FloatInc.MemberList())
	assert.Equal(t, []depot.Entity{en}, setup.NumMul.MemberList())

	require.NoError(t, depot.RemoveComponent[Float](engine, en))
	assert.Zero(t, setup.NumMul.Size())
	assert.Zero(t, setup.FloatInc.Size())

	require.NoError(t, engine.DestroyEntity(intOnly))
	assert.Equal(t, []depot.Entity{en}, setup.IntInc.MemberList())
}

func TestRegisterTwice(t *testing.T) {
	engine, _, _ := newWorld(t)
	_, err := Register(engine)
	assert.ErrorIs(t, err, depot.ErrDuplicateRegistration)
}

func TestUnknownOrder(t *testing.T) {
	_, setup, _ := newWorld(t)
	_, err := setup.Schedule("sideways")
	assert.Error(t, err)
}
