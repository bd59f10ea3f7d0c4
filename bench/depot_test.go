package bench

import (
	"testing"

	"github.com/TheBitDrifter/depot"
)

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

type movement struct {
	position depot.ComponentType[Position]
	velocity depot.ComponentType[Velocity]
}

func (m *movement) OnRegister(b *depot.SignatureBuilder) error {
	var err error
	if m.position, err = depot.GetComponentType[Position](b.Engine()); err != nil {
		return err
	}
	if m.velocity, err = depot.GetComponentType[Velocity](b.Engine()); err != nil {
		return err
	}
	b.Require(m.position.ID(), m.velocity.ID())
	return nil
}

func (m *movement) Update(cursor *depot.Cursor) error {
	for cursor.Next() {
		vel, _ := m.velocity.GetFromCursor(cursor)
		m.position.UpdateFromCursor(cursor, func(pos *Position) {
			pos.X += vel.X
			pos.Y += vel.Y
		})
	}
	return nil
}

func newBenchEngine(b *testing.B) (*depot.Engine, depot.ComponentType[Velocity]) {
	cfg := depot.DefaultConfig()
	cfg.MaxEntities = nPos + nPosVel
	engine, err := depot.NewEngine(cfg)
	if err != nil {
		b.Fatal(err)
	}
	depot.RegisterComponentType[Position](engine)
	velocity, err := depot.RegisterComponentType[Velocity](engine)
	if err != nil {
		b.Fatal(err)
	}
	return engine, velocity
}

func BenchmarkIterDepot(b *testing.B) {
	b.StopTimer()
	engine, _ := newBenchEngine(b)
	system, err := depot.RegisterSystem[movement](engine)
	if err != nil {
		b.Fatal(err)
	}

	for i := 0; i < nPos+nPosVel; i++ {
		en, _ := engine.CreateEntity()
		depot.AddComponent(engine, en, Position{})
		if i < nPosVel {
			depot.AddComponent(engine, en, Velocity{X: 1, Y: 1})
		}
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		system.Update()
	}
}

func BenchmarkAddRemoveDepot(b *testing.B) {
	b.StopTimer()
	engine, velocity := newBenchEngine(b)
	depot.RegisterSystem[movement](engine)

	entities := make([]depot.Entity, nPosVel)
	for i := range entities {
		entities[i], _ = engine.CreateEntity()
		depot.AddComponent(engine, entities[i], Position{})
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for _, en := range entities {
			depot.AddComponentTo(engine, velocity, en, Velocity{})
		}
		for _, en := range entities {
			depot.RemoveComponentFrom(engine, velocity, en)
		}
	}
}
