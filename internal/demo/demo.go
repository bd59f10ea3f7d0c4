// Package demo holds the sample components and systems used by the depot
// command and the engine tests.
package demo

import (
	"github.com/pkg/errors"

	"github.com/TheBitDrifter/depot"
)

type Int struct {
	I int
}

type Float struct {
	F float32
}

// IntInc adds one to every Int.
type IntInc struct {
	ints depot.ComponentType[Int]
}

func (s *IntInc) OnRegister(b *depot.SignatureBuilder) error {
	ints, err := depot.GetComponentType[Int](b.Engine())
	if err != nil {
		return err
	}
	s.ints = ints
	b.Require(ints.ID())
	return nil
}

func (s *IntInc) Update(cursor *depot.Cursor) error {
	for cursor.Next() {
		if err := s.ints.UpdateFromCursor(cursor, func(c *Int) { c.I++ }); err != nil {
			return err
		}
	}
	return nil
}

// FloatInc adds 0.1 to every Float.
type FloatInc struct {
	floats depot.ComponentType[Float]
}

func (s *FloatInc) OnRegister(b *depot.SignatureBuilder) error {
	floats, err := depot.GetComponentType[Float](b.Engine())
	if err != nil {
		return err
	}
	s.floats = floats
	b.Require(floats.ID())
	return nil
}

func (s *FloatInc) Update(cursor *depot.Cursor) error {
	for cursor.Next() {
		if err := s.floats.UpdateFromCursor(cursor, func(c *Float) { c.F += .1 }); err != nil {
			return err
		}
	}
	return nil
}

// NumMul doubles the Int and halves the Float of entities holding both.
type NumMul struct {
	ints   depot.ComponentType[Int]
	floats depot.ComponentType[Float]
}

func (s *NumMul) OnRegister(b *depot.SignatureBuilder) error {
	var err error
	if s.ints, err = depot.GetComponentType[Int](b.Engine()); err != nil {
		return err
	}
	if s.floats, err = depot.GetComponentType[Float](b.Engine()); err != nil {
		return err
	}
	depot.Require[Int](b)
	depot.Require[Float](b)
	return nil
}

func (s *NumMul) Update(cursor *depot.Cursor) error {
	for cursor.Next() {
		if err := s.ints.UpdateFromCursor(cursor, func(c *Int) { c.I *= 2 }); err != nil {
			return err
		}
		if err := s.floats.UpdateFromCursor(cursor, func(c *Float) { c.F *= .5 }); err != nil {
			return err
		}
	}
	return nil
}

// Updater is anything that runs once per tick.
type Updater interface {
	Update() error
}

// Setup is the registered state of the demo world.
type Setup struct {
	IntInc   depot.SystemHandle[*IntInc]
	FloatInc depot.SystemHandle[*FloatInc]
	NumMul   depot.SystemHandle[*NumMul]
}

// Register registers Int, Float and the three systems on engine.
func Register(engine *depot.Engine) (Setup, error) {
	var s Setup
	if _, err := depot.RegisterComponentType[Int](engine); err != nil {
		return s, errors.Wrap(err, "register Int")
	}
	if _, err := depot.RegisterComponentType[Float](engine); err != nil {
		return s, errors.Wrap(err, "register Float")
	}
	var err error
	if s.IntInc, err = depot.RegisterSystem[IntInc](engine); err != nil {
		return s, errors.Wrap(err, "register IntInc")
	}
	if s.FloatInc, err = depot.RegisterSystem[FloatInc](engine); err != nil {
		return s, errors.Wrap(err, "register FloatInc")
	}
	if s.NumMul, err = depot.RegisterSystem[NumMul](engine); err != nil {
		return s, errors.Wrap(err, "register NumMul")
	}
	return s, nil
}

// Order names a fixed per-tick system order.
type Order string

const (
	IncFirst Order = "inc-first"
	MulFirst Order = "mul-first"
	// Full also runs FloatInc between the other two.
	Full Order = "full"
)

// Schedule returns the systems of s in the given order.
func (s Setup) Schedule(order Order) ([]Updater, error) {
	switch order {
	case IncFirst:
		return []Updater{s.IntInc, s.NumMul}, nil
	case MulFirst:
		return []Updater{s.NumMul, s.IntInc}, nil
	case Full:
		return []Updater{s.IntInc, s.FloatInc, s.NumMul}, nil
	}
	return nil, errors.Errorf("unknown order %q", order)
}

// Tick runs every updater once, in slice order.
func Tick(updaters []Updater) error {
	for _, u := range updaters {
		if err := u.Update(); err != nil {
			return err
		}
	}
	return nil
}
