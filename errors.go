package depot

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for every contract violation the engine reports. The typed
// errors below unwrap to one of these, so callers match with errors.Is.
var (
	ErrCapacityExceeded      = errors.New("capacity exceeded")
	ErrNotRegistered         = errors.New("not registered")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrInvalidEntity         = errors.New("invalid entity")
	ErrDuplicateComponent    = errors.New("duplicate component")
	ErrMissingComponent      = errors.New("missing component")
	ErrLocked                = errors.New("locked")
)

type CapacityExceededError struct {
	Resource string
	Limit    int
}

func (e CapacityExceededError) Error() string {
	return fmt.Sprintf("%s capacity exceeded (limit %d)", e.Resource, e.Limit)
}

func (e CapacityExceededError) Unwrap() error { return ErrCapacityExceeded }

type NotRegisteredError struct {
	Kind string
	Name string
}

func (e NotRegisteredError) Error() string {
	return fmt.Sprintf("%s not registered: %s", e.Kind, e.Name)
}

func (e NotRegisteredError) Unwrap() error { return ErrNotRegistered }

type DuplicateRegistrationError struct {
	Kind string
	Name string
}

func (e DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%s already registered: %s", e.Kind, e.Name)
}

func (e DuplicateRegistrationError) Unwrap() error { return ErrDuplicateRegistration }

type InvalidEntityError struct {
	Entity Entity
}

func (e InvalidEntityError) Error() string {
	return fmt.Sprintf("entity %d is out of range or not alive", e.Entity)
}

func (e InvalidEntityError) Unwrap() error { return ErrInvalidEntity }

type ComponentExistsError struct {
	Entity    Entity
	Component string
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity %d: %s", e.Entity, e.Component)
}

func (e ComponentExistsError) Unwrap() error { return ErrDuplicateComponent }

type ComponentNotFoundError struct {
	Entity    Entity
	Component string
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity %d: %s", e.Entity, e.Component)
}

func (e ComponentNotFoundError) Unwrap() error { return ErrMissingComponent }

type LockedEngineError struct{}

func (e LockedEngineError) Error() string {
	return "engine is currently locked"
}

func (e LockedEngineError) Unwrap() error { return ErrLocked }

// BorrowedStoreError is returned when a structural change hits a store whose
// values are borrowed by an Update callback.
type BorrowedStoreError struct {
	Component string
}

func (e BorrowedStoreError) Error() string {
	return fmt.Sprintf("component store is borrowed: %s", e.Component)
}

func (e BorrowedStoreError) Unwrap() error { return ErrLocked }
