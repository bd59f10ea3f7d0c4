package depot

// ID returns the ComponentID assigned at registration.
func (c ComponentType[T]) ID() ComponentID {
	return c.id
}

// Element is the table identity of T, nil for a zero token.
func (c ComponentType[T]) Element() Component {
	return c.element
}

// Registered reports whether the token came from a successful registration.
func (c ComponentType[T]) Registered() bool {
	return c.store != nil
}

// Get returns a copy of the value held by en.
func (c ComponentType[T]) Get(en Entity) (T, error) {
	if c.store == nil {
		var zero T
		return zero, c.notRegistered()
	}
	return c.store.Get(en)
}

// Update lends fn a pointer to the value held by en for the duration of the
// call. See ComponentStore.Update.
func (c ComponentType[T]) Update(en Entity, fn func(*T)) error {
	if c.store == nil {
		return c.notRegistered()
	}
	return c.store.Update(en, fn)
}

func (c ComponentType[T]) Has(en Entity) bool {
	return c.store != nil && c.store.Has(en)
}

// GetFromCursor retrieves the value for the entity at the cursor position.
func (c ComponentType[T]) GetFromCursor(cursor *Cursor) (T, error) {
	return c.Get(cursor.Entity())
}

// UpdateFromCursor borrows the value for the entity at the cursor position.
func (c ComponentType[T]) UpdateFromCursor(cursor *Cursor, fn func(*T)) error {
	return c.Update(cursor.Entity(), fn)
}

func (c ComponentType[T]) componentID() (ComponentID, bool) {
	return c.id, c.store != nil
}

func (c ComponentType[T]) notRegistered() error {
	return NotRegisteredError{Kind: "component", Name: typeName[T]()}
}
