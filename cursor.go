package depot

import "iter"

var _ iCursor = &Cursor{}

func newCursor(members *memberSet, buf []Entity) *Cursor {
	return &Cursor{
		members:  members,
		snapshot: buf[:0],
	}
}

// Next advances to the next member still in the set. It returns false, and
// resets the cursor, once the snapshot is exhausted.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	for c.index < len(c.snapshot) {
		en := c.snapshot[c.index]
		c.index++
		if c.members.Has(en) {
			c.current = en
			return true
		}
	}
	c.Reset()
	return false
}

// Entities yields position and entity for every member still in the set.
func (c *Cursor) Entities() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		c.Reset()
		i := 0
		for c.Next() {
			if !yield(i, c.current) {
				c.Reset()
				return
			}
			i++
		}
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.snapshot = append(c.snapshot[:0], c.members.dense...)
	c.index = 0
	c.initialized = true
}

func (c *Cursor) Reset() {
	c.index = 0
	c.snapshot = c.snapshot[:0]
	c.initialized = false
}

// Entity is the member at the cursor position.
func (c *Cursor) Entity() Entity {
	return c.current
}

// Remaining counts snapshot entries not visited yet, including any that have
// since left the set.
func (c *Cursor) Remaining() int {
	if !c.initialized {
		return c.members.Len()
	}
	return len(c.snapshot) - c.index
}

// TotalMatched is the current size of the membership.
func (c *Cursor) TotalMatched() int {
	return c.members.Len()
}
