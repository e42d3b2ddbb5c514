package ecs

import "iter"

// Column stores one optional component per entity, indexed by entity id
type Column[T any] struct {
	slots []*T
}

func (c *Column[T]) push(v *T) {
	c.slots = append(c.slots, v)
}

// Len returns the number of slots, present or not
func (c *Column[T]) Len() int {
	return len(c.slots)
}

// Get returns the component of e, or nil when e lacks it
func (c *Column[T]) Get(e Entity) *T {
	if int(e) >= len(c.slots) {
		return nil
	}
	return c.slots[e]
}

// Has reports whether e has this component
func (c *Column[T]) Has(e Entity) bool {
	return c.Get(e) != nil
}

// All yields every present component in ascending entity order. The
// pointers alias the stored values, so callers may mutate in place.
// Entities spawned during iteration are not visited.
func (c *Column[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		n := len(c.slots)
		for i := 0; i < n; i++ {
			v := c.slots[i]
			if v == nil {
				continue
			}
			if !yield(Entity(i), v) {
				return
			}
		}
	}
}

// Count returns the number of present components
func (c *Column[T]) Count() int {
	n := 0
	for _, v := range c.slots {
		if v != nil {
			n++
		}
	}
	return n
}
