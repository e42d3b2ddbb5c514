// Package ecs is a minimal entity store: every component kind is a column
// with one optional slot per entity, and all columns grow in lockstep.
package ecs

import "motor/internal/component"

// Entity identifies a spawned object. Entities are never destroyed.
type Entity uint32

// Components is the set of components given to Spawn. Nil fields leave
// the slot empty.
type Components struct {
	Renderable *component.Renderable
	Name       *component.Name
}

// World holds every column
type World struct {
	Renderables Column[component.Renderable]
	Names       Column[component.Name]

	count int
}

func NewWorld() *World {
	return &World{}
}

// Spawn appends one slot to every column and returns the new entity
func (w *World) Spawn(c Components) Entity {
	e := Entity(w.count)
	w.Renderables.push(c.Renderable)
	w.Names.push(c.Name)
	w.count++
	return e
}

// Len returns the number of spawned entities
func (w *World) Len() int {
	return w.count
}

// Commands carries requests from handlers back to the scheduler
type Commands struct {
	ShouldClose bool
}
