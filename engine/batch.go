package engine

import (
	"github.com/lixenwraith/barslide/core"
)

// Batch is a frame-scoped dense copy of two component columns
// Entities, First and Second are parallel: index i of each belongs to the same entity
// Systems mutate First/Second in place and Commit writes them back to the stores
type Batch[A, B any] struct {
	Entities []core.Entity
	First    []A
	Second   []B

	storeA    *Store[A]
	storeB    *Store[B]
	committed bool
}

// AcquireBatch snapshots every entity owning both components, in ascending entity order
func AcquireBatch[A, B any](a *Store[A], b *Store[B]) *Batch[A, B] {
	entities := intersect(a, b)

	batch := &Batch[A, B]{
		Entities: entities,
		First:    make([]A, len(entities)),
		Second:   make([]B, len(entities)),
		storeA:   a,
		storeB:   b,
	}
	a.readInto(entities, batch.First)
	b.readInto(entities, batch.Second)
	return batch
}

// Len returns the number of entities in the batch
func (b *Batch[A, B]) Len() int {
	return len(b.Entities)
}

// Commit writes the batch back to the stores; later calls are no-ops
// Entities removed from either store since acquisition are not resurrected
func (b *Batch[A, B]) Commit() {
	if b.committed {
		return
	}
	b.committed = true
	if len(b.Entities) == 0 {
		return
	}
	b.storeA.writeExisting(b.Entities, b.First)
	b.storeB.writeExisting(b.Entities, b.Second)
}

// Committed reports whether Commit has run
func (b *Batch[A, B]) Committed() bool {
	return b.committed
}

// WithBatch acquires a batch, runs fn and commits on every exit path, including panics
func WithBatch[A, B any](a *Store[A], b *Store[B], fn func(*Batch[A, B]) error) error {
	batch := AcquireBatch(a, b)
	defer batch.Commit()
	return fn(batch)
}
