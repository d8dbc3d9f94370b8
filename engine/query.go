package engine

import (
	"slices"
	"sort"

	"github.com/lixenwraith/barslide/core"
)

// QueryBuilder provides a fluent interface for querying entities based on component intersection.
// The query optimizes by starting with the smallest store and filtering through larger ones.
type QueryBuilder struct {
	stores   []QueryableStore
	executed bool
	results  []core.Entity
}

// Query creates a new QueryBuilder for finding entities with specific component combinations.
// Use With() to add component filters, then Execute() to get the results.
//
// Example:
//
//	entities := world.Query().
//	    With(world.RigidBodies).
//	    With(world.Translations).
//	    Execute()
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{
		stores: make([]QueryableStore, 0, 2),
	}
}

// With adds a component store to the query filter.
// Panics if called after Execute().
func (qb *QueryBuilder) With(store QueryableStore) *QueryBuilder {
	if qb.executed {
		panic("query already executed - cannot modify after Execute()")
	}
	qb.stores = append(qb.stores, store)
	return qb
}

// Execute returns all entities present in every specified store, in ascending id order.
// Calling Execute() multiple times returns the cached result.
func (qb *QueryBuilder) Execute() []core.Entity {
	if qb.executed {
		return qb.results
	}
	qb.executed = true
	qb.results = intersect(qb.stores...)
	return qb.results
}

// intersect filters the smallest store's entities through the others
func intersect(stores ...QueryableStore) []core.Entity {
	if len(stores) == 0 {
		return make([]core.Entity, 0)
	}

	ordered := slices.Clone(stores)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Count() < ordered[j].Count()
	})

	candidates := ordered[0].All()
	for i := 1; i < len(ordered) && len(candidates) > 0; i++ {
		store := ordered[i]
		filtered := candidates[:0] // Reuse underlying array
		for _, e := range candidates {
			if store.Has(e) {
				filtered = append(filtered, e)
			}
		}
		candidates = filtered
	}

	slices.Sort(candidates)
	return candidates
}
