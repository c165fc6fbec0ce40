// Package table stores unresolved entity instances indexed by type and id.
//
// A Table is populated once through a Builder and is read-only afterwards, so
// any number of goroutines may read it concurrently.
package table

import (
	"iter"

	"github.com/jacoelho/stepgraph/internal/holder"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// Table holds one ordered map of unresolved instances per entity type.
type Table struct {
	schema *schema.Schema
	slots  []slot
	size   int
}

// slot is the ordered map of one entity type.
type slot struct {
	index   map[record.EntityID]int
	ids     []record.EntityID
	holders []*holder.Holder
}

func (s *slot) get(id record.EntityID) (*holder.Holder, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.holders[i], true
}

// Schema returns the schema the table was built against.
func (t *Table) Schema() *schema.Schema {
	return t.schema
}

// Get returns the instance of typeName stored under id.
func (t *Table) Get(typeName string, id record.EntityID) (*holder.Holder, bool) {
	s := t.slot(typeName)
	if s == nil {
		return nil, false
	}
	return s.get(id)
}

// Lookup returns the instance of e stored under id.
func (t *Table) Lookup(e *schema.Entity, id record.EntityID) (*holder.Holder, bool) {
	if e == nil || e.Slot() < 0 || e.Slot() >= len(t.slots) {
		return nil, false
	}
	return t.slots[e.Slot()].get(id)
}

// Contains reports whether an instance of typeName is stored under id.
func (t *Table) Contains(typeName string, id record.EntityID) bool {
	_, ok := t.Get(typeName, id)
	return ok
}

// Len returns the number of instances of typeName.
func (t *Table) Len(typeName string) int {
	s := t.slot(typeName)
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Size returns the number of instances of every type.
func (t *Table) Size() int {
	return t.size
}

// IDs returns the ids of typeName in insertion order.
func (t *Table) IDs(typeName string) []record.EntityID {
	s := t.slot(typeName)
	if s == nil {
		return nil
	}
	out := make([]record.EntityID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Types returns the entity types holding at least one instance, in schema order.
func (t *Table) Types() []string {
	var out []string
	for _, e := range t.schema.Entities() {
		if len(t.slots[e.Slot()].ids) > 0 {
			out = append(out, e.Name())
		}
	}
	return out
}

// All yields the instances of typeName in insertion order.
// The sequence is restartable.
func (t *Table) All(typeName string) iter.Seq2[record.EntityID, *holder.Holder] {
	s := t.slot(typeName)
	return func(yield func(record.EntityID, *holder.Holder) bool) {
		if s == nil {
			return
		}
		for i, id := range s.ids {
			if !yield(id, s.holders[i]) {
				return
			}
		}
	}
}

func (t *Table) slot(typeName string) *slot {
	e, ok := t.schema.Entity(typeName)
	if !ok || e.Slot() < 0 || e.Slot() >= len(t.slots) {
		return nil
	}
	return &t.slots[e.Slot()]
}
