package holder

import (
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// Value is one unresolved field value: Scalar, Ref, *Holder, *Variant, List, or Absent.
type Value interface {
	unresolved()
}

// Holder is the unresolved form of one entity instance. It mirrors the owned
// entity field for field, with references kept as ids.
type Holder struct {
	Type   *schema.Entity
	Fields []Value
}

// Scalar is a simple value, passed through resolution unchanged.
type Scalar struct {
	Value record.Scalar
}

// Ref is a cross-reference awaiting resolution through the table.
type Ref struct {
	ID record.EntityID
}

// Variant is a select value whose variant was chosen by its record tag.
// Index is the position of Tag in the select's declared variants.
type Variant struct {
	Value Value
	Tag   string
	Index int
}

// List is an unresolved aggregate.
type List []Value

// Absent is an omitted optional value.
type Absent struct{}

func (*Holder) unresolved()  {}
func (Scalar) unresolved()   {}
func (Ref) unresolved()      {}
func (*Variant) unresolved() {}
func (List) unresolved()     {}
func (Absent) unresolved()   {}

// Name returns the entity type tag.
func (h *Holder) Name() string {
	if h == nil || h.Type == nil {
		return ""
	}
	return h.Type.Name()
}
