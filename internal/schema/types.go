package schema

import (
	"github.com/jacoelho/stepgraph/internal/fieldclass"
)

// Definition is the uncompiled description of a schema.
type Definition struct {
	Entities []EntityDef
	Defined  []DefinedDef
	Selects  []SelectDef
}

// EntityDef declares an entity type and its fields in order.
type EntityDef struct {
	Name   string
	Fields []FieldDef
}

// FieldDef declares one entity field. Ref marks the innermost named type as a
// cross-reference resolved through the entity table.
type FieldDef struct {
	Name string
	Type fieldclass.Type
	Ref  bool
}

// DefinedDef declares a named type over an underlying type.
type DefinedDef struct {
	Name string
	Type fieldclass.Type
}

// SelectDef declares a tagged union. Variant order is significant: it decides
// both tag matching and table membership.
type SelectDef struct {
	Name     string
	Variants []string
}

// Entity is a compiled entity type.
type Entity struct {
	name   string
	fields []Field
	slot   int
}

// Field is a compiled entity field.
type Field struct {
	Name  string
	Type  fieldclass.Type
	Class fieldclass.Class
}

// Name returns the type tag.
func (e *Entity) Name() string { return e.name }

// AttrLen returns the number of declared fields.
func (e *Entity) AttrLen() int { return len(e.fields) }

// Fields returns the fields in declared order.
func (e *Entity) Fields() []Field { return e.fields }

// Slot returns the index of the entity's table slot.
func (e *Entity) Slot() int { return e.slot }

// Defined is a compiled defined type.
type Defined struct {
	name  string
	Type  fieldclass.Type
	Class fieldclass.Class
}

// Name returns the type tag.
func (d *Defined) Name() string { return d.name }

// Select is a compiled tagged union.
type Select struct {
	name     string
	variants []Variant
}

// Name returns the type tag.
func (s *Select) Name() string { return s.name }

// Variants returns the variants in declared order.
func (s *Select) Variants() []Variant { return s.variants }

// Tags returns the variant tags in declared order.
func (s *Select) Tags() []string {
	tags := make([]string, len(s.variants))
	for i, v := range s.variants {
		tags[i] = v.Tag
	}
	return tags
}

// Variant is one alternative of a select. Exactly one of Entity, Defined and
// Select is set, according to Category.
type Variant struct {
	Entity   *Entity
	Defined  *Defined
	Select   *Select
	Tag      string
	Category fieldclass.Category
}
