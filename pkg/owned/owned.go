// Package owned defines fully resolved values: trees with every cross-reference
// replaced by the value it names. Owned trees share no mutable state with the
// table they were resolved from or with each other.
package owned

import (
	"strings"

	"github.com/jacoelho/stepgraph/pkg/record"
)

// Kind classifies an owned value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindScalar
	KindEntity
	KindVariant
	KindList
)

// Value is one resolved value: Scalar, *Entity, *Variant, List, or Absent.
type Value interface {
	Kind() Kind
}

// Scalar is a simple value passed through from the record unchanged.
type Scalar struct {
	Value record.Scalar
}

// Entity is a resolved entity instance. Inline instances decoded from nested
// records have no id.
type Entity struct {
	Type   string
	Fields []Field
	ID     record.EntityID
	HasID  bool
}

// Field is one named entity attribute.
type Field struct {
	Value Value
	Name  string
}

// Variant is a resolved select value tagged with the variant it took.
type Variant struct {
	Value Value
	Tag   string
}

// List is a resolved aggregate.
type List []Value

// Absent is an omitted optional value.
type Absent struct{}

// Kind returns KindScalar.
func (Scalar) Kind() Kind { return KindScalar }

// Kind returns KindEntity.
func (*Entity) Kind() Kind { return KindEntity }

// Kind returns KindVariant.
func (*Variant) Kind() Kind { return KindVariant }

// Kind returns KindList.
func (List) Kind() Kind { return KindList }

// Kind returns KindAbsent.
func (Absent) Kind() Kind { return KindAbsent }

// Get returns the value of the named field.
func (e *Entity) Get(name string) (Value, bool) {
	if e == nil {
		return nil, false
	}
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Innermost returns the entity a value of an entity or select type holds,
// looking through variant wrappers, or nil when there is none.
func Innermost(v Value) *Entity {
	for {
		switch x := v.(type) {
		case *Entity:
			return x
		case *Variant:
			v = x.Value
		default:
			return nil
		}
	}
}

// Format renders v in exchange-file notation with every reference expanded.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v)
	return b.String()
}

func format(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case Scalar:
		if v.Value == nil {
			b.WriteString("$")
			return
		}
		b.WriteString(v.Value.String())
	case *Entity:
		b.WriteString(v.Type)
		b.WriteByte('(')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			format(b, f.Value)
		}
		b.WriteByte(')')
	case *Variant:
		if inner, ok := v.Value.(*Entity); ok && inner.Type == v.Tag {
			format(b, inner)
			return
		}
		b.WriteString(v.Tag)
		b.WriteByte('(')
		format(b, v.Value)
		b.WriteByte(')')
	case List:
		b.WriteByte('(')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			format(b, item)
		}
		b.WriteByte(')')
	default:
		b.WriteString("$")
	}
}
