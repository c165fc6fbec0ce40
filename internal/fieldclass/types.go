package fieldclass

import (
	"fmt"
	"strings"
)

// ScalarKind names a simple EXPRESS type.
type ScalarKind uint8

const (
	Real ScalarKind = iota + 1
	Integer
	String
	Boolean
	Logical
	Enumeration
	Binary
)

var scalarNames = map[ScalarKind]string{
	Real:        "real",
	Integer:     "integer",
	String:      "string",
	Boolean:     "boolean",
	Logical:     "logical",
	Enumeration: "enum",
	Binary:      "binary",
}

// String returns the lexical name used in type expressions.
func (k ScalarKind) String() string {
	if name, ok := scalarNames[k]; ok {
		return name
	}
	return fmt.Sprintf("scalar(%d)", uint8(k))
}

// ParseScalarKind maps a lexical scalar name to its kind.
func ParseScalarKind(name string) (ScalarKind, bool) {
	for kind, n := range scalarNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// TypeKind is the outer shape of a type expression.
type TypeKind uint8

const (
	KindScalar TypeKind = iota + 1
	KindNamed
	KindList
	KindOptional
)

// Type is a declared field type: a scalar, a named type, or an aggregate of a type.
type Type struct {
	Elem   *Type
	Name   string
	Kind   TypeKind
	Scalar ScalarKind
}

// ScalarType returns the type expression for a simple type.
func ScalarType(kind ScalarKind) Type {
	return Type{Kind: KindScalar, Scalar: kind}
}

// NamedType returns the type expression naming an entity, defined, or select type.
func NamedType(name string) Type {
	return Type{Kind: KindNamed, Name: name}
}

// ListOf returns a list aggregate of elem.
func ListOf(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

// OptionalOf returns an optional slot of elem.
func OptionalOf(elem Type) Type {
	return Type{Kind: KindOptional, Elem: &elem}
}

// Innermost returns the scalar or named type under all aggregates.
func (t Type) Innermost() Type {
	for (t.Kind == KindList || t.Kind == KindOptional) && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

// String renders the type expression in the form ParseType accepts.
func (t Type) String() string {
	switch t.Kind {
	case KindScalar:
		return t.Scalar.String()
	case KindNamed:
		return t.Name
	case KindList:
		return "list<" + elemString(t.Elem) + ">"
	case KindOptional:
		return "optional<" + elemString(t.Elem) + ">"
	default:
		return "<invalid>"
	}
}

func elemString(t *Type) string {
	if t == nil {
		return "<invalid>"
	}
	return t.String()
}

// ParseType parses a type expression: a scalar name (real, integer, string,
// boolean, logical, enum, binary), a declared type name, list<T>, or optional<T>.
func ParseType(expr string) (Type, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Type{}, fmt.Errorf("parse type: empty expression")
	}
	for _, agg := range []struct {
		prefix string
		wrap   func(Type) Type
	}{
		{prefix: "list<", wrap: ListOf},
		{prefix: "optional<", wrap: OptionalOf},
	} {
		if !strings.HasPrefix(s, agg.prefix) {
			continue
		}
		if !strings.HasSuffix(s, ">") {
			return Type{}, fmt.Errorf("parse type %q: missing closing '>'", expr)
		}
		elem, err := ParseType(s[len(agg.prefix) : len(s)-1])
		if err != nil {
			return Type{}, fmt.Errorf("parse type %q: %w", expr, err)
		}
		return agg.wrap(elem), nil
	}
	if strings.ContainsAny(s, "<> \t") {
		return Type{}, fmt.Errorf("parse type %q: invalid type name", expr)
	}
	if kind, ok := ParseScalarKind(s); ok {
		return ScalarType(kind), nil
	}
	return NamedType(s), nil
}
