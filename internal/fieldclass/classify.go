package fieldclass

import "fmt"

// Category is what a declared type name denotes.
type Category uint8

const (
	CategoryEntity Category = iota + 1
	CategoryDefined
	CategorySelect
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryEntity:
		return "entity"
	case CategoryDefined:
		return "defined"
	case CategorySelect:
		return "select"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Lookup answers what declared type names denote.
type Lookup interface {
	Category(name string) (Category, bool)
	// Underlying returns the declared type of a defined type.
	Underlying(name string) (Type, bool)
}

// Mode is how a field slot is decoded and resolved.
type Mode uint8

const (
	// Plain scalars pass through decode and resolve unchanged.
	Plain Mode = iota + 1
	// Defined values decode and resolve as their underlying type. The type name
	// survives only as the tag of a select variant.
	Defined
	// Reference slots hold an id resolved lazily through the entity table.
	Reference
	// Nested slots hold an inline entity decoded from a nested record.
	Nested
	// Tagged slots hold an inline select value chosen by its record tag.
	Tagged
	// List slots hold an ordered aggregate of Elem.
	List
	// Optional slots hold Elem or nothing.
	Optional
)

var modeNames = map[Mode]string{
	Plain:     "plain",
	Defined:   "defined",
	Reference: "reference",
	Nested:    "nested",
	Tagged:    "tagged",
	List:      "list",
	Optional:  "optional",
}

// String returns the mode name.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Class is the classification of one declared field type.
type Class struct {
	Elem   *Class
	Target string
	Mode   Mode
	Scalar ScalarKind
	// Select marks a Reference whose target is a select type, resolved by
	// table membership.
	Select bool
}

// maxDefinedDepth bounds chains of defined types naming defined types.
const maxDefinedDepth = 32

// Classify classifies a field type. ref marks the innermost named type as a
// cross-reference.
func Classify(t Type, ref bool, lookup Lookup) (Class, error) {
	return classify(t, ref, lookup, 0)
}

func classify(t Type, ref bool, lookup Lookup, depth int) (Class, error) {
	switch t.Kind {
	case KindScalar:
		if ref {
			return Class{}, fmt.Errorf("scalar type %s cannot be a reference", t.Scalar)
		}
		return Class{Mode: Plain, Scalar: t.Scalar}, nil
	case KindList, KindOptional:
		if t.Elem == nil {
			return Class{}, fmt.Errorf("aggregate type without element type")
		}
		elem, err := classify(*t.Elem, ref, lookup, depth)
		if err != nil {
			return Class{}, err
		}
		mode := List
		if t.Kind == KindOptional {
			mode = Optional
		}
		return Class{Mode: mode, Elem: &elem}, nil
	case KindNamed:
		return classifyNamed(t.Name, ref, lookup, depth)
	default:
		return Class{}, fmt.Errorf("invalid type kind %d", t.Kind)
	}
}

func classifyNamed(name string, ref bool, lookup Lookup, depth int) (Class, error) {
	if lookup == nil {
		return Class{}, fmt.Errorf("type %s: no lookup", name)
	}
	category, ok := lookup.Category(name)
	if !ok {
		return Class{}, fmt.Errorf("unknown type %s", name)
	}
	switch category {
	case CategoryEntity:
		if ref {
			return Class{Mode: Reference, Target: name}, nil
		}
		return Class{Mode: Nested, Target: name}, nil
	case CategorySelect:
		if ref {
			return Class{Mode: Reference, Target: name, Select: true}, nil
		}
		return Class{Mode: Tagged, Target: name}, nil
	case CategoryDefined:
		if ref {
			return Class{}, fmt.Errorf("defined type %s cannot be a reference", name)
		}
		if depth >= maxDefinedDepth {
			return Class{}, fmt.Errorf("defined type %s: chain deeper than %d", name, maxDefinedDepth)
		}
		underlying, ok := lookup.Underlying(name)
		if !ok {
			return Class{}, fmt.Errorf("defined type %s has no underlying type", name)
		}
		elem, err := classify(underlying, false, lookup, depth+1)
		if err != nil {
			return Class{}, fmt.Errorf("defined type %s: %w", name, err)
		}
		return Class{Mode: Defined, Target: name, Elem: &elem}, nil
	default:
		return Class{}, fmt.Errorf("type %s: unsupported category %s", name, category)
	}
}

// String renders the classification, e.g. list<reference POINT>.
func (c Class) String() string {
	switch c.Mode {
	case Plain:
		return c.Scalar.String()
	case Defined:
		return "defined " + c.Target
	case Reference, Nested, Tagged:
		return c.Mode.String() + " " + c.Target
	case List, Optional:
		if c.Elem == nil {
			return c.Mode.String() + "<invalid>"
		}
		return c.Mode.String() + "<" + c.Elem.String() + ">"
	default:
		return "<invalid>"
	}
}

// HasReference reports whether values of the slot can hold references, either
// directly or inside instances written inline.
func (c Class) HasReference() bool {
	switch c.Mode {
	case Reference, Nested, Tagged:
		return true
	case List, Optional, Defined:
		return c.Elem != nil && c.Elem.HasReference()
	default:
		return false
	}
}
