package stepgraph

import (
	"fmt"
	"reflect"

	"github.com/jacoelho/stepgraph/internal/bind"
)

// Logical is the three-valued EXPRESS LOGICAL type.
type Logical = bind.Logical

// Logical values.
const (
	Unknown = bind.Unknown
	False   = bind.False
	True    = bind.True
)

// Builder derives a schema from Go types.
//
// Struct types register as entity types, interface types as selects, and
// named scalar types as defined types or enumerations. Type names default to
// the Go identifier in SCREAMING_SNAKE_CASE; field names default to the Go
// field name in snake_case. Fields are read in declaration order; see the
// bind rules in Entity.
type Builder struct {
	registry *bind.Registry
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{registry: bind.NewRegistry()}
}

// TypeOption configures one registered type.
type TypeOption func(*typeConfig)

type typeConfig struct {
	name string
}

// Named overrides the type name derived from the Go identifier.
func Named(name string) TypeOption {
	return func(c *typeConfig) {
		c.name = name
	}
}

func configure(opts []TypeOption) typeConfig {
	var c typeConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Entity registers struct type T as an entity type.
//
// Exported fields map to attributes in declaration order: floats to REAL,
// integers to INTEGER, string to STRING, bool to BOOLEAN, Logical to LOGICAL,
// []byte to BINARY, slices to LIST, pointers to OPTIONAL, registered structs
// to entities and registered interfaces to selects. The tag `step:"name,ref"`
// renames a field and marks it as a cross-reference; `step:"-"` skips it.
func Entity[T any](b *Builder, opts ...TypeOption) {
	b.registry.AddEntity(reflect.TypeFor[T](), configure(opts).name)
}

// VariantType is one member of a select registered with Select.
type VariantType struct {
	t reflect.Type
}

// Variant names type T as a select member. T must be registered on its own
// as an entity, defined type, or select.
func Variant[T any]() VariantType {
	return VariantType{t: reflect.TypeFor[T]()}
}

// Select registers interface type I as a select over variants, in order.
// Every variant type, or a pointer to it, must implement I.
func Select[I any](b *Builder, variants ...VariantType) {
	types := make([]reflect.Type, len(variants))
	for i, v := range variants {
		types[i] = v.t
	}
	b.registry.AddSelect(reflect.TypeFor[I](), "", types)
}

// SelectNamed is Select with an explicit type name.
func SelectNamed[I any](b *Builder, name string, variants ...VariantType) {
	types := make([]reflect.Type, len(variants))
	for i, v := range variants {
		types[i] = v.t
	}
	b.registry.AddSelect(reflect.TypeFor[I](), name, types)
}

// Defined registers named scalar type T as a defined type.
func Defined[T any](b *Builder, opts ...TypeOption) {
	b.registry.AddDefined(reflect.TypeFor[T](), configure(opts).name)
}

// Enum registers named string type T as an enumeration. Fields of type T
// hold enumeration items.
func Enum[T ~string](b *Builder) {
	b.registry.AddEnum(reflect.TypeFor[T]())
}

// Build compiles the registered types. All registration errors are reported
// together.
func (b *Builder) Build() (*Schema, error) {
	def, err := b.registry.Definition()
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return newSchema(def, b.registry)
}
