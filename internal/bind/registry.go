// Package bind derives schema definitions from Go types and assigns resolved
// values into them.
//
// Structs bind to entity types, interfaces to selects, named scalar types to
// defined types or enumerations. Field types map as follows: floats to REAL,
// integers to INTEGER, string to STRING, bool to BOOLEAN, Logical to LOGICAL,
// []byte to BINARY, other slices to LIST, pointers to OPTIONAL. A struct field
// tagged `step:"name,ref"` is a cross-reference; `step:"-"` skips the field.
package bind

import (
	"fmt"
	"reflect"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/schema"
)

// Category of a bound Go type.
type Category uint8

const (
	CategoryEntity Category = iota
	CategorySelect
	CategoryDefined
	CategoryEnum
)

var logicalType = reflect.TypeFor[Logical]()

// Binding is one registered Go type.
type Binding struct {
	Type     reflect.Type
	Name     string
	Fields   []FieldBinding
	Variants []reflect.Type
	Category Category
}

// FieldBinding maps one struct field to an entity attribute.
type FieldBinding struct {
	Type  reflect.Type
	Name  string
	Index []int
	Ref   bool
}

// Registry collects bindings in registration order. Registration errors are
// deferred to Definition so that registrations can be chained.
type Registry struct {
	byType   map[reflect.Type]*Binding
	byName   map[string]*Binding
	bindings []*Binding
	errs     []error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*Binding),
		byName: make(map[string]*Binding),
	}
}

func (r *Registry) failf(format string, args ...any) {
	r.errs = append(r.errs, steperrors.Newf(steperrors.ErrInvalidSchema, format, args...))
}

func (r *Registry) add(b *Binding) {
	if b.Name == "" {
		r.failf("type %s has no name", b.Type)
		return
	}
	if prev, ok := r.byType[b.Type]; ok {
		r.failf("type %s is already registered as %s", b.Type, prev.Name)
		return
	}
	if prev, ok := r.byName[b.Name]; ok {
		r.failf("name %s of %s is already used by %s", b.Name, b.Type, prev.Type)
		return
	}
	r.byType[b.Type] = b
	r.byName[b.Name] = b
	r.bindings = append(r.bindings, b)
}

// AddEntity registers struct type t as an entity type.
func (r *Registry) AddEntity(t reflect.Type, name string) {
	if t.Kind() != reflect.Struct {
		r.failf("entity %s must be a struct type, got %s", t, t.Kind())
		return
	}
	b := &Binding{Type: t, Name: nameOr(name, t), Category: CategoryEntity}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		tag := parseFieldTag(f)
		if tag.skip {
			continue
		}
		b.Fields = append(b.Fields, FieldBinding{Type: f.Type, Name: tag.name, Index: f.Index, Ref: tag.ref})
	}
	r.add(b)
}

// AddSelect registers interface type t as a select over variants.
func (r *Registry) AddSelect(t reflect.Type, name string, variants []reflect.Type) {
	if t.Kind() != reflect.Interface {
		r.failf("select %s must be an interface type, got %s", t, t.Kind())
		return
	}
	for _, v := range variants {
		if !v.Implements(t) && !reflect.PointerTo(v).Implements(t) {
			r.failf("variant %s does not implement select %s", v, t)
			return
		}
	}
	r.add(&Binding{Type: t, Name: nameOr(name, t), Variants: variants, Category: CategorySelect})
}

// AddDefined registers named scalar type t as a defined type.
func (r *Registry) AddDefined(t reflect.Type, name string) {
	if _, ok := scalarOf(t); !ok {
		r.failf("defined type %s must have a scalar underlying type, got %s", t, t.Kind())
		return
	}
	r.add(&Binding{Type: t, Name: nameOr(name, t), Category: CategoryDefined})
}

// AddEnum registers named string type t as an enumeration.
func (r *Registry) AddEnum(t reflect.Type) {
	if t.Kind() != reflect.String || t.Name() == "" {
		r.failf("enumeration %s must be a named string type", t)
		return
	}
	r.add(&Binding{Type: t, Name: TypeName(t), Category: CategoryEnum})
}

// Lookup returns the binding of t.
func (r *Registry) Lookup(t reflect.Type) (*Binding, bool) {
	b, ok := r.byType[t]
	return b, ok
}

// Definition converts the registered types into a schema definition.
func (r *Registry) Definition() (schema.Definition, error) {
	errs := append([]error(nil), r.errs...)
	var def schema.Definition
	for _, b := range r.bindings {
		switch b.Category {
		case CategoryEntity:
			e := schema.EntityDef{Name: b.Name}
			for _, f := range b.Fields {
				ft, err := r.typeOf(f.Type)
				if err != nil {
					errs = append(errs, fmt.Errorf("entity %s: %w", b.Name, steperrors.AtField(err, f.Name)))
					continue
				}
				e.Fields = append(e.Fields, schema.FieldDef{Name: f.Name, Type: ft, Ref: f.Ref})
			}
			def.Entities = append(def.Entities, e)
		case CategorySelect:
			s := schema.SelectDef{Name: b.Name}
			for _, v := range b.Variants {
				vb, ok := r.byType[v]
				if !ok || vb.Category == CategoryEnum {
					errs = append(errs, steperrors.Newf(steperrors.ErrInvalidSchema,
						"variant %s of %s is not a registered entity, select, or defined type", v, b.Name))
					continue
				}
				s.Variants = append(s.Variants, vb.Name)
			}
			def.Selects = append(def.Selects, s)
		case CategoryDefined:
			kind, _ := scalarOf(b.Type)
			def.Defined = append(def.Defined, schema.DefinedDef{Name: b.Name, Type: fieldclass.ScalarType(kind)})
		}
	}
	if len(errs) > 0 {
		return schema.Definition{}, steperrors.List(errs)
	}
	return def, nil
}

// typeOf maps a Go field type to a type expression.
func (r *Registry) typeOf(t reflect.Type) (fieldclass.Type, error) {
	if b, ok := r.byType[t]; ok {
		if b.Category == CategoryEnum {
			return fieldclass.ScalarType(fieldclass.Enumeration), nil
		}
		return fieldclass.NamedType(b.Name), nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		elem, err := r.typeOf(t.Elem())
		if err != nil {
			return fieldclass.Type{}, err
		}
		return fieldclass.OptionalOf(elem), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return fieldclass.ScalarType(fieldclass.Binary), nil
		}
		elem, err := r.typeOf(t.Elem())
		if err != nil {
			return fieldclass.Type{}, err
		}
		return fieldclass.ListOf(elem), nil
	case reflect.Struct, reflect.Interface:
		return fieldclass.Type{}, steperrors.Newf(steperrors.ErrInvalidSchema, "%s is not a registered type", t)
	}
	if kind, ok := scalarOf(t); ok {
		return fieldclass.ScalarType(kind), nil
	}
	return fieldclass.Type{}, steperrors.Newf(steperrors.ErrInvalidSchema, "unsupported field type %s", t)
}

func scalarOf(t reflect.Type) (fieldclass.ScalarKind, bool) {
	if t == logicalType {
		return fieldclass.Logical, true
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return fieldclass.Real, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fieldclass.Integer, true
	case reflect.String:
		return fieldclass.String, true
	case reflect.Bool:
		return fieldclass.Boolean, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return fieldclass.Binary, true
		}
	}
	return 0, false
}

func nameOr(name string, t reflect.Type) string {
	if name != "" {
		return name
	}
	return TypeName(t)
}

// String summarizes the registry.
func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d types)", len(r.bindings))
}
