// Package stepgraph decodes entity records into a cross-referenced graph and
// resolves references on demand into self-contained owned values.
//
// Records are the tagged parameter lists of ISO 10303-21 exchange files. A
// Schema describes the entity, defined, and select types the records use. It
// is either loaded from a YAML document or derived from Go types with a
// Builder. A Table holds decoded records by type and id and resolves them.
package stepgraph

import (
	"fmt"
	"io"

	"github.com/jacoelho/stepgraph/internal/bind"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/internal/schemayaml"
)

// Schema is a compiled, read-only schema. It is safe for concurrent use.
type Schema struct {
	compiled *schema.Schema
	registry *bind.Registry
	def      schema.Definition
}

func newSchema(def schema.Definition, registry *bind.Registry) (*Schema, error) {
	compiled, err := schema.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled, registry: registry, def: def}, nil
}

// EntityTypes returns the entity type names in declaration order.
func (s *Schema) EntityTypes() []string {
	out := make([]string, 0, len(s.def.Entities))
	for _, e := range s.compiled.Entities() {
		out = append(out, e.Name())
	}
	return out
}

// SelectTypes returns the select type names in declaration order.
func (s *Schema) SelectTypes() []string {
	out := make([]string, 0, len(s.def.Selects))
	for _, sel := range s.compiled.Selects() {
		out = append(out, sel.Name())
	}
	return out
}

// HasType reports whether name is an entity or select type, the types a
// table can be queried by.
func (s *Schema) HasType(name string) bool {
	if _, ok := s.compiled.Entity(name); ok {
		return true
	}
	_, ok := s.compiled.Select(name)
	return ok
}

// WriteYAML writes the schema as a YAML document that LoadSchema accepts.
func (s *Schema) WriteYAML(w io.Writer) error {
	return schemayaml.Encode(w, s.def)
}

// String summarizes the schema.
func (s *Schema) String() string {
	return s.compiled.String()
}
