// Package schemayaml reads and writes schema definitions as YAML documents.
package schemayaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/schema"
)

type document struct {
	Defined  []definedDoc `yaml:"defined,omitempty"`
	Entities []entityDoc  `yaml:"entities,omitempty"`
	Selects  []selectDoc  `yaml:"selects,omitempty"`
}

type definedDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type entityDoc struct {
	Name   string     `yaml:"name"`
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Ref  bool   `yaml:"ref,omitempty"`
}

type selectDoc struct {
	Name     string   `yaml:"name"`
	Variants []string `yaml:"variants,flow"`
}

// Decode reads a schema definition. Unknown keys are rejected.
func Decode(r io.Reader) (schema.Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return schema.Definition{}, fmt.Errorf("decode schema yaml: %w", err)
	}
	return doc.definition()
}

// Parse reads a schema definition from data.
func Parse(data []byte) (schema.Definition, error) {
	return Decode(bytes.NewReader(data))
}

func (d document) definition() (schema.Definition, error) {
	var def schema.Definition
	var errs []error
	parse := func(owner, expr string) fieldclass.Type {
		t, err := fieldclass.ParseType(expr)
		if err != nil {
			errs = append(errs, steperrors.Newf(steperrors.ErrInvalidSchema, "%s: %v", owner, err))
		}
		return t
	}
	for _, dd := range d.Defined {
		def.Defined = append(def.Defined, schema.DefinedDef{Name: dd.Name, Type: parse("defined "+dd.Name, dd.Type)})
	}
	for _, ed := range d.Entities {
		e := schema.EntityDef{Name: ed.Name}
		for _, fd := range ed.Fields {
			e.Fields = append(e.Fields, schema.FieldDef{
				Name: fd.Name,
				Type: parse(fmt.Sprintf("entity %s field %s", ed.Name, fd.Name), fd.Type),
				Ref:  fd.Ref,
			})
		}
		def.Entities = append(def.Entities, e)
	}
	for _, sd := range d.Selects {
		def.Selects = append(def.Selects, schema.SelectDef{Name: sd.Name, Variants: sd.Variants})
	}
	if len(errs) > 0 {
		return schema.Definition{}, steperrors.List(errs)
	}
	return def, nil
}

// Encode writes def as a YAML document.
func Encode(w io.Writer, def schema.Definition) error {
	doc := document{}
	for _, dd := range def.Defined {
		doc.Defined = append(doc.Defined, definedDoc{Name: dd.Name, Type: dd.Type.String()})
	}
	for _, ed := range def.Entities {
		e := entityDoc{Name: ed.Name, Fields: []fieldDoc{}}
		for _, fd := range ed.Fields {
			e.Fields = append(e.Fields, fieldDoc{Name: fd.Name, Type: fd.Type.String(), Ref: fd.Ref})
		}
		doc.Entities = append(doc.Entities, e)
	}
	for _, sd := range def.Selects {
		doc.Selects = append(doc.Selects, selectDoc{Name: sd.Name, Variants: sd.Variants})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode schema yaml: %w", err)
	}
	return enc.Close()
}
