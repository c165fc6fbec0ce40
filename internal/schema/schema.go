package schema

import (
	"fmt"
	"slices"
	"strings"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/graphcycle"
)

// Schema is a compiled, read-only set of entity, defined, and select types.
// It is safe for concurrent use.
type Schema struct {
	entityByName  map[string]*Entity
	definedByName map[string]*Defined
	selectByName  map[string]*Select
	entities      []*Entity
	defined       []*Defined
	selects       []*Select
}

// Compile validates def and links every type name it mentions.
// All problems found are returned together as an errors.List.
func Compile(def Definition) (*Schema, error) {
	c := compiler{
		s: &Schema{
			entityByName:  make(map[string]*Entity, len(def.Entities)),
			definedByName: make(map[string]*Defined, len(def.Defined)),
			selectByName:  make(map[string]*Select, len(def.Selects)),
		},
		seen: make(map[string]fieldclass.Category),
	}
	c.declare(def)
	c.linkSelects(def.Selects)
	c.checkCycles()
	if len(c.errs) == 0 {
		c.classify(def)
	}
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return c.s, nil
}

type compiler struct {
	s    *Schema
	seen map[string]fieldclass.Category
	errs steperrors.List
}

func (c *compiler) fail(format string, args ...any) {
	c.errs = append(c.errs, steperrors.Newf(steperrors.ErrInvalidSchema, format, args...))
}

func (c *compiler) declareName(name string, category fieldclass.Category) bool {
	if name == "" {
		c.fail("%s type with empty name", category)
		return false
	}
	if prev, ok := c.seen[name]; ok {
		c.fail("type %s declared twice (%s and %s)", name, prev, category)
		return false
	}
	if _, ok := fieldclass.ParseScalarKind(name); ok {
		c.fail("type %s shadows a simple type", name)
		return false
	}
	c.seen[name] = category
	return true
}

func (c *compiler) declare(def Definition) {
	for _, ed := range def.Entities {
		if !c.declareName(ed.Name, fieldclass.CategoryEntity) {
			continue
		}
		e := &Entity{name: ed.Name, slot: len(c.s.entities)}
		c.s.entities = append(c.s.entities, e)
		c.s.entityByName[ed.Name] = e
	}
	for _, dd := range def.Defined {
		if !c.declareName(dd.Name, fieldclass.CategoryDefined) {
			continue
		}
		d := &Defined{name: dd.Name, Type: dd.Type}
		c.s.defined = append(c.s.defined, d)
		c.s.definedByName[dd.Name] = d
	}
	for _, sd := range def.Selects {
		if !c.declareName(sd.Name, fieldclass.CategorySelect) {
			continue
		}
		sel := &Select{name: sd.Name}
		c.s.selects = append(c.s.selects, sel)
		c.s.selectByName[sd.Name] = sel
	}
}

func (c *compiler) linkSelects(defs []SelectDef) {
	for _, sd := range defs {
		sel, ok := c.s.selectByName[sd.Name]
		if !ok || len(sel.variants) > 0 {
			continue
		}
		if len(sd.Variants) == 0 {
			c.fail("select %s has no variants", sd.Name)
			continue
		}
		for _, tag := range sd.Variants {
			if slices.ContainsFunc(sel.variants, func(v Variant) bool { return v.Tag == tag }) {
				c.fail("select %s lists variant %s twice", sd.Name, tag)
				continue
			}
			v := Variant{Tag: tag}
			switch {
			case c.s.entityByName[tag] != nil:
				v.Category, v.Entity = fieldclass.CategoryEntity, c.s.entityByName[tag]
			case c.s.definedByName[tag] != nil:
				v.Category, v.Defined = fieldclass.CategoryDefined, c.s.definedByName[tag]
			case c.s.selectByName[tag] != nil:
				v.Category, v.Select = fieldclass.CategorySelect, c.s.selectByName[tag]
			default:
				c.fail("select %s: unknown variant type %s", sd.Name, tag)
				continue
			}
			sel.variants = append(sel.variants, v)
		}
	}
}

// checkCycles rejects defined types that name themselves and selects that
// contain themselves, both of which would recurse without bound.
func (c *compiler) checkCycles() {
	starts := make([]string, 0, len(c.s.defined)+len(c.s.selects))
	for _, d := range c.s.defined {
		starts = append(starts, d.name)
	}
	for _, sel := range c.s.selects {
		starts = append(starts, sel.name)
	}
	err := graphcycle.Detect(graphcycle.Config[string]{
		Starts: starts,
		Next: func(name string) ([]string, error) {
			if d, ok := c.s.definedByName[name]; ok {
				inner := d.Type.Innermost()
				if inner.Kind == fieldclass.KindNamed && c.s.definedByName[inner.Name] != nil {
					return []string{inner.Name}, nil
				}
				return nil, nil
			}
			if sel, ok := c.s.selectByName[name]; ok {
				var next []string
				for _, v := range sel.variants {
					if v.Category == fieldclass.CategorySelect {
						next = append(next, v.Tag)
					}
				}
				return next, nil
			}
			return nil, nil
		},
	})
	if err != nil {
		c.fail("recursive type definition: %v", err)
	}
}

func (c *compiler) classify(def Definition) {
	for _, d := range c.s.defined {
		class, err := fieldclass.Classify(d.Type, false, c.s)
		if err != nil {
			c.fail("defined type %s: %v", d.name, err)
			continue
		}
		d.Class = class
	}
	for _, ed := range def.Entities {
		e := c.s.entityByName[ed.Name]
		if e == nil || e.fields != nil {
			continue
		}
		fields := make([]Field, 0, len(ed.Fields))
		names := make(map[string]struct{}, len(ed.Fields))
		for i, fd := range ed.Fields {
			if fd.Name == "" {
				c.fail("entity %s: field %d has no name", ed.Name, i)
				continue
			}
			if strings.HasPrefix(fd.Name, "_") {
				c.fail("entity %s: field %s must start with a letter", ed.Name, fd.Name)
				continue
			}
			if _, dup := names[fd.Name]; dup {
				c.fail("entity %s: field %s declared twice", ed.Name, fd.Name)
				continue
			}
			names[fd.Name] = struct{}{}
			class, err := fieldclass.Classify(fd.Type, fd.Ref, c.s)
			if err != nil {
				c.fail("entity %s field %s: %v", ed.Name, fd.Name, err)
				continue
			}
			fields = append(fields, Field{Name: fd.Name, Type: fd.Type, Class: class})
		}
		e.fields = fields
	}
}

// Category reports what name denotes.
func (s *Schema) Category(name string) (fieldclass.Category, bool) {
	switch {
	case s.entityByName[name] != nil:
		return fieldclass.CategoryEntity, true
	case s.definedByName[name] != nil:
		return fieldclass.CategoryDefined, true
	case s.selectByName[name] != nil:
		return fieldclass.CategorySelect, true
	default:
		return 0, false
	}
}

// Underlying returns the declared type of a defined type.
func (s *Schema) Underlying(name string) (fieldclass.Type, bool) {
	d, ok := s.definedByName[name]
	if !ok {
		return fieldclass.Type{}, false
	}
	return d.Type, true
}

// Entity looks up an entity type by tag.
func (s *Schema) Entity(name string) (*Entity, bool) {
	e, ok := s.entityByName[name]
	return e, ok
}

// Select looks up a select type by tag.
func (s *Schema) Select(name string) (*Select, bool) {
	sel, ok := s.selectByName[name]
	return sel, ok
}

// Entities returns the entity types in slot order.
func (s *Schema) Entities() []*Entity { return s.entities }

// DefinedTypes returns the defined types in declared order.
func (s *Schema) DefinedTypes() []*Defined { return s.defined }

// Selects returns the select types in declared order.
func (s *Schema) Selects() []*Select { return s.selects }

// String summarizes the schema.
func (s *Schema) String() string {
	return fmt.Sprintf("schema(%d entities, %d defined, %d selects)", len(s.entities), len(s.defined), len(s.selects))
}
