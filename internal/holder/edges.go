package holder

import (
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// Edge is one cross-reference held by an unresolved value.
type Edge struct {
	Target string
	ID     record.EntityID
	// Select marks references resolved by table membership across the
	// variants of the Target select.
	Select bool
}

// Edges returns the references held by h in field order, including those held
// by instances written inline.
func Edges(s *schema.Schema, h *Holder) []Edge {
	w := edgeWalker{schema: s}
	w.holder(h)
	return w.edges
}

type edgeWalker struct {
	schema *schema.Schema
	edges  []Edge
}

func (w *edgeWalker) holder(h *Holder) {
	if h == nil || h.Type == nil {
		return
	}
	for i, f := range h.Type.Fields() {
		if i < len(h.Fields) && f.Class.HasReference() {
			w.value(f.Class, h.Fields[i])
		}
	}
}

func (w *edgeWalker) value(c fieldclass.Class, v Value) {
	switch c.Mode {
	case fieldclass.Reference:
		switch v := v.(type) {
		case Ref:
			w.edges = append(w.edges, Edge{Target: c.Target, ID: v.ID, Select: c.Select})
		case *Holder:
			w.holder(v)
		case *Variant:
			w.variant(c.Target, v)
		}
	case fieldclass.Nested:
		if h, ok := v.(*Holder); ok {
			w.holder(h)
		}
	case fieldclass.Tagged:
		if tv, ok := v.(*Variant); ok {
			w.variant(c.Target, tv)
		}
	case fieldclass.Defined:
		if c.Elem != nil {
			w.value(*c.Elem, v)
		}
	case fieldclass.List:
		if items, ok := v.(List); ok && c.Elem != nil {
			for _, item := range items {
				w.value(*c.Elem, item)
			}
		}
	case fieldclass.Optional:
		if _, absent := v.(Absent); !absent && c.Elem != nil {
			w.value(*c.Elem, v)
		}
	}
}

func (w *edgeWalker) variant(selectName string, v *Variant) {
	sel, ok := w.schema.Select(selectName)
	if !ok || v.Index < 0 || v.Index >= len(sel.Variants()) {
		return
	}
	variant := sel.Variants()[v.Index]
	switch variant.Category {
	case fieldclass.CategoryEntity:
		if h, ok := v.Value.(*Holder); ok {
			w.holder(h)
		}
	case fieldclass.CategoryDefined:
		w.value(variant.Defined.Class, v.Value)
	case fieldclass.CategorySelect:
		if inner, ok := v.Value.(*Variant); ok {
			w.variant(variant.Tag, inner)
		}
	}
}
