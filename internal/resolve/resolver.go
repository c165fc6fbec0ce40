// Package resolve converts unresolved instances into owned values by following
// their references through an entity table.
//
// Every call resolves from scratch: two calls for the same id produce equal but
// independent trees, and a reference shared by several fields is materialized
// once per occurrence. Each call owns its cycle guard, so a Resolver is safe for
// concurrent use.
package resolve

import (
	"fmt"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/holder"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/internal/table"
	"github.com/jacoelho/stepgraph/pkg/owned"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// DefaultMaxDepth bounds reference chains when no limit is configured.
const DefaultMaxDepth = 1024

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth bounds the number of nested references followed by one call.
// Zero disables the bound; negative values keep the default.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n >= 0 {
			r.maxDepth = n
		}
	}
}

// Resolver materializes owned values from a table.
type Resolver struct {
	table    *table.Table
	schema   *schema.Schema
	maxDepth int
}

// New returns a resolver reading from t.
func New(t *table.Table, opts ...Option) *Resolver {
	r := &Resolver{
		table:    t,
		schema:   t.Schema(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOwned resolves the instance stored under id for an entity or select type.
//
// For a select, the variants' tables are searched in declared order, nested
// selects depth-first, and the first table holding id claims it. The result is
// then wrapped in the claiming variants.
func (r *Resolver) GetOwned(typeName string, id record.EntityID) (owned.Value, error) {
	c := r.newCall()
	v, err := c.reference(typeName, id)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Resolve converts h into its owned form. h need not be stored in the table;
// the result carries no id.
func (r *Resolver) Resolve(h *holder.Holder) (*owned.Entity, error) {
	return r.newCall().holder(h)
}

func (r *Resolver) resolveStored(e *schema.Entity, id record.EntityID, h *holder.Holder) (*owned.Entity, error) {
	return r.newCall().stored(e, id, h)
}

// call is the state of one top-level resolution.
type call struct {
	*Resolver
	guard *CycleGuard[entityKey]
}

func (r *Resolver) newCall() *call {
	return &call{Resolver: r, guard: NewCycleGuard[entityKey](r.maxDepth)}
}

func (c *call) reference(typeName string, id record.EntityID) (owned.Value, error) {
	cat, ok := c.schema.Category(typeName)
	if !ok {
		return nil, steperrors.UnknownType(typeName)
	}
	switch cat {
	case fieldclass.CategoryEntity:
		e, _ := c.schema.Entity(typeName)
		return c.entity(e, id)
	case fieldclass.CategorySelect:
		sel, _ := c.schema.Select(typeName)
		return c.member(sel, id)
	default:
		return nil, steperrors.Newf(steperrors.ErrUnknownType, "%s is a %s type and has no table", typeName, cat)
	}
}

func (c *call) entity(e *schema.Entity, id record.EntityID) (*owned.Entity, error) {
	h, ok := c.table.Lookup(e, id)
	if !ok {
		return nil, steperrors.UnknownEntity(e.Name(), uint64(id))
	}
	return c.stored(e, id, h)
}

func (c *call) stored(e *schema.Entity, id record.EntityID, h *holder.Holder) (*owned.Entity, error) {
	key := entityKey{Type: e.Name(), ID: id}
	if err := c.guard.Enter(key); err != nil {
		return nil, err
	}
	defer c.guard.Leave(key)

	out, err := c.holder(h)
	if err != nil {
		return nil, steperrors.At(err, e.Name(), uint64(id))
	}
	out.ID = id
	out.HasID = true
	return out, nil
}

// member resolves id through table membership of sel's variants.
func (c *call) member(sel *schema.Select, id record.EntityID) (*owned.Variant, error) {
	e, tags, ok := c.table.Claim(sel, id)
	if !ok {
		return nil, steperrors.UnknownEntity(sel.Name(), uint64(id))
	}
	ent, err := c.entity(e, id)
	if err != nil {
		return nil, err
	}
	var v owned.Value = ent
	for i := len(tags) - 1; i >= 0; i-- {
		v = &owned.Variant{Tag: tags[i], Value: v}
	}
	return v.(*owned.Variant), nil
}

func (c *call) holder(h *holder.Holder) (*owned.Entity, error) {
	if h == nil || h.Type == nil {
		return nil, fmt.Errorf("resolve: nil holder")
	}
	fields := h.Type.Fields()
	if len(h.Fields) != len(fields) {
		return nil, steperrors.ArityMismatch(h.Name(), len(fields), len(h.Fields))
	}
	out := &owned.Entity{Type: h.Name(), Fields: make([]owned.Field, len(fields))}
	for i, f := range fields {
		v, err := c.value(f.Class, h.Fields[i])
		if err != nil {
			return nil, steperrors.AtField(err, f.Name)
		}
		out.Fields[i] = owned.Field{Name: f.Name, Value: v}
	}
	return out, nil
}

func (c *call) value(cl fieldclass.Class, v holder.Value) (owned.Value, error) {
	switch cl.Mode {
	case fieldclass.Plain:
		if s, ok := v.(holder.Scalar); ok {
			return owned.Scalar{Value: s.Value}, nil
		}
	case fieldclass.Defined:
		if cl.Elem != nil {
			return c.value(*cl.Elem, v)
		}
	case fieldclass.Reference:
		switch v := v.(type) {
		case holder.Ref:
			return c.reference(cl.Target, v.ID)
		case *holder.Holder:
			return c.holder(v)
		case *holder.Variant:
			return c.variant(cl.Target, v)
		}
	case fieldclass.Nested:
		if h, ok := v.(*holder.Holder); ok {
			return c.holder(h)
		}
	case fieldclass.Tagged:
		if tv, ok := v.(*holder.Variant); ok {
			return c.variant(cl.Target, tv)
		}
	case fieldclass.List:
		items, ok := v.(holder.List)
		if !ok || cl.Elem == nil {
			break
		}
		out := make(owned.List, len(items))
		for i, item := range items {
			iv, err := c.value(*cl.Elem, item)
			if err != nil {
				return nil, steperrors.AtField(err, fmt.Sprintf("[%d]", i))
			}
			out[i] = iv
		}
		return out, nil
	case fieldclass.Optional:
		if _, absent := v.(holder.Absent); absent {
			return owned.Absent{}, nil
		}
		if cl.Elem != nil {
			return c.value(*cl.Elem, v)
		}
	}
	return nil, fmt.Errorf("resolve: %T does not fit %s", v, cl)
}

func (c *call) variant(selectName string, v *holder.Variant) (*owned.Variant, error) {
	sel, ok := c.schema.Select(selectName)
	if !ok {
		return nil, steperrors.UnknownType(selectName)
	}
	if v.Index < 0 || v.Index >= len(sel.Variants()) {
		return nil, steperrors.UnknownVariant(sel.Name(), v.Tag, sel.Tags())
	}
	variant := sel.Variants()[v.Index]

	var payload owned.Value
	var err error
	switch variant.Category {
	case fieldclass.CategoryEntity:
		h, ok := v.Value.(*holder.Holder)
		if !ok {
			return nil, fmt.Errorf("resolve: variant %s holds %T", v.Tag, v.Value)
		}
		payload, err = c.holder(h)
	case fieldclass.CategoryDefined:
		payload, err = c.value(variant.Defined.Class, v.Value)
	case fieldclass.CategorySelect:
		inner, ok := v.Value.(*holder.Variant)
		if !ok {
			return nil, fmt.Errorf("resolve: variant %s holds %T", v.Tag, v.Value)
		}
		payload, err = c.variant(variant.Tag, inner)
	}
	if err != nil {
		return nil, steperrors.AtField(err, v.Tag)
	}
	return &owned.Variant{Tag: v.Tag, Value: payload}, nil
}
