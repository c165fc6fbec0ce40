package resolve

import (
	"iter"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/internal/xiter"
	"github.com/jacoelho/stepgraph/pkg/owned"
)

// OwnedIter yields one resolution outcome per stored instance of typeName, in
// insertion order. A failing instance yields its error and iteration continues.
//
// For a select, the tables of its entity variants are visited in declared
// order, nested selects depth-first, and every value is wrapped in the variants
// leading to it. An id stored in several variant tables is yielded once per
// table.
func (r *Resolver) OwnedIter(typeName string) iter.Seq2[owned.Value, error] {
	if e, ok := r.schema.Entity(typeName); ok {
		return r.entityIter(e)
	}
	if sel, ok := r.schema.Select(typeName); ok {
		return r.selectIter(sel)
	}
	return func(yield func(owned.Value, error) bool) {
		yield(nil, steperrors.UnknownType(typeName))
	}
}

func (r *Resolver) entityIter(e *schema.Entity) iter.Seq2[owned.Value, error] {
	return func(yield func(owned.Value, error) bool) {
		for id, h := range r.table.All(e.Name()) {
			v, err := r.resolveStored(e, id, h)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

func (r *Resolver) selectIter(sel *schema.Select) iter.Seq2[owned.Value, error] {
	var seqs []iter.Seq2[owned.Value, error]
	for _, v := range sel.Variants() {
		var inner iter.Seq2[owned.Value, error]
		switch v.Category {
		case fieldclass.CategoryEntity:
			inner = r.entityIter(v.Entity)
		case fieldclass.CategorySelect:
			inner = r.selectIter(v.Select)
		default:
			continue
		}
		tag := v.Tag
		seqs = append(seqs, xiter.Map2(inner, func(val owned.Value, err error) (owned.Value, error) {
			if err != nil {
				return nil, err
			}
			return &owned.Variant{Tag: tag, Value: val}, nil
		}))
	}
	return xiter.Concat2(seqs...)
}
