package stepgraph

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/jacoelho/stepgraph/internal/bind"
	"github.com/jacoelho/stepgraph/pkg/owned"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// Get resolves the instance stored under id and binds it to T. T must be an
// entity struct or select interface registered with the Builder that produced
// the table's schema.
func Get[T any](t *Table, id record.EntityID) (T, error) {
	var out T
	b, err := binding[T](t)
	if err != nil {
		return out, err
	}
	v, err := t.GetOwned(b.Name, id)
	if err != nil {
		return out, err
	}
	if err := assign(t, &out, v); err != nil {
		return out, fmt.Errorf("bind %s #%d: %w", b.Name, id, err)
	}
	return out, nil
}

// All yields every stored instance of T bound to a Go value, in insertion
// order. A failing instance yields its error and iteration continues.
func All[T any](t *Table) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		b, err := binding[T](t)
		if err != nil {
			yield(zero, err)
			return
		}
		for v, err := range t.OwnedIter(b.Name) {
			if err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}
			var out T
			if err := assign(t, &out, v); err != nil {
				err = fmt.Errorf("bind %s: %w", b.Name, err)
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

func binding[T any](t *Table) (*bind.Binding, error) {
	registry := t.schema.registry
	if registry == nil {
		return nil, fmt.Errorf("schema has no Go type bindings")
	}
	typ := reflect.TypeFor[T]()
	b, ok := registry.Lookup(typ)
	if !ok || (b.Category != bind.CategoryEntity && b.Category != bind.CategorySelect) {
		return nil, fmt.Errorf("type %s is not a registered entity or select", typ)
	}
	return b, nil
}

func assign[T any](t *Table, dst *T, v owned.Value) error {
	return t.schema.registry.Assign(reflect.ValueOf(dst).Elem(), v)
}
