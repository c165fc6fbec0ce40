package holder

import (
	"fmt"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// Decoder maps records to unresolved values of a compiled schema.
// Decoding is pure; a Decoder is safe for concurrent use.
type Decoder struct {
	schema *schema.Schema
}

// NewDecoder returns a decoder for s.
func NewDecoder(s *schema.Schema) *Decoder {
	return &Decoder{schema: s}
}

// Decode decodes rec as an instance of e using the types of s.
func Decode(s *schema.Schema, e *schema.Entity, rec *record.Record) (*Holder, error) {
	return NewDecoder(s).Entity(e, rec)
}

// Entity decodes rec as an instance of e.
//
// A keyed record must be tagged with e's name and wraps the sequence payload.
// A sequence record must carry exactly AttrLen parameters, decoded in declared
// field order.
func (d *Decoder) Entity(e *schema.Entity, rec *record.Record) (*Holder, error) {
	if rec.IsEmpty() {
		return nil, steperrors.EmptyRecord(e.Name())
	}
	if rec.Form == record.FormKeyed {
		if rec.Tag != e.Name() {
			return nil, steperrors.UnexpectedTag(e.Name(), rec.Tag)
		}
		rec = rec.Payload()
	}
	if len(rec.Params) != e.AttrLen() {
		return nil, steperrors.ArityMismatch(e.Name(), e.AttrLen(), len(rec.Params))
	}

	fields := e.Fields()
	values := make([]Value, len(fields))
	for i, f := range fields {
		v, err := d.value(f.Class, rec.Params[i])
		if err != nil {
			return nil, steperrors.AtField(err, f.Name)
		}
		values[i] = v
	}
	return &Holder{Type: e, Fields: values}, nil
}

// Select decodes a keyed record as a value of sel.
//
// The tag is matched case-sensitively against the variants in declared order
// and the first exact match wins. When no variant matches, select variants are
// searched in declared order for one that accepts the tag, so a record tagged
// with a member of a nested select is accepted without the outer wrapper.
func (d *Decoder) Select(sel *schema.Select, rec *record.Record) (*Variant, error) {
	if rec.IsEmpty() {
		return nil, steperrors.EmptyRecord(sel.Name())
	}
	if rec.Form != record.FormKeyed {
		return nil, steperrors.TypeMismatch("tagged "+sel.Name(), "untagged record")
	}
	if v, ok, err := d.exactVariant(sel, rec); ok {
		return v, err
	}
	if v, ok, err := d.nestedVariant(sel, rec); ok {
		return v, err
	}
	return nil, steperrors.UnknownVariant(sel.Name(), rec.Tag, sel.Tags())
}

func (d *Decoder) exactVariant(sel *schema.Select, rec *record.Record) (*Variant, bool, error) {
	for i, v := range sel.Variants() {
		if v.Tag != rec.Tag {
			continue
		}
		payload, err := d.variantPayload(v, rec)
		if err != nil {
			return nil, true, err
		}
		return &Variant{Index: i, Tag: v.Tag, Value: payload}, true, nil
	}
	return nil, false, nil
}

func (d *Decoder) nestedVariant(sel *schema.Select, rec *record.Record) (*Variant, bool, error) {
	for i, v := range sel.Variants() {
		if v.Category != fieldclass.CategorySelect || !accepts(v.Select, rec.Tag) {
			continue
		}
		inner, err := d.Select(v.Select, rec)
		if err != nil {
			return nil, true, err
		}
		return &Variant{Index: i, Tag: v.Tag, Value: inner}, true, nil
	}
	return nil, false, nil
}

// accepts reports whether tag names a variant of sel or of a select nested in it.
func accepts(sel *schema.Select, tag string) bool {
	for _, v := range sel.Variants() {
		if v.Tag == tag {
			return true
		}
		if v.Category == fieldclass.CategorySelect && accepts(v.Select, tag) {
			return true
		}
	}
	return false
}

func (d *Decoder) variantPayload(v schema.Variant, rec *record.Record) (Value, error) {
	switch v.Category {
	case fieldclass.CategoryEntity:
		return d.Entity(v.Entity, rec)
	case fieldclass.CategoryDefined:
		if len(rec.Params) != 1 {
			return nil, steperrors.ArityMismatch(v.Tag, 1, len(rec.Params))
		}
		return d.value(v.Defined.Class, rec.Params[0])
	case fieldclass.CategorySelect:
		if len(rec.Params) != 1 {
			return nil, steperrors.ArityMismatch(v.Tag, 1, len(rec.Params))
		}
		inner, ok := rec.Params[0].(*record.Record)
		if !ok {
			return nil, steperrors.TypeMismatch("tagged "+v.Tag, kindName(rec.Params[0]))
		}
		return d.Select(v.Select, inner)
	default:
		return nil, fmt.Errorf("variant %s: unsupported category %s", v.Tag, v.Category)
	}
}

func (d *Decoder) value(c fieldclass.Class, p record.Value) (Value, error) {
	switch c.Mode {
	case fieldclass.Plain:
		return decodeScalar(c.Scalar, p)
	case fieldclass.Defined:
		if c.Elem == nil {
			return nil, fmt.Errorf("defined type %s without underlying class", c.Target)
		}
		return d.value(*c.Elem, p)
	case fieldclass.Reference:
		return d.reference(c, p)
	case fieldclass.Nested:
		rec, ok := p.(*record.Record)
		if !ok {
			return nil, steperrors.TypeMismatch(c.String(), kindName(p))
		}
		e, err := d.entity(c.Target)
		if err != nil {
			return nil, err
		}
		return d.Entity(e, rec)
	case fieldclass.Tagged:
		rec, ok := p.(*record.Record)
		if !ok {
			return nil, steperrors.TypeMismatch(c.String(), kindName(p))
		}
		sel, err := d.selectType(c.Target)
		if err != nil {
			return nil, err
		}
		return d.Select(sel, rec)
	case fieldclass.List:
		items, ok := p.(record.List)
		if !ok {
			return nil, steperrors.TypeMismatch(c.String(), kindName(p))
		}
		out := make(List, len(items))
		for i, item := range items {
			v, err := d.value(*c.Elem, item)
			if err != nil {
				return nil, steperrors.AtField(err, fmt.Sprintf("[%d]", i))
			}
			out[i] = v
		}
		return out, nil
	case fieldclass.Optional:
		if record.IsNull(p) {
			return Absent{}, nil
		}
		return d.value(*c.Elem, p)
	default:
		return nil, fmt.Errorf("unsupported field mode %s", c.Mode)
	}
}

// reference captures an id, or decodes an instance written inline in place of
// the reference.
func (d *Decoder) reference(c fieldclass.Class, p record.Value) (Value, error) {
	switch p := p.(type) {
	case record.Ref:
		return Ref{ID: record.EntityID(p)}, nil
	case *record.Record:
		if c.Select {
			sel, err := d.selectType(c.Target)
			if err != nil {
				return nil, err
			}
			return d.Select(sel, p)
		}
		e, err := d.entity(c.Target)
		if err != nil {
			return nil, err
		}
		return d.Entity(e, p)
	default:
		return nil, steperrors.TypeMismatch(c.String(), kindName(p))
	}
}

func (d *Decoder) entity(name string) (*schema.Entity, error) {
	e, ok := d.schema.Entity(name)
	if !ok {
		return nil, steperrors.Newf(steperrors.ErrUnknownType, "entity type %s is not in the schema", name)
	}
	return e, nil
}

func (d *Decoder) selectType(name string) (*schema.Select, error) {
	sel, ok := d.schema.Select(name)
	if !ok {
		return nil, steperrors.Newf(steperrors.ErrUnknownType, "select type %s is not in the schema", name)
	}
	return sel, nil
}

func decodeScalar(kind fieldclass.ScalarKind, p record.Value) (Value, error) {
	switch kind {
	case fieldclass.Real:
		switch v := p.(type) {
		case record.Real:
			return Scalar{Value: v}, nil
		case record.Integer:
			return Scalar{Value: record.Real(v)}, nil
		}
	case fieldclass.Integer:
		if v, ok := p.(record.Integer); ok {
			return Scalar{Value: v}, nil
		}
	case fieldclass.String:
		if v, ok := p.(record.String); ok {
			return Scalar{Value: v}, nil
		}
	case fieldclass.Boolean:
		if v, ok := p.(record.Enum); ok {
			if _, isBool := v.Bool(); isBool {
				return Scalar{Value: v}, nil
			}
		}
	case fieldclass.Logical:
		if v, ok := p.(record.Enum); ok && (v == "T" || v == "F" || v == "U") {
			return Scalar{Value: v}, nil
		}
	case fieldclass.Enumeration:
		if v, ok := p.(record.Enum); ok {
			return Scalar{Value: v}, nil
		}
	case fieldclass.Binary:
		if v, ok := p.(record.Binary); ok {
			return Scalar{Value: v}, nil
		}
	}
	return nil, steperrors.TypeMismatch(kind.String(), describe(p))
}

func kindName(p record.Value) string {
	return record.KindOf(p).String()
}

// describe names p's kind and, for scalars, its lexical value.
func describe(p record.Value) string {
	if s, ok := p.(record.Scalar); ok {
		return fmt.Sprintf("%s %s", s.Kind(), s.String())
	}
	return kindName(p)
}
