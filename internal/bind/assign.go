package bind

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"slices"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/pkg/owned"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// Assign stores the resolved value v into dst, which must be settable and of a
// type registered in r or built from registered types.
func (r *Registry) Assign(dst reflect.Value, v owned.Value) error {
	if !dst.CanSet() {
		return fmt.Errorf("bind: destination %s is not settable", dst.Type())
	}
	return r.assign(dst, v)
}

func (r *Registry) assign(dst reflect.Value, v owned.Value) error {
	t := dst.Type()
	if _, absent := v.(owned.Absent); absent || v == nil {
		dst.SetZero()
		return nil
	}
	if b, ok := r.byType[t]; ok {
		switch b.Category {
		case CategoryEntity:
			return r.assignEntity(dst, b, v)
		case CategorySelect:
			return r.assignSelect(dst, b, v)
		}
	}
	switch t.Kind() {
	case reflect.Pointer:
		elem := reflect.New(t.Elem())
		if err := r.assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return r.assignList(dst, v)
		}
	}
	s, ok := v.(owned.Scalar)
	if !ok {
		return mismatch(t, v)
	}
	return assignScalar(dst, s.Value)
}

func (r *Registry) assignEntity(dst reflect.Value, b *Binding, v owned.Value) error {
	e, ok := v.(*owned.Entity)
	if !ok {
		return mismatch(dst.Type(), v)
	}
	if e.Type != b.Name {
		return steperrors.UnexpectedTag(b.Name, e.Type)
	}
	if len(e.Fields) != len(b.Fields) {
		return steperrors.ArityMismatch(b.Name, len(b.Fields), len(e.Fields))
	}
	for i, f := range b.Fields {
		if err := r.assign(dst.FieldByIndex(f.Index), e.Fields[i].Value); err != nil {
			return steperrors.AtField(err, f.Name)
		}
	}
	return nil
}

func (r *Registry) assignSelect(dst reflect.Value, b *Binding, v owned.Value) error {
	variant, ok := v.(*owned.Variant)
	if !ok {
		return mismatch(dst.Type(), v)
	}
	vb, ok := r.byName[variant.Tag]
	if !ok || !slices.Contains(b.Variants, vb.Type) {
		return steperrors.UnknownVariant(b.Name, variant.Tag, r.variantNames(b))
	}

	payload := reflect.New(vb.Type).Elem()
	if err := r.assign(payload, unwrap(variant, vb)); err != nil {
		return steperrors.AtField(err, variant.Tag)
	}
	if payload.Kind() == reflect.Interface {
		payload = payload.Elem()
	}
	switch {
	case payload.Type().Implements(dst.Type()):
		dst.Set(payload)
	case payload.CanAddr() && reflect.PointerTo(payload.Type()).Implements(dst.Type()):
		dst.Set(payload.Addr())
	default:
		return fmt.Errorf("bind: variant %s does not implement %s", payload.Type(), dst.Type())
	}
	return nil
}

// unwrap returns the payload of variant as seen by the variant's Go type:
// selects keep their own variant wrapper.
func unwrap(variant *owned.Variant, vb *Binding) owned.Value {
	if vb.Category == CategorySelect {
		if inner, ok := variant.Value.(*owned.Variant); ok {
			return inner
		}
	}
	return variant.Value
}

func (r *Registry) assignList(dst reflect.Value, v owned.Value) error {
	items, ok := v.(owned.List)
	if !ok {
		return mismatch(dst.Type(), v)
	}
	out := reflect.MakeSlice(dst.Type(), len(items), len(items))
	for i, item := range items {
		if err := r.assign(out.Index(i), item); err != nil {
			return steperrors.AtField(err, fmt.Sprintf("[%d]", i))
		}
	}
	dst.Set(out)
	return nil
}

func assignScalar(dst reflect.Value, s record.Scalar) error {
	t := dst.Type()
	if t == logicalType {
		if e, ok := s.(record.Enum); ok {
			dst.SetUint(uint64(LogicalOf(e)))
			return nil
		}
		return scalarMismatch(t, s)
	}
	switch v := s.(type) {
	case record.Real:
		if dst.CanFloat() {
			if dst.OverflowFloat(float64(v)) {
				return overflow(t, s)
			}
			dst.SetFloat(float64(v))
			return nil
		}
	case record.Integer:
		switch {
		case dst.CanInt():
			if dst.OverflowInt(int64(v)) {
				return overflow(t, s)
			}
			dst.SetInt(int64(v))
			return nil
		case dst.CanUint():
			if v < 0 || dst.OverflowUint(uint64(v)) {
				return overflow(t, s)
			}
			dst.SetUint(uint64(v))
			return nil
		case dst.CanFloat():
			if dst.OverflowFloat(float64(v)) {
				return overflow(t, s)
			}
			dst.SetFloat(float64(v))
			return nil
		}
	case record.String:
		if t.Kind() == reflect.String {
			dst.SetString(string(v))
			return nil
		}
	case record.Enum:
		switch t.Kind() {
		case reflect.Bool:
			if b, ok := v.Bool(); ok {
				dst.SetBool(b)
				return nil
			}
		case reflect.String:
			dst.SetString(string(v))
			return nil
		}
	case record.Binary:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			raw := string(v)
			if len(raw)%2 == 1 {
				raw = "0" + raw
			}
			b, err := hex.DecodeString(raw)
			if err != nil {
				return steperrors.TypeMismatch("binary", fmt.Sprintf("%q", string(v)))
			}
			dst.SetBytes(b)
			return nil
		}
	}
	return scalarMismatch(t, s)
}

func mismatch(t reflect.Type, v owned.Value) error {
	return steperrors.TypeMismatch(t.String(), fmt.Sprintf("%T", v))
}

func scalarMismatch(t reflect.Type, s record.Scalar) *steperrors.Error {
	return steperrors.TypeMismatch(t.String(), fmt.Sprintf("%s %s", s.Kind(), s))
}

// overflow reports a numeric parameter outside the range of t.
func overflow(t reflect.Type, s record.Scalar) error {
	e := scalarMismatch(t, s)
	e.Message = fmt.Sprintf("%s %s overflows %s", s.Kind(), s, t)
	return e
}

func (r *Registry) variantNames(b *Binding) []string {
	names := make([]string, 0, len(b.Variants))
	for _, v := range b.Variants {
		if vb, ok := r.byType[v]; ok {
			names = append(names, vb.Name)
		}
	}
	return names
}
