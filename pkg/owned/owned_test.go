package owned

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/stepgraph/pkg/record"
)

func point(id record.EntityID, x, y float64) *Entity {
	return &Entity{
		Type:  "POINT",
		ID:    id,
		HasID: true,
		Fields: []Field{
			{Name: "x", Value: Scalar{Value: record.Real(x)}},
			{Name: "y", Value: Scalar{Value: record.Real(y)}},
		},
	}
}

func TestFormat(t *testing.T) {
	line := &Entity{Type: "LINE", Fields: []Field{
		{Name: "a", Value: point(1, 1, 2)},
		{Name: "b", Value: point(1, 1, 2)},
	}}
	if got, want := Format(line), "LINE(POINT(1.,2.),POINT(1.,2.))"; got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}

	shape := &Variant{Tag: "LENGTH_MEASURE", Value: Scalar{Value: record.Real(5)}}
	if got, want := Format(shape), "LENGTH_MEASURE(5.)"; got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}

	circle := &Variant{Tag: "POINT", Value: point(3, 0, 0)}
	if got, want := Format(circle), "POINT(0.,0.)"; got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}

	list := List{Absent{}, Scalar{Value: record.Enum("T")}}
	if got, want := Format(list), "($,.T.)"; got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestPlain(t *testing.T) {
	value := &Entity{
		Type: "PART",
		Fields: []Field{
			{Name: "name", Value: Scalar{Value: record.String("bolt")}},
			{Name: "count", Value: Scalar{Value: record.Integer(4)}},
			{Name: "active", Value: Scalar{Value: record.Enum("T")}},
			{Name: "finish", Value: Scalar{Value: record.Enum("MATTE")}},
			{Name: "origin", Value: point(7, 1, 2)},
			{Name: "tags", Value: List{Scalar{Value: record.String("a")}}},
			{Name: "shape", Value: &Variant{Tag: "RADIUS", Value: Scalar{Value: record.Real(2)}}},
			{Name: "note", Value: Absent{}},
		},
	}
	want := map[string]any{
		TypeKey:  "PART",
		"name":   "bolt",
		"count":  int64(4),
		"active": true,
		"finish": "MATTE",
		"origin": map[string]any{TypeKey: "POINT", IDKey: int64(7), "x": 1.0, "y": 2.0},
		"tags":   []any{"a"},
		"shape":  map[string]any{"RADIUS": 2.0},
		"note":   nil,
	}
	if diff := cmp.Diff(want, Plain(value)); diff != "" {
		t.Fatalf("Plain() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainID(t *testing.T) {
	tests := []struct {
		id   record.EntityID
		want any
	}{
		{id: 7, want: int64(7)},
		{id: math.MaxInt64, want: int64(math.MaxInt64)},
		{id: math.MaxInt64 + 1, want: uint64(math.MaxInt64 + 1)},
		{id: math.MaxUint64, want: uint64(math.MaxUint64)},
	}
	for _, tt := range tests {
		m, ok := Plain(&Entity{Type: "POINT", ID: tt.id, HasID: true}).(map[string]any)
		if !ok {
			t.Fatalf("Plain() is not a map")
		}
		if diff := cmp.Diff(tt.want, m[IDKey]); diff != "" {
			t.Fatalf("Plain() id %d mismatch (-want +got):\n%s", tt.id, diff)
		}
	}
}

func TestEntityGet(t *testing.T) {
	p := point(1, 3, 4)
	v, ok := p.Get("y")
	if !ok || v != (Scalar{Value: record.Real(4)}) {
		t.Fatalf("Get(y) = %v, %v", v, ok)
	}
	if _, ok := p.Get("z"); ok {
		t.Fatalf("Get(z) ok = true")
	}
	var nilEntity *Entity
	if _, ok := nilEntity.Get("x"); ok {
		t.Fatalf("nil Get ok = true")
	}
}

func TestInnermost(t *testing.T) {
	p := point(1, 3, 4)
	wrapped := &Variant{Tag: "ITEM", Value: &Variant{Tag: "POINT", Value: p}}
	if got := Innermost(wrapped); got != p {
		t.Fatalf("Innermost(variant) = %v, want %v", got, p)
	}
	if got := Innermost(p); got != p {
		t.Fatalf("Innermost(entity) = %v", got)
	}
	if got := Innermost(&Variant{Tag: "LENGTH", Value: Scalar{Value: record.Real(1)}}); got != nil {
		t.Fatalf("Innermost(scalar variant) = %v, want nil", got)
	}
}
