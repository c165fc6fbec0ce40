package table

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/holder"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/pkg/record"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	realType := fieldclass.ScalarType(fieldclass.Real)
	s, err := schema.Compile(schema.Definition{
		Entities: []schema.EntityDef{
			{Name: "POINT", Fields: []schema.FieldDef{{Name: "x", Type: realType}, {Name: "y", Type: realType}}},
			{Name: "CIRCLE", Fields: []schema.FieldDef{{Name: "radius", Type: realType}}},
		},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return s
}

func point(x, y float64) *record.Record {
	return record.Keyed("POINT", record.Real(x), record.Real(y))
}

func TestBuilderInsert(t *testing.T) {
	b := NewBuilder(testSchema(t))
	for _, id := range []record.EntityID{5, 1, 3} {
		if err := b.Insert(id, point(float64(id), 0)); err != nil {
			t.Fatalf("Insert(%d) error = %v", id, err)
		}
	}
	if err := b.Insert(1, record.Keyed("CIRCLE", record.Real(2))); err != nil {
		t.Fatalf("Insert(CIRCLE 1) error = %v", err)
	}
	tbl := b.Table()

	if got, want := tbl.IDs("POINT"), []record.EntityID{5, 1, 3}; !slices.Equal(got, want) {
		t.Fatalf("IDs(POINT) = %v, want %v", got, want)
	}
	if got := tbl.Len("POINT"); got != 3 {
		t.Fatalf("Len(POINT) = %d, want 3", got)
	}
	if got := tbl.Size(); got != 4 {
		t.Fatalf("Size() = %d, want 4", got)
	}
	if !tbl.Contains("CIRCLE", 1) || tbl.Contains("CIRCLE", 5) {
		t.Fatal("Contains() does not keep types apart")
	}
	if got, want := tbl.Types(), []string{"POINT", "CIRCLE"}; !slices.Equal(got, want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}

	h, ok := tbl.Get("POINT", 3)
	if !ok || h.Name() != "POINT" || len(h.Fields) != 2 {
		t.Fatalf("Get(POINT, 3) = %+v, %v", h, ok)
	}
	if _, ok := tbl.Get("LINE", 3); ok {
		t.Fatal("Get() found an instance of an undeclared type")
	}
	if tbl.Len("LINE") != 0 || tbl.IDs("LINE") != nil {
		t.Fatal("undeclared type has instances")
	}
}

func TestTableAllRestartable(t *testing.T) {
	b := NewBuilder(testSchema(t))
	for _, id := range []record.EntityID{2, 9, 4} {
		if err := b.Insert(id, point(0, 0)); err != nil {
			t.Fatalf("Insert(%d) error = %v", id, err)
		}
	}
	tbl := b.Table()

	for pass := range 2 {
		var ids []record.EntityID
		for id, h := range tbl.All("POINT") {
			if h == nil {
				t.Fatalf("pass %d: nil holder for #%d", pass, id)
			}
			ids = append(ids, id)
		}
		if want := []record.EntityID{2, 9, 4}; !slices.Equal(ids, want) {
			t.Fatalf("pass %d: All() ids = %v, want %v", pass, ids, want)
		}
	}

	for range tbl.All("CIRCLE") {
		t.Fatal("All(CIRCLE) yielded from an empty slot")
	}
}

func TestBuilderInsertErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  *record.Record
		code steperrors.ErrorCode
	}{
		{name: "unknown type", rec: record.Keyed("TRIANGLE", record.Real(1)), code: steperrors.ErrUnknownType},
		{name: "arity", rec: record.Keyed("POINT", record.Real(1)), code: steperrors.ErrArityMismatch},
		{name: "untagged", rec: record.Seq(record.Real(1), record.Real(2)), code: steperrors.ErrTypeMismatch},
		{name: "empty", rec: record.Empty(), code: steperrors.ErrEmptyRecord},
		{name: "kind", rec: record.Keyed("POINT", record.String("a"), record.Real(2)), code: steperrors.ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(testSchema(t))
			err := b.Insert(7, tt.rec)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Insert() error = %v, want %s", err, tt.code)
			}
			if b.Table().Size() != 0 {
				t.Fatal("failed insert stored a record")
			}
		})
	}
}

func TestBuilderDecodeErrorLocation(t *testing.T) {
	b := NewBuilder(testSchema(t))
	err := b.Insert(7, record.Keyed("POINT", record.Real(1), record.String("b")))
	e, ok := steperrors.AsError(err)
	if !ok {
		t.Fatalf("Insert() error = %v, want step error", err)
	}
	if e.Type != "POINT" || e.ID != 7 || e.Path != "y" {
		t.Fatalf("location = %s #%d at %q, want POINT #7 at y", e.Type, e.ID, e.Path)
	}
}

func TestBuilderDuplicate(t *testing.T) {
	b := NewBuilder(testSchema(t))
	if err := b.Insert(1, point(1, 1)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	err := b.Insert(1, point(2, 2))
	if !errors.Is(err, steperrors.ErrDuplicateEntity) {
		t.Fatalf("Insert() duplicate error = %v", err)
	}
	h, _ := b.Table().Get("POINT", 1)
	if got := h.Fields[0]; got != (holder.Scalar{Value: record.Real(1)}) {
		t.Fatalf("x = %#v, want the first record's value", got)
	}
}

func TestBuilderInsertAs(t *testing.T) {
	b := NewBuilder(testSchema(t))
	if err := b.InsertAs("CIRCLE", 3, record.Seq(record.Real(4))); err != nil {
		t.Fatalf("InsertAs() error = %v", err)
	}
	if err := b.InsertAs("TRIANGLE", 4, record.Seq()); !errors.Is(err, steperrors.ErrUnknownType) {
		t.Fatalf("InsertAs(TRIANGLE) error = %v", err)
	}
	if !b.Table().Contains("CIRCLE", 3) {
		t.Fatal("InsertAs() did not store the record")
	}
}

func TestBuilderSkipUnknownTypes(t *testing.T) {
	var logs []string
	log := funcr.New(func(prefix, args string) {
		logs = append(logs, args)
	}, funcr.Options{Verbosity: 1})

	b := NewBuilder(testSchema(t), WithLogger(log), WithUnknownTypePolicy(UnknownTypeSkip))
	if err := b.Insert(1, record.Keyed("TRIANGLE", record.Real(1))); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := b.Insert(2, point(0, 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if got := b.Skipped(); got != 1 {
		t.Fatalf("Skipped() = %d, want 1", got)
	}
	tbl := b.Table()
	if tbl.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", tbl.Size())
	}
	if len(logs) != 2 || !strings.Contains(logs[0], `"type"="TRIANGLE"`) {
		t.Fatalf("logs = %v", logs)
	}
}

func TestUnknownTypePolicyString(t *testing.T) {
	if UnknownTypeError.String() != "error" || UnknownTypeSkip.String() != "skip" {
		t.Fatal("unexpected policy names")
	}
	if got := UnknownTypePolicy(9).String(); got != "UnknownTypePolicy(9)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestClaim(t *testing.T) {
	realType := fieldclass.ScalarType(fieldclass.Real)
	s, err := schema.Compile(schema.Definition{
		Entities: []schema.EntityDef{
			{Name: "CIRCLE", Fields: []schema.FieldDef{{Name: "r", Type: realType}}},
			{Name: "SQUARE", Fields: []schema.FieldDef{{Name: "s", Type: realType}}},
			{Name: "LABEL", Fields: []schema.FieldDef{{Name: "t", Type: fieldclass.ScalarType(fieldclass.String)}}},
		},
		Defined: []schema.DefinedDef{{Name: "MEASURE", Type: realType}},
		Selects: []schema.SelectDef{
			{Name: "SHAPE", Variants: []string{"CIRCLE", "SQUARE"}},
			{Name: "ITEM", Variants: []string{"MEASURE", "LABEL", "SHAPE"}},
		},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	b := NewBuilder(s)
	inserts := []struct {
		rec *record.Record
		id  record.EntityID
	}{
		{id: 1, rec: record.Keyed("SQUARE", record.Real(1))},
		{id: 1, rec: record.Keyed("CIRCLE", record.Real(1))},
		{id: 2, rec: record.Keyed("SQUARE", record.Real(2))},
		{id: 2, rec: record.Keyed("LABEL", record.String("x"))},
	}
	for _, in := range inserts {
		if err := b.Insert(in.id, in.rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	tbl := b.Table()
	item, _ := s.Select("ITEM")

	tests := []struct {
		id     record.EntityID
		entity string
		tags   []string
		ok     bool
	}{
		{id: 1, entity: "CIRCLE", tags: []string{"SHAPE", "CIRCLE"}, ok: true},
		{id: 2, entity: "LABEL", tags: []string{"LABEL"}, ok: true},
		{id: 3},
	}
	for _, tt := range tests {
		e, tags, ok := tbl.Claim(item, tt.id)
		if ok != tt.ok {
			t.Fatalf("Claim(#%d) ok = %v, want %v", tt.id, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if e.Name() != tt.entity || !slices.Equal(tags, tt.tags) {
			t.Fatalf("Claim(#%d) = %s %v, want %s %v", tt.id, e.Name(), tags, tt.entity, tt.tags)
		}
	}
}
