package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		want string
		e    Error
	}{
		{
			name: "message only",
			e:    Error{Code: ErrEmptyRecord, Message: "empty keyed record"},
			want: "[step-empty-record] empty keyed record",
		},
		{
			name: "with type",
			e:    Error{Code: ErrEmptyRecord, Message: "empty keyed record", Type: "POINT"},
			want: "[step-empty-record] empty keyed record in POINT",
		},
		{
			name: "with location",
			e: Error{
				Code:    ErrUnknownEntity,
				Message: "no POINT entity with id #7",
				Type:    "LINE",
				ID:      10,
				HasID:   true,
				Path:    "a",
			},
			want: "[step-unknown-entity] no POINT entity with id #7 in LINE #10 at a",
		},
		{
			name: "with expected and actual",
			e: Error{
				Code:     ErrUnexpectedTag,
				Message:  "tag mismatch",
				Expected: []string{"POINT"},
				Actual:   "LINE",
			},
			want: "[step-unexpected-tag] tag mismatch (expected: POINT) (actual: LINE)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNilErrorFormatting(t *testing.T) {
	var e *Error
	if got := e.Error(); got != "step error <nil>" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestConstructors(t *testing.T) {
	arity := ArityMismatch("POINT", 2, 3)
	if arity.Code != ErrArityMismatch || arity.Expected[0] != "2" || arity.Actual != "3" {
		t.Fatalf("ArityMismatch = %+v", arity)
	}

	tag := UnexpectedTag("POINT", "LINE")
	if tag.Code != ErrUnexpectedTag || tag.Expected[0] != "POINT" || tag.Actual != "LINE" {
		t.Fatalf("UnexpectedTag = %+v", tag)
	}

	variant := UnknownVariant("SHAPE", "TRIANGLE", []string{"CIRCLE", "SQUARE"})
	if variant.Actual != "TRIANGLE" || len(variant.Expected) != 2 {
		t.Fatalf("UnknownVariant = %+v", variant)
	}

	unknown := UnknownEntity("POINT", 7)
	if unknown.Ref != 7 || unknown.Actual != "#7" {
		t.Fatalf("UnknownEntity = %+v", unknown)
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("get line: %w", UnknownEntity("POINT", 1))
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("errors.Is(%v, ErrUnknownEntity) = false", err)
	}
	if errors.Is(err, ErrArityMismatch) {
		t.Fatalf("errors.Is(%v, ErrArityMismatch) = true", err)
	}
}

func TestAtFieldBuildsPath(t *testing.T) {
	var err error = UnknownEntity("POINT", 3)
	err = AtField(err, "[2]")
	err = AtField(err, "points")
	err = AtField(err, "shape")

	e, ok := AsError(err)
	if !ok {
		t.Fatalf("AsError() ok = false")
	}
	if e.Path != "shape.points[2]" {
		t.Fatalf("Path = %q, want %q", e.Path, "shape.points[2]")
	}
}

func TestAtKeepsInnermostEntity(t *testing.T) {
	var err error = UnknownEntity("POINT", 3)
	err = AtField(err, "x")
	err = At(err, "CARTESIAN", 5)
	err = AtField(err, "origin")
	err = At(err, "PLACEMENT", 9)

	e, ok := AsError(err)
	if !ok {
		t.Fatalf("AsError() ok = false")
	}
	if e.Type != "CARTESIAN" || e.ID != 5 || e.Path != "x" {
		t.Fatalf("location = %s #%d at %s, want CARTESIAN #5 at x", e.Type, e.ID, e.Path)
	}
}

func TestAtIgnoresForeignErrors(t *testing.T) {
	plain := errors.New("boom")
	if got := At(plain, "POINT", 1); got != plain {
		t.Fatalf("At() = %v, want unchanged error", got)
	}
	if got := AtField(plain, "x"); got != plain {
		t.Fatalf("AtField() = %v, want unchanged error", got)
	}
}

func TestListError(t *testing.T) {
	tests := []struct {
		name string
		list List
		want string
	}{
		{name: "empty", list: List{}, want: "no errors"},
		{name: "single", list: List{EmptyRecord("POINT")}, want: "[step-empty-record] empty keyed record cannot be decoded as POINT"},
		{
			name: "multiple",
			list: List{EmptyRecord("POINT"), EmptyRecord("LINE")},
			want: "[step-empty-record] empty keyed record cannot be decoded as POINT (and 1 more)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsList(t *testing.T) {
	err := fmt.Errorf("build table: %w", List{EmptyRecord("POINT"), UnknownEntity("LINE", 2)})
	list, ok := AsList(err)
	if !ok || len(list) != 2 {
		t.Fatalf("AsList() = %v, %v", list, ok)
	}
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("errors.Is through List = false")
	}
	if _, ok := AsList(nil); ok {
		t.Fatalf("AsList(nil) ok = true")
	}
}

func TestResolutionConstructors(t *testing.T) {
	cycle := CyclicReference([]string{"LINE #2", "POINT #1", "LINE #2"})
	if !errors.Is(cycle, ErrCyclicReference) || cycle.Actual != "LINE #2" {
		t.Fatalf("CyclicReference = %+v", cycle)
	}
	if got, want := cycle.Message, "reference cycle: LINE #2 -> POINT #1 -> LINE #2"; got != want {
		t.Fatalf("Message = %q, want %q", got, want)
	}

	depth := DepthExceeded(8)
	if !errors.Is(depth, ErrDepthExceeded) || depth.Expected[0] != "depth <= 8" {
		t.Fatalf("DepthExceeded = %+v", depth)
	}

	dup := DuplicateEntity("POINT", 4)
	if !errors.Is(dup, ErrDuplicateEntity) || dup.Ref != 4 {
		t.Fatalf("DuplicateEntity = %+v", dup)
	}

	unknown := UnknownType("TRIANGLE")
	if !errors.Is(unknown, ErrUnknownType) || unknown.Actual != "TRIANGLE" {
		t.Fatalf("UnknownType = %+v", unknown)
	}
}
