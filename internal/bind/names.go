package bind

import (
	"reflect"
	"strings"

	"github.com/gobuffalo/flect"
)

// TypeName derives the type tag of a Go type: its identifier in
// SCREAMING_SNAKE_CASE, so ShapeRepresentation becomes SHAPE_REPRESENTATION.
func TypeName(t reflect.Type) string {
	return strings.ToUpper(flect.Underscore(t.Name()))
}

// FieldName derives an attribute name from a Go field identifier.
func FieldName(goName string) string {
	return flect.Underscore(goName)
}

// fieldTag is the parsed form of a `step:"name,ref"` struct tag.
type fieldTag struct {
	name string
	skip bool
	ref  bool
}

func parseFieldTag(f reflect.StructField) fieldTag {
	raw, ok := f.Tag.Lookup("step")
	if !ok {
		return fieldTag{name: FieldName(f.Name)}
	}
	if raw == "-" {
		return fieldTag{skip: true}
	}
	name, opts, _ := strings.Cut(raw, ",")
	tag := fieldTag{name: name}
	if tag.name == "" {
		tag.name = FieldName(f.Name)
	}
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == "ref" {
			tag.ref = true
		}
	}
	return tag
}
