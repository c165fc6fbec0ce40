package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies one class of decode or resolve failure.
// An ErrorCode is itself an error so callers can match with errors.Is.
type ErrorCode string

const (
	// ErrArityMismatch indicates a sequence record with the wrong number of parameters.
	ErrArityMismatch ErrorCode = "step-arity-mismatch"
	// ErrUnexpectedTag indicates a keyed record whose tag does not name the expected type.
	ErrUnexpectedTag ErrorCode = "step-unexpected-tag"
	// ErrEmptyRecord indicates a keyed record without an entry.
	ErrEmptyRecord ErrorCode = "step-empty-record"
	// ErrUnknownVariant indicates a keyed record whose tag matches no select variant.
	ErrUnknownVariant ErrorCode = "step-unknown-variant"
	// ErrUnknownEntity indicates a reference to an id no table slot of the requested type holds.
	ErrUnknownEntity ErrorCode = "step-unknown-entity"

	// ErrTypeMismatch indicates a parameter whose shape does not fit its field.
	ErrTypeMismatch ErrorCode = "step-type-mismatch"
	// ErrUnknownType indicates a record tag that names no entity type of the schema.
	ErrUnknownType ErrorCode = "step-unknown-type"
	// ErrDuplicateEntity indicates two records of one type sharing an id.
	ErrDuplicateEntity ErrorCode = "step-duplicate-entity"
	// ErrCyclicReference indicates a reference back to an entity already being resolved.
	ErrCyclicReference ErrorCode = "step-cyclic-reference"
	// ErrDepthExceeded indicates a reference chain deeper than the configured limit.
	ErrDepthExceeded ErrorCode = "step-depth-exceeded"
	// ErrInvalidSchema indicates a schema descriptor that cannot be compiled.
	ErrInvalidSchema ErrorCode = "step-invalid-schema"
)

// Error returns the code string.
func (c ErrorCode) Error() string {
	return string(c)
}

// Error describes one decode or resolve failure with enough context to find the
// offending record: the entity type and id being processed, the field path inside
// it, and the expected and actual values of the failing check.
//
//nolint:errname // public API name, mirrors the package name.
type Error struct {
	Code     ErrorCode
	Message  string
	Type     string
	Path     string
	Actual   string
	Expected []string
	ID       uint64
	Ref      uint64
	HasID    bool
}

// Error formats the failure for display, including code, message, and context.
func (e *Error) Error() string {
	if e == nil {
		return "step error <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.Type != "" {
		if e.HasID {
			b.WriteString(fmt.Sprintf(" in %s #%d", e.Type, e.ID))
		} else {
			b.WriteString(fmt.Sprintf(" in %s", e.Type))
		}
	}
	if e.Path != "" {
		b.WriteString(fmt.Sprintf(" at %s", e.Path))
	}
	if len(e.Expected) > 0 {
		b.WriteString(fmt.Sprintf(" (expected: %s)", strings.Join(e.Expected, ", ")))
	}
	if e.Actual != "" {
		b.WriteString(fmt.Sprintf(" (actual: %s)", e.Actual))
	}
	return b.String()
}

// Is reports whether target is this error's code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// New builds an Error with a code and message.
func New(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf formats a message and builds an Error.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// ArityMismatch reports a sequence record with actual parameters where expected were declared.
func ArityMismatch(typeName string, expected, actual int) *Error {
	e := Newf(ErrArityMismatch, "%s expects %d parameters, got %d", typeName, expected, actual)
	e.Expected = []string{fmt.Sprint(expected)}
	e.Actual = fmt.Sprint(actual)
	return e
}

// UnexpectedTag reports a keyed record tagged actual where expected was required.
func UnexpectedTag(expected, actual string) *Error {
	e := Newf(ErrUnexpectedTag, "record tag %s does not match %s", actual, expected)
	e.Expected = []string{expected}
	e.Actual = actual
	return e
}

// EmptyRecord reports a keyed record without an entry decoded as typeName.
func EmptyRecord(typeName string) *Error {
	return Newf(ErrEmptyRecord, "empty keyed record cannot be decoded as %s", typeName)
}

// UnknownVariant reports a tag that matches none of the select's variants.
func UnknownVariant(selectName, tag string, variants []string) *Error {
	e := Newf(ErrUnknownVariant, "%s is not a variant of %s", tag, selectName)
	e.Expected = variants
	e.Actual = tag
	return e
}

// UnknownEntity reports that no table slot of typeName holds id.
func UnknownEntity(typeName string, id uint64) *Error {
	e := Newf(ErrUnknownEntity, "no %s entity with id #%d", typeName, id)
	e.Expected = []string{typeName}
	e.Actual = fmt.Sprintf("#%d", id)
	e.Ref = id
	return e
}

// TypeMismatch reports a parameter of kind actual where expected was declared.
func TypeMismatch(expected, actual string) *Error {
	e := Newf(ErrTypeMismatch, "parameter of kind %s does not fit %s", actual, expected)
	e.Expected = []string{expected}
	e.Actual = actual
	return e
}

// CyclicReference reports a reference back to an entity on the current
// resolution path. path lists the entities from the first visit to the repeat.
func CyclicReference(path []string) *Error {
	e := Newf(ErrCyclicReference, "reference cycle: %s", strings.Join(path, " -> "))
	if len(path) > 0 {
		e.Actual = path[len(path)-1]
	}
	return e
}

// DepthExceeded reports a reference chain deeper than limit.
func DepthExceeded(limit int) *Error {
	e := Newf(ErrDepthExceeded, "reference depth exceeds %d", limit)
	e.Expected = []string{fmt.Sprintf("depth <= %d", limit)}
	return e
}

// DuplicateEntity reports a second record of typeName stored under id.
func DuplicateEntity(typeName string, id uint64) *Error {
	e := Newf(ErrDuplicateEntity, "%s #%d is already stored", typeName, id)
	e.Actual = fmt.Sprintf("#%d", id)
	e.Ref = id
	return e
}

// UnknownType reports a record tag that names no entity type of the schema.
func UnknownType(tag string) *Error {
	e := Newf(ErrUnknownType, "%s is not an entity type of the schema", tag)
	e.Actual = tag
	return e
}

// At records the entity being processed when the failure happened.
// The innermost entity wins: a location that is already set is kept.
func At(err error, typeName string, id uint64) error {
	e, ok := AsError(err)
	if !ok || e.Type != "" {
		return err
	}
	c := *e
	c.Type = typeName
	c.ID = id
	c.HasID = true
	return &c
}

// AtField prefixes the failure path with a field or index segment.
// Segments are ignored once the failure has an entity location, since the
// path is relative to that entity.
func AtField(err error, segment string) error {
	e, ok := AsError(err)
	if !ok || e.Type != "" {
		return err
	}
	c := *e
	c.Path = joinPath(segment, e.Path)
	return &c
}

func joinPath(head, tail string) string {
	switch {
	case tail == "":
		return head
	case head == "":
		return tail
	case strings.HasPrefix(tail, "["):
		return head + tail
	default:
		return head + "." + tail
	}
}

// AsError extracts the step failure from an error chain.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// List is an error that wraps one or more failures.
type List []error //nolint:errname // public API name.

// Error returns a compact summary of the failures.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
	}
}

// Unwrap exposes the wrapped failures to errors.Is and errors.As.
func (l List) Unwrap() []error {
	return l
}

// AsList extracts the failures of a List from an error chain.
func AsList(err error) ([]error, bool) {
	if err == nil {
		return nil, false
	}
	var list List
	if errors.As(err, &list) {
		return []error(list), true
	}
	return nil, false
}
