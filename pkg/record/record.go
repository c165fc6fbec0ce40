package record

import (
	"strings"
)

// EntityID identifies one record within one entity type's table.
// Ids are unique per (type, table), not globally.
type EntityID uint64

// Form distinguishes the two record shapes.
type Form uint8

const (
	// FormSequence is a bare ordered parameter list, decoded positionally.
	FormSequence Form = iota
	// FormKeyed is a single (tag, payload) entry whose payload is a parameter list.
	FormKeyed
)

// Record is a type tag plus parameters.
//
// A keyed record wraps exactly one sequence payload under Tag. A keyed record
// with an empty Tag has no entry at all and never decodes.
type Record struct {
	Tag    string
	Params []Value
	Form   Form
}

// Seq builds a sequence-form record.
func Seq(params ...Value) *Record {
	return &Record{Params: params, Form: FormSequence}
}

// Keyed builds a keyed record tagged with tag.
func Keyed(tag string, params ...Value) *Record {
	return &Record{Tag: tag, Params: params, Form: FormKeyed}
}

// Empty builds a keyed record without an entry.
func Empty() *Record {
	return &Record{Form: FormKeyed}
}

// Kind returns KindRecord.
func (r *Record) Kind() Kind {
	return KindRecord
}

// IsEmpty reports whether r is a keyed record without an entry.
func (r *Record) IsEmpty() bool {
	return r == nil || (r.Form == FormKeyed && r.Tag == "")
}

// Len returns the number of parameters.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Params)
}

// Payload returns the sequence-form record wrapped by a keyed record.
// A sequence record is its own payload.
func (r *Record) Payload() *Record {
	if r == nil || r.Form == FormSequence {
		return r
	}
	return Seq(r.Params...)
}

// String renders the record in exchange-file notation.
func (r *Record) String() string {
	if r.IsEmpty() {
		return "<empty>"
	}
	var b strings.Builder
	if r.Form == FormKeyed {
		b.WriteString(r.Tag)
	}
	writeParams(&b, r.Params)
	return b.String()
}

func writeParams(b *strings.Builder, params []Value) {
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		if p == nil {
			b.WriteString("$")
			continue
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
}
