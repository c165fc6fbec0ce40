package record

import (
	"strconv"
	"strings"
)

// Kind classifies a parameter value.
type Kind uint8

const (
	KindNull Kind = iota
	KindReal
	KindInteger
	KindString
	KindEnum
	KindBinary
	KindRef
	KindList
	KindRecord
)

var kindNames = [...]string{
	KindNull:    "null",
	KindReal:    "real",
	KindInteger: "integer",
	KindString:  "string",
	KindEnum:    "enumeration",
	KindBinary:  "binary",
	KindRef:     "reference",
	KindList:    "list",
	KindRecord:  "record",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one record parameter: a Scalar, Ref, List, Null, or nested *Record.
type Value interface {
	Kind() Kind
	String() string
}

// Scalar is a simple parameter value passed through decode and resolve unchanged.
type Scalar interface {
	Value
	scalar()
}

// Real is a floating point parameter.
type Real float64

// Integer is an integral parameter.
type Integer int64

// String is a text parameter.
type String string

// Enum is an enumeration item, written .ITEM. in exchange files.
// Booleans and logicals are the enumerations T, F and U.
type Enum string

// Binary is a bit string kept in its hexadecimal lexical form.
type Binary string

// Ref is a reference to another record by id.
type Ref EntityID

// List is an aggregate parameter.
type List []Value

// Null marks an omitted optional parameter.
type Null struct{}

func (Real) scalar()    {}
func (Integer) scalar() {}
func (String) scalar()  {}
func (Enum) scalar()    {}
func (Binary) scalar()  {}

// Kind returns KindReal.
func (Real) Kind() Kind { return KindReal }

// Kind returns KindInteger.
func (Integer) Kind() Kind { return KindInteger }

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

// Kind returns KindEnum.
func (Enum) Kind() Kind { return KindEnum }

// Kind returns KindBinary.
func (Binary) Kind() Kind { return KindBinary }

// Kind returns KindRef.
func (Ref) Kind() Kind { return KindRef }

// Kind returns KindList.
func (List) Kind() Kind { return KindList }

// Kind returns KindNull.
func (Null) Kind() Kind { return KindNull }

func (v Real) String() string {
	s := strconv.FormatFloat(float64(v), 'G', -1, 64)
	if !strings.ContainsAny(s, ".EIN") {
		s += "."
	}
	return s
}

func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }

func (v String) String() string {
	return "'" + strings.ReplaceAll(string(v), "'", "''") + "'"
}

func (v Enum) String() string { return "." + string(v) + "." }

func (v Binary) String() string { return `"` + string(v) + `"` }

func (v Ref) String() string { return "#" + strconv.FormatUint(uint64(v), 10) }

func (v List) String() string {
	var b strings.Builder
	writeParams(&b, v)
	return b.String()
}

func (Null) String() string { return "$" }

// Bool interprets the enumeration as a boolean: T is true, F is false.
// ok is false for any other item.
func (v Enum) Bool() (value, ok bool) {
	switch v {
	case "T":
		return true, true
	case "F":
		return false, true
	default:
		return false, false
	}
}

// IsNull reports whether v is absent: nil or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	return v.Kind() == KindNull
}

// KindOf returns the kind of v, treating nil as KindNull.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}
