package bind

import "github.com/jacoelho/stepgraph/pkg/record"

// Logical is the three-valued EXPRESS LOGICAL.
type Logical uint8

const (
	Unknown Logical = iota
	False
	True
)

// String returns the exchange-file literal.
func (l Logical) String() string {
	return l.Enum().String()
}

// Enum returns the enumeration literal of l.
func (l Logical) Enum() record.Enum {
	switch l {
	case True:
		return "T"
	case False:
		return "F"
	default:
		return "U"
	}
}

// LogicalOf converts an enumeration literal. Anything but T and F is Unknown.
func LogicalOf(e record.Enum) Logical {
	switch e {
	case "T":
		return True
	case "F":
		return False
	default:
		return Unknown
	}
}
