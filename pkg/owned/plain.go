package owned

import (
	"math"

	"github.com/jacoelho/stepgraph/pkg/record"
)

// Reserved keys of the maps Plain builds for entities. Schemas reject field
// names with a leading underscore, so resolved fields never use them.
const (
	TypeKey = "_type"
	IDKey   = "_id"
)

// Plain converts v into plain Go values for encoders and expression engines:
// entities become map[string]any with their fields plus TypeKey (and IDKey
// when the entity has one), variants become a single-entry map keyed by tag,
// lists become []any, the enumerations T and F become bool, other scalars
// become float64, int64, or string, and absent values become nil. IDKey holds
// an int64, or a uint64 for ids above math.MaxInt64.
func Plain(v Value) any {
	switch v := v.(type) {
	case Scalar:
		return plainScalar(v.Value)
	case *Entity:
		m := make(map[string]any, len(v.Fields)+2)
		for _, f := range v.Fields {
			m[f.Name] = Plain(f.Value)
		}
		m[TypeKey] = v.Type
		if v.HasID {
			m[IDKey] = plainID(v.ID)
		}
		return m
	case *Variant:
		return map[string]any{v.Tag: Plain(v.Value)}
	case List:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Plain(item)
		}
		return out
	default:
		return nil
	}
}

func plainID(id record.EntityID) any {
	if id > math.MaxInt64 {
		return uint64(id)
	}
	return int64(id)
}

func plainScalar(s record.Scalar) any {
	switch s := s.(type) {
	case record.Real:
		return float64(s)
	case record.Integer:
		return int64(s)
	case record.String:
		return string(s)
	case record.Enum:
		if b, ok := s.Bool(); ok {
			return b
		}
		return string(s)
	case record.Binary:
		return string(s)
	default:
		return nil
	}
}
