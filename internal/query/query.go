// Package query filters resolved entities with CEL predicates.
//
// A predicate sees three variables: self, the value converted by owned.Plain;
// id, the stored id of the innermost entity (0 for inline instances and for ids
// above math.MaxInt64, which only self._id carries); and entity, the innermost
// entity type name. CEL reserves type, so the name is not bound under it.
package query

import (
	"fmt"
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/ext"

	"github.com/jacoelho/stepgraph/pkg/owned"
)

// Predicate is a compiled boolean CEL expression. It is immutable and safe for
// concurrent use.
type Predicate struct {
	program  cel.Program
	Original string
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		ext.Strings(),
		ext.Lists(),
		cel.OptionalTypes(),
		cel.Variable("self", cel.DynType),
		cel.Variable("id", cel.IntType),
		cel.Variable("entity", cel.StringType),
	)
}

// Compile parses and checks expr.
func Compile(expr string) (*Predicate, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, iss.Err())
	}
	switch out := ast.OutputType(); out.Kind() {
	case types.BoolKind, types.DynKind:
	default:
		return nil, fmt.Errorf("compile %q: result type %s is not bool", expr, out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Predicate{program: prg, Original: expr}, nil
}

// Match evaluates the predicate against v.
func (p *Predicate) Match(v owned.Value) (bool, error) {
	out, _, err := p.program.Eval(Vars(v))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.Original, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: result %v is not bool", p.Original, out)
	}
	return b, nil
}

// Vars returns the activation of v.
func Vars(v owned.Value) map[string]any {
	vars := map[string]any{
		"self":   owned.Plain(v),
		"id":     int64(0),
		"entity": "",
	}
	if e := owned.Innermost(v); e != nil {
		vars["entity"] = e.Type
		if e.HasID && e.ID <= math.MaxInt64 {
			vars["id"] = int64(e.ID)
		}
	}
	return vars
}
