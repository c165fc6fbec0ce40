package resolve

import (
	"errors"

	"github.com/samber/lo"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/graphcycle"
	"github.com/jacoelho/stepgraph/internal/holder"
	"github.com/jacoelho/stepgraph/internal/schema"
)

// CheckCycles reports the first reference cycle among the stored instances
// without resolving anything. Instances are visited in table order. References
// to missing ids are ignored; resolution reports them.
func (r *Resolver) CheckCycles() error {
	var starts []entityKey
	for _, e := range r.schema.Entities() {
		for id := range r.table.All(e.Name()) {
			starts = append(starts, entityKey{Type: e.Name(), ID: id})
		}
	}

	err := graphcycle.Detect(graphcycle.Config[entityKey]{
		Starts: starts,
		Exists: func(k entityKey) bool {
			return r.table.Contains(k.Type, k.ID)
		},
		Next:    r.neighbors,
		Missing: graphcycle.MissingPolicyIgnore,
	})
	var cycle graphcycle.CycleError[entityKey]
	if errors.As(err, &cycle) {
		return steperrors.CyclicReference(lo.Map(cycle.Path, func(k entityKey, _ int) string {
			return k.String()
		}))
	}
	return err
}

func (r *Resolver) neighbors(k entityKey) ([]entityKey, error) {
	h, ok := r.table.Get(k.Type, k.ID)
	if !ok {
		return nil, nil
	}
	return lo.FilterMap(holder.Edges(r.schema, h), func(e holder.Edge, _ int) (entityKey, bool) {
		return r.edgeTarget(e)
	}), nil
}

// edgeTarget names the stored instance an edge points at. A select edge points
// at the variant table that claims the id.
func (r *Resolver) edgeTarget(e holder.Edge) (entityKey, bool) {
	if !e.Select {
		return entityKey{Type: e.Target, ID: e.ID}, true
	}
	sel, ok := r.schema.Select(e.Target)
	if !ok {
		return entityKey{}, false
	}
	var ent *schema.Entity
	ent, _, ok = r.table.Claim(sel, e.ID)
	if !ok {
		return entityKey{}, false
	}
	return entityKey{Type: ent.Name(), ID: e.ID}, true
}
