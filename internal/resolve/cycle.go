package resolve

import (
	"fmt"

	"github.com/samber/lo"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/state"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// entityKey names one stored entity instance.
type entityKey struct {
	Type string
	ID   record.EntityID
}

func (k entityKey) String() string {
	return fmt.Sprintf("%s #%d", k.Type, k.ID)
}

// CycleGuard tracks the entities on the current resolution path.
// Entities leave the path when their resolution returns, so shared references
// reached along different paths are not cycles.
type CycleGuard[K interface {
	comparable
	fmt.Stringer
}] struct {
	onPath   map[K]bool
	path     state.Stack[K]
	maxDepth int
}

// NewCycleGuard creates a guard that also bounds the path length by maxDepth
// (0 disables the bound).
func NewCycleGuard[K interface {
	comparable
	fmt.Stringer
}](maxDepth int) *CycleGuard[K] {
	return &CycleGuard[K]{
		onPath:   make(map[K]bool),
		path:     state.NewStack[K](8),
		maxDepth: maxDepth,
	}
}

// Enter pushes key onto the path. It fails if key is already on it or the
// path is at its maximum depth.
func (g *CycleGuard[K]) Enter(key K) error {
	if g.onPath[key] {
		cycle := g.path.From(func(k K) bool { return k == key })
		names := lo.Map(cycle, func(k K, _ int) string { return k.String() })
		return steperrors.CyclicReference(append(names, key.String()))
	}
	if g.maxDepth > 0 && g.path.Len() >= g.maxDepth {
		return steperrors.DepthExceeded(g.maxDepth)
	}
	g.onPath[key] = true
	g.path.Push(key)
	return nil
}

// Leave pops key from the path.
func (g *CycleGuard[K]) Leave(key K) {
	delete(g.onPath, key)
	g.path.Pop()
}
