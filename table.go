package stepgraph

import (
	"context"
	"iter"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/jacoelho/stepgraph/internal/resolve"
	"github.com/jacoelho/stepgraph/internal/table"
	"github.com/jacoelho/stepgraph/pkg/owned"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// TableBuilder populates a table. It is not safe for concurrent use.
type TableBuilder struct {
	schema  *Schema
	builder *table.Builder
	opts    resolvedTableOptions
}

// NewTableBuilder returns a builder for an empty table of s.
func (s *Schema) NewTableBuilder(opts TableOptions) (*TableBuilder, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	policy := table.UnknownTypeError
	if o.skipUnknownTypes {
		policy = table.UnknownTypeSkip
	}
	return &TableBuilder{
		schema: s,
		builder: table.NewBuilder(s.compiled,
			table.WithLogger(o.logger),
			table.WithUnknownTypePolicy(policy),
		),
		opts: o,
	}, nil
}

// Insert decodes the keyed record rec and stores it under id in the table of
// the entity type its tag names.
func (b *TableBuilder) Insert(id record.EntityID, rec *record.Record) error {
	return b.builder.Insert(id, rec)
}

// InsertAs decodes rec as an instance of typeName and stores it under id.
func (b *TableBuilder) InsertAs(typeName string, id record.EntityID, rec *record.Record) error {
	return b.builder.InsertAs(typeName, id, rec)
}

// Skipped returns the number of records dropped because their tag named no
// entity type.
func (b *TableBuilder) Skipped() int {
	return b.builder.Skipped()
}

// Build returns the populated table. The builder must not be used afterwards.
func (b *TableBuilder) Build() *Table {
	t := b.builder.Table()
	return &Table{
		schema:      b.schema,
		table:       t,
		resolver:    resolve.New(t, resolve.WithMaxDepth(b.opts.maxDepth)),
		log:         b.opts.logger,
		parallelism: b.opts.parallelism,
	}
}

// Table is a populated, read-only entity table. It is safe for concurrent use.
type Table struct {
	schema      *Schema
	table       *table.Table
	resolver    *resolve.Resolver
	log         logr.Logger
	parallelism int
}

// Schema returns the schema the table was built for.
func (t *Table) Schema() *Schema {
	return t.schema
}

// Len returns the number of instances stored for an entity type.
func (t *Table) Len(typeName string) int {
	return t.table.Len(typeName)
}

// Size returns the number of stored instances across all types.
func (t *Table) Size() int {
	return t.table.Size()
}

// IDs returns the ids stored for an entity type in insertion order.
func (t *Table) IDs(typeName string) []record.EntityID {
	return t.table.IDs(typeName)
}

// Types returns the entity types with at least one stored instance, in schema
// order.
func (t *Table) Types() []string {
	return t.table.Types()
}

// Contains reports whether an instance of an entity type is stored under id.
func (t *Table) Contains(typeName string, id record.EntityID) bool {
	return t.table.Contains(typeName, id)
}

// GetOwned resolves the instance of an entity or select type stored under id.
// An entity type yields an *owned.Entity; a select yields an *owned.Variant
// per variant leading to the entity that claims id.
func (t *Table) GetOwned(typeName string, id record.EntityID) (owned.Value, error) {
	return t.resolver.GetOwned(typeName, id)
}

// OwnedIter yields every stored instance of an entity or select type,
// resolved, in insertion order. Failures are yielded in place and iteration
// continues. The sequence can be ranged over more than once.
func (t *Table) OwnedIter(typeName string) iter.Seq2[owned.Value, error] {
	return t.resolver.OwnedIter(typeName)
}

// Result is the outcome of resolving one stored instance.
type Result struct {
	Value *owned.Entity
	Err   error
	Type  string
	ID    record.EntityID
}

// ResolveAll resolves every stored instance of every type on a bounded pool of
// workers. Results are returned in table order, one per instance; a failing
// instance records its error in its Result. The returned error is non-nil only
// when ctx ends first.
func (t *Table) ResolveAll(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, t.table.Size())
	for _, typeName := range t.table.Types() {
		for _, id := range t.table.IDs(typeName) {
			results = append(results, Result{Type: typeName, ID: id})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.parallelism)
	for i := range results {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := &results[i]
			v, err := t.resolver.GetOwned(r.Type, r.ID)
			if err != nil {
				r.Err = err
				return nil
			}
			r.Value, _ = v.(*owned.Entity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	t.log.V(1).Info("resolved table", "entities", len(results), "failed", failed, "workers", t.parallelism)
	return results, nil
}

// CheckCycles reports the first reference cycle among the stored instances
// as a CyclicReference error, without resolving any of them.
func (t *Table) CheckCycles() error {
	return t.resolver.CheckCycles()
}
