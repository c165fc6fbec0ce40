package stepgraph_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/stepgraph"
	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/pkg/owned"
	"github.com/jacoelho/stepgraph/pkg/record"
)

const testSchemaYAML = `defined:
  - {name: LENGTH_MEASURE, type: real}
entities:
  - name: POINT
    fields:
      - {name: x, type: real}
      - {name: y, type: real}
  - name: LINE
    fields:
      - {name: a, type: POINT, ref: true}
      - {name: b, type: POINT, ref: true}
  - name: NODE
    fields:
      - {name: next, type: optional<NODE>, ref: true}
  - name: CIRCLE
    fields:
      - {name: radius, type: LENGTH_MEASURE}
  - name: SQUARE
    fields:
      - {name: side, type: real}
selects:
  - {name: SHAPE, variants: [CIRCLE, SQUARE]}
`

func loadTestSchema(t *testing.T) *stepgraph.Schema {
	t.Helper()
	fsys := fstest.MapFS{"schema.yaml": &fstest.MapFile{Data: []byte(testSchemaYAML)}}
	s, err := stepgraph.LoadSchema(fsys, "schema.yaml")
	require.NoError(t, err)
	return s
}

func loadTestTable(t *testing.T, data string, opts stepgraph.TableOptions) (*stepgraph.Table, error) {
	t.Helper()
	fsys := fstest.MapFS{"data.yaml": &fstest.MapFile{Data: []byte(data)}}
	return stepgraph.LoadTable(loadTestSchema(t), fsys, "data.yaml", opts)
}

func TestSchemaIntrospection(t *testing.T) {
	s := loadTestSchema(t)

	assert.Equal(t, []string{"POINT", "LINE", "NODE", "CIRCLE", "SQUARE"}, s.EntityTypes())
	assert.Equal(t, []string{"SHAPE"}, s.SelectTypes())
	assert.True(t, s.HasType("SHAPE"))
	assert.True(t, s.HasType("POINT"))
	assert.False(t, s.HasType("LENGTH_MEASURE"))
	assert.False(t, s.HasType("point"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteYAML(&buf))
	again, err := stepgraph.LoadSchema(fstest.MapFS{"s.yaml": &fstest.MapFile{Data: buf.Bytes()}}, "s.yaml")
	require.NoError(t, err)
	assert.Equal(t, s.EntityTypes(), again.EntityTypes())
	assert.Equal(t, s.SelectTypes(), again.SelectTypes())
}

func TestLoadSchemaErrors(t *testing.T) {
	_, err := stepgraph.LoadSchema(fstest.MapFS{}, "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load schema missing.yaml")

	bad := fstest.MapFS{"s.yaml": &fstest.MapFile{Data: []byte("entities:\n  - name: LINE\n    fields:\n      - {name: a, type: POINT}\n")}}
	_, err = stepgraph.LoadSchema(bad, "s.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, steperrors.ErrInvalidSchema), "error = %v", err)
}

func TestLoadTableErrors(t *testing.T) {
	_, err := loadTestTable(t, `
- {id: 1, POINT: [0.0, 0.0]}
- {id: 2, TRIANGLE: []}
- {id: 3, POINT: [1.0]}
- {id: 1, POINT: [2.0, 2.0]}
`, stepgraph.NewTableOptions())
	require.Error(t, err)

	list, ok := steperrors.AsList(err)
	require.True(t, ok, "error = %v", err)
	require.Len(t, list, 3)
	assert.ErrorIs(t, list[0], steperrors.ErrUnknownType)
	assert.Contains(t, list[0].Error(), "data.yaml:3:")
	assert.ErrorIs(t, list[1], steperrors.ErrArityMismatch)
	assert.Contains(t, list[1].Error(), "data.yaml:4:")
	assert.ErrorIs(t, list[2], steperrors.ErrDuplicateEntity)
}

func TestLoadTableSkipUnknownTypes(t *testing.T) {
	var logs []string
	log := funcr.New(func(prefix, args string) {
		logs = append(logs, args)
	}, funcr.Options{Verbosity: 1})

	tbl, err := loadTestTable(t, `
- {id: 1, POINT: [0.0, 0.0]}
- {id: 2, TRIANGLE: []}
`, stepgraph.NewTableOptions().WithSkipUnknownTypes(true).WithLogger(log))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Size())
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[len(logs)-1], `"count"=1`)
}

func TestTableIntrospection(t *testing.T) {
	tbl, err := loadTestTable(t, `
- {id: 5, POINT: [0.0, 0.0]}
- {id: 2, POINT: [1.0, 1.0]}
- {id: 5, CIRCLE: [1.5]}
`, stepgraph.NewTableOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Size())
	assert.Equal(t, 2, tbl.Len("POINT"))
	assert.Equal(t, 0, tbl.Len("LINE"))
	assert.Equal(t, []record.EntityID{5, 2}, tbl.IDs("POINT"))
	assert.Equal(t, []string{"POINT", "CIRCLE"}, tbl.Types())
	assert.True(t, tbl.Contains("CIRCLE", 5))
	assert.False(t, tbl.Contains("SQUARE", 5))
	assert.Same(t, tbl.Schema(), tbl.Schema())
}

func TestTableGetOwnedSelect(t *testing.T) {
	tbl, err := loadTestTable(t, `
- {id: 1, SQUARE: [2.0]}
- {id: 2, CIRCLE: [1.0]}
`, stepgraph.NewTableOptions())
	require.NoError(t, err)

	v, err := tbl.GetOwned("SHAPE", 1)
	require.NoError(t, err)
	assert.Equal(t, "SQUARE(2.)", owned.Format(v))

	var got []string
	for v, err := range tbl.OwnedIter("SHAPE") {
		require.NoError(t, err)
		got = append(got, owned.Format(v))
	}
	assert.Equal(t, []string{"CIRCLE(1.)", "SQUARE(2.)"}, got)

	_, err = tbl.GetOwned("SHAPE", 3)
	assert.ErrorIs(t, err, steperrors.ErrUnknownEntity)
}

func TestTableResolveAll(t *testing.T) {
	tbl, err := loadTestTable(t, `
- {id: 10, LINE: ["#1", "#2"]}
- {id: 11, LINE: ["#1", "#99"]}
- {id: 1, POINT: [0.0, 0.0]}
- {id: 2, POINT: [3.0, 4.0]}
`, stepgraph.NewTableOptions().WithParallelism(2))
	require.NoError(t, err)

	results, err := tbl.ResolveAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)

	type key struct {
		Type string
		ID   record.EntityID
	}
	var order []key
	for _, r := range results {
		order = append(order, key{Type: r.Type, ID: r.ID})
	}
	assert.Equal(t, []key{{"POINT", 1}, {"POINT", 2}, {"LINE", 10}, {"LINE", 11}}, order)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, "LINE(POINT(0.,0.),POINT(3.,4.))", owned.Format(results[2].Value))
	assert.ErrorIs(t, results[3].Err, steperrors.ErrUnknownEntity)
	assert.Nil(t, results[3].Value)
}

func TestTableResolveAllCanceled(t *testing.T) {
	tbl := chainTable(t, 10, stepgraph.NewTableOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := tbl.ResolveAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestTableMaxDepth(t *testing.T) {
	tbl := chainTable(t, 10, stepgraph.NewTableOptions().WithMaxDepth(3))
	_, err := tbl.GetOwned("NODE", 1)
	assert.ErrorIs(t, err, steperrors.ErrDepthExceeded)

	tbl = chainTable(t, 10, stepgraph.NewTableOptions().WithMaxDepth(0))
	_, err = tbl.GetOwned("NODE", 1)
	assert.NoError(t, err)
}

func TestTableCheckCycles(t *testing.T) {
	tbl := chainTable(t, 5, stepgraph.NewTableOptions())
	assert.NoError(t, tbl.CheckCycles())

	tbl, err := loadTestTable(t, `
- {id: 1, NODE: ["#2"]}
- {id: 2, NODE: ["#1"]}
`, stepgraph.NewTableOptions())
	require.NoError(t, err)
	err = tbl.CheckCycles()
	require.ErrorIs(t, err, steperrors.ErrCyclicReference)
	assert.True(t, strings.Contains(err.Error(), "NODE #1 -> NODE #2 -> NODE #1"), "error = %v", err)
}

func TestTableOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    stepgraph.TableOptions
		wantErr bool
	}{
		{name: "defaults", opts: stepgraph.NewTableOptions()},
		{name: "zero depth", opts: stepgraph.NewTableOptions().WithMaxDepth(0)},
		{name: "negative depth", opts: stepgraph.NewTableOptions().WithMaxDepth(-1), wantErr: true},
		{name: "negative parallelism", opts: stepgraph.NewTableOptions().WithParallelism(-2), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				_, err = loadTestSchema(t).NewTableBuilder(tt.opts)
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTableOptionsCopy(t *testing.T) {
	base := stepgraph.NewTableOptions()
	_ = base.WithMaxDepth(-1)
	assert.NoError(t, base.Validate())
}
