package resolve

import (
	"testing"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/pkg/record"
)

func TestCheckCycles(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		entries []entry
	}{
		{
			name: "acyclic with shared and missing references",
			entries: []entry{
				{id: 1, rec: pt(0, 0)},
				{id: 10, rec: record.Keyed("LINE", record.Ref(1), record.Ref(1))},
				{id: 11, rec: record.Keyed("LINE", record.Ref(1), record.Ref(42))},
				{id: 20, rec: record.Keyed("NODE", record.Ref(21))},
				{id: 21, rec: record.Keyed("NODE", record.Null{})},
				{id: 30, rec: record.Keyed("PART",
					record.Keyed("CIRCLE", record.Real(1)),
					record.Ref(10),
					record.Real(2),
				)},
			},
		},
		{
			name: "three node cycle",
			entries: []entry{
				{id: 1, rec: record.Keyed("NODE", record.Ref(2))},
				{id: 2, rec: record.Keyed("NODE", record.Ref(3))},
				{id: 3, rec: record.Keyed("NODE", record.Ref(1))},
			},
			path: "NODE #1 -> NODE #2 -> NODE #3 -> NODE #1",
		},
		{
			name: "self reference after acyclic chain",
			entries: []entry{
				{id: 5, rec: record.Keyed("NODE", record.Ref(6))},
				{id: 6, rec: record.Keyed("NODE", record.Ref(6))},
			},
			path: "NODE #6 -> NODE #6",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(buildTable(t, tt.entries...)).CheckCycles()
			if tt.path == "" {
				if err != nil {
					t.Fatalf("CheckCycles() error = %v", err)
				}
				return
			}
			e := requireCode(t, err, steperrors.ErrCyclicReference)
			if e.Message != "reference cycle: "+tt.path {
				t.Fatalf("Message = %q, want path %q", e.Message, tt.path)
			}
		})
	}
}
