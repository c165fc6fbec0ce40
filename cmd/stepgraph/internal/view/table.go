package view

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/rodaine/table"

	"github.com/jacoelho/stepgraph/pkg/owned"
)

// Row is one listed instance.
type Row struct {
	Value owned.Value
	Type  string
	ID    uint64
}

// NewRow describes v by the entity it holds.
func NewRow(v owned.Value) Row {
	r := Row{Value: v}
	if e := owned.Innermost(v); e != nil {
		r.Type = e.Type
		r.ID = uint64(e.ID)
	}
	return r
}

// PrintTable writes rows as an aligned table. Values wider than width
// terminal cells are truncated; width 0 disables truncation.
func PrintTable(w io.Writer, rows []Row, width int) {
	headerFmt := color.New(color.FgGreen, color.Bold).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	tbl := table.New("ID", "Type", "Value").
		WithWriter(w).
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(columnFmt).
		WithWidthFunc(runewidth.StringWidth)
	for _, r := range rows {
		value := owned.Format(r.Value)
		if width > 0 {
			value = runewidth.Truncate(value, width, "…")
		}
		tbl.AddRow(fmt.Sprintf("#%d", r.ID), r.Type, value)
	}
	tbl.Print()
}
