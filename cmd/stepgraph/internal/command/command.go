package command

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/jacoelho/stepgraph"
	"github.com/jacoelho/stepgraph/cmd/stepgraph/internal/view"
)

// CLI is the state shared by all commands. Global flags are bound to its
// fields; Log is configured once flags are parsed.
type CLI struct {
	*view.Stream
	Err        *view.Stream
	Log        logr.Logger
	SchemaPath string
	Debug      bool
	NoColor    bool
}

// Highlight applies the heading color to the formatted text.
func Highlight(format string, a ...any) string {
	return color.RGB(50, 108, 229).Sprintf(format, a...)
}

// ExactArgs returns an error if there is not the exact number of args.
func ExactArgs(number int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == number {
			return nil
		}
		return fmt.Errorf("expected %d arguments, got %d", number, len(args))
	}
}

func (c *CLI) loadSchema() (*stepgraph.Schema, error) {
	if c.SchemaPath == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	return stepgraph.LoadSchemaFile(c.SchemaPath)
}

func (c *CLI) tableOptions() stepgraph.TableOptions {
	return stepgraph.NewTableOptions().WithLogger(c.Log)
}

// loadTable loads the schema and the record document at path.
func (c *CLI) loadTable(path string, opts stepgraph.TableOptions) (*stepgraph.Table, error) {
	s, err := c.loadSchema()
	if err != nil {
		return nil, err
	}
	tbl, err := stepgraph.LoadTableFile(s, path, opts)
	if err != nil {
		return nil, err
	}
	c.Log.V(1).Info("loaded records", "path", path, "instances", tbl.Size(), "types", len(tbl.Types()))
	return tbl, nil
}

// requireType checks that typeName can be queried on s.
func requireType(s *stepgraph.Schema, typeName string) error {
	if typeName == "" {
		return fmt.Errorf("--type is required")
	}
	if !s.HasType(typeName) {
		return fmt.Errorf("type %s is not an entity or select type of the schema", typeName)
	}
	return nil
}
