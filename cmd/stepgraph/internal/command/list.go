package command

import (
	"github.com/spf13/cobra"

	"github.com/jacoelho/stepgraph/cmd/stepgraph/internal/view"
	"github.com/jacoelho/stepgraph/internal/query"
)

// ListOptions holds the options for the list command.
type ListOptions struct {
	Type  string
	Where string
	Width int
}

func NewListCommand(cli *CLI) *cobra.Command {
	opts := ListOptions{Width: 80}

	cmd := &cobra.Command{
		Use:   "list [flags] <records.yaml>",
		Short: "List resolved instances of a type as a table",
		Long: Highlight("stepgraph list --type TYPE [--where EXPR] <records.yaml>") + "\n\n" +
			"List every instance of an entity or select type. --where keeps the\n" +
			"instances for which a CEL expression is true; the expression sees\n" +
			"self (the resolved value), id and entity (the type name).\n",
		Example: `  stepgraph list -s schema.yaml data.yaml --type POINT --where 'self.x > 1.0'`,
		Args:    ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cli, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "Entity or select type to list")
	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "CEL filter expression")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "Truncate values to this many columns (0 disables)")
	return cmd
}

func runList(cli *CLI, opts ListOptions, path string) error {
	var pred *query.Predicate
	if opts.Where != "" {
		var err error
		if pred, err = query.Compile(opts.Where); err != nil {
			return err
		}
	}
	tbl, err := cli.loadTable(path, cli.tableOptions())
	if err != nil {
		return err
	}
	if err := requireType(tbl.Schema(), opts.Type); err != nil {
		return err
	}

	var rows []view.Row
	for v, err := range tbl.OwnedIter(opts.Type) {
		if err != nil {
			cli.Log.Error(err, "skipping instance", "type", opts.Type)
			continue
		}
		if pred != nil {
			ok, err := pred.Match(v)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		rows = append(rows, view.NewRow(v))
	}
	view.PrintTable(cli.Writer, rows, opts.Width)
	return nil
}
