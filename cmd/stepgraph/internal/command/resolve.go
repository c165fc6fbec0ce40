package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacoelho/stepgraph/cmd/stepgraph/internal/view"
	"github.com/jacoelho/stepgraph/pkg/owned"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// ResolveOptions holds the options for the resolve command.
type ResolveOptions struct {
	Type     string
	Output   string
	MaxDepth int
	ID       uint64
}

func NewResolveCommand(cli *CLI) *cobra.Command {
	opts := ResolveOptions{MaxDepth: 1024}

	cmd := &cobra.Command{
		Use:   "resolve [flags] <records.yaml>",
		Short: "Resolve instances of a type and print them",
		Long: Highlight("stepgraph resolve --type TYPE [--id N] <records.yaml>") + "\n\n" +
			"Resolve one instance, or every instance of an entity or select type,\n" +
			"and print the owned values with every reference expanded.\n",
		Args: ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, cli, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "Entity or select type to resolve")
	cmd.Flags().Uint64Var(&opts.ID, "id", 0, "Resolve only the instance with this id")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format. One of: (yaml | json | step)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "Maximum reference depth (0 disables the limit)")
	return cmd
}

func runResolve(cmd *cobra.Command, cli *CLI, opts ResolveOptions, path string) error {
	format, err := view.ParseOutputFormat(opts.Output)
	if err != nil {
		return err
	}
	tbl, err := cli.loadTable(path, cli.tableOptions().WithMaxDepth(opts.MaxDepth))
	if err != nil {
		return err
	}
	if err := requireType(tbl.Schema(), opts.Type); err != nil {
		return err
	}

	if cmd.Flags().Changed("id") {
		v, err := tbl.GetOwned(opts.Type, record.EntityID(opts.ID))
		if err != nil {
			return err
		}
		return view.WriteValues(cli.Writer, format, []owned.Value{v})
	}

	var values []owned.Value
	failed := 0
	for v, err := range tbl.OwnedIter(opts.Type) {
		if err != nil {
			failed++
			cli.Err.Println(err)
			continue
		}
		values = append(values, v)
	}
	if err := view.WriteValues(cli.Writer, format, values); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d %s instances failed to resolve", failed, failed+len(values), opts.Type)
	}
	return nil
}
