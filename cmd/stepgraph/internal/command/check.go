package command

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	steperrors "github.com/jacoelho/stepgraph/errors"
)

// CheckOptions holds the options for the check command.
type CheckOptions struct {
	Parallelism int
	MaxDepth    int
}

func NewCheckCommand(cli *CLI) *cobra.Command {
	opts := CheckOptions{MaxDepth: 1024}

	cmd := &cobra.Command{
		Use:   "check [flags] <records.yaml>",
		Short: "Check that every record decodes and resolves",
		Long: Highlight("stepgraph check <records.yaml>") + "\n\n" +
			"Decode every record, look for reference cycles, and resolve every\n" +
			"stored instance. All failures are reported.\n",
		Args: ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cli, opts, args[0])
		},
	}
	cmd.Flags().IntVarP(&opts.Parallelism, "parallelism", "p", 0, "Number of resolution workers (0 uses GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "Maximum reference depth (0 disables the limit)")
	return cmd
}

func runCheck(ctx context.Context, cli *CLI, opts CheckOptions, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tableOpts := cli.tableOptions().
		WithParallelism(opts.Parallelism).
		WithMaxDepth(opts.MaxDepth)
	if err := tableOpts.Validate(); err != nil {
		return err
	}

	tbl, err := cli.loadTable(path, tableOpts)
	if err != nil {
		if errs, ok := steperrors.AsList(err); ok {
			for _, e := range errs {
				cli.Println(color.RedString("✗"), e)
			}
			return fmt.Errorf("%s: %d records failed to decode", path, len(errs))
		}
		return err
	}

	problems := 0
	if err := tbl.CheckCycles(); err != nil {
		problems++
		cli.Println(color.RedString("✗"), err)
	}

	results, err := tbl.ResolveAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			problems++
			cli.Println(color.RedString("✗"), r.Err)
		}
	}
	if problems > 0 {
		return fmt.Errorf("%s: %d problems in %d instances", path, problems, len(results))
	}
	cli.Printf("%s %s: %d instances resolved\n", color.GreenString("✓"), path, len(results))
	return nil
}
