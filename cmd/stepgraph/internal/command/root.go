package command

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jacoelho/stepgraph/cmd/stepgraph/internal/view"
	"github.com/jacoelho/stepgraph/cmd/stepgraph/version"
)

// NewCLI returns a CLI writing results to stdout and diagnostics to stderr.
func NewCLI(stdout, stderr io.Writer) *CLI {
	return &CLI{
		Stream: view.NewStream(stdout),
		Err:    view.NewStream(stderr),
		Log:    view.NewLogger(stderr, view.LogLevelSilent),
	}
}

// NewRootCommand returns the root command with its global flags bound to cli.
func NewRootCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stepgraph",
		Short: "Resolve entity records into self-contained values",
		Long: Highlight("Usage: stepgraph [global options] <subcommand> [args]") + "\n\n" +
			"stepgraph decodes entity records against a schema, resolves their\n" +
			"cross-references, and prints, lists, or checks the resulting values.\n",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				_ = cmd.Help()
			}
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			view.ConfigureColor(cli.Stream, cli.NoColor)
			level := view.ParseLogLevel(strings.ToLower(os.Getenv("STEPGRAPH_LOG")))
			if cli.Debug {
				level = view.LogLevelDebug
			}
			cli.Log = view.NewLogger(cli.Err.Writer, level)
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.PersistentFlags().StringVarP(&cli.SchemaPath, "schema", "s", "", "Path to the YAML schema document")
	cmd.PersistentFlags().BoolVar(&cli.Debug, "debug", false, "Set log level to debug")
	cmd.PersistentFlags().BoolVar(&cli.NoColor, "no-color", false, "Disable colored output")
	return cmd
}

// AddCommands registers all subcommands to the root command.
func AddCommands(root *cobra.Command, cli *CLI) {
	root.AddCommand(
		NewResolveCommand(cli),
		NewListCommand(cli),
		NewCheckCommand(cli),
		NewSchemaCommand(cli),
		NewVersionCommand(cli),
	)
}

// Execute runs the command line args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cli := NewCLI(stdout, stderr)
	root := NewRootCommand(cli)
	AddCommands(root, cli)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		cli.Err.Println(color.RedString("Error:"), err)
		return 1
	}
	return 0
}
