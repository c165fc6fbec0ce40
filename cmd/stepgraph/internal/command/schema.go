package command

import (
	"github.com/spf13/cobra"
)

func NewSchemaCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Compile the schema and print it",
		Long: Highlight("stepgraph schema -s schema.yaml") + "\n\n" +
			"Compile the schema document and print it in normalized form.\n",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.loadSchema()
			if err != nil {
				return err
			}
			cli.Log.V(1).Info("compiled schema", "entities", len(s.EntityTypes()), "selects", len(s.SelectTypes()))
			return s.WriteYAML(cli.Writer)
		},
	}
}
