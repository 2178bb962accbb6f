package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenticinfraops/infraviz/pkg/errors"
)

// dotCommand creates the dot command printing Graphviz source.
func (c *CLI) dotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dot <name>",
		Short: "Print the DOT source of a Graphviz diagram",
		Long: `Print the DOT source of an architecture or workflow diagram to stdout.

Infographics are drawn directly and have no DOT source.`,
		Example: `  infraviz dot workflow_numbered | dot -Tsvg > workflow.svg`,
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeDiagramNames(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := lookupEntries(args)
			if err != nil {
				return err
			}
			e := entries[0]
			if !e.IsGraph() {
				return errors.New(errors.ErrCodeUnsupported, "%s is an infographic and has no DOT source", e.Name)
			}

			src, err := e.Build(c.config.Params())
			if err != nil {
				return err
			}
			if err := src.Graph.Validate(); err != nil {
				return err
			}
			fmt.Fprint(c.Out, src.Graph.String())
			return nil
		},
	}
}
