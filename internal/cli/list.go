package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/agenticinfraops/infraviz/pkg/catalog"
)

// listCommand creates the list command showing the diagram catalog.
func (c *CLI) listCommand() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the diagrams and the files they produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := catalog.Entries()
			if family != "" {
				var err error
				if entries, err = catalog.Filter(family); err != nil {
					return err
				}
			}
			fmt.Fprintln(c.Out, catalogTable(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&family, "family", "", "only list one family: architecture, workflow or infographic")

	return cmd
}

// catalogTable renders entries as a bordered table.
func catalogTable(entries []catalog.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		files := make([]string, len(e.Outputs))
		for i, o := range e.Outputs {
			files[i] = o.File
		}
		rows = append(rows, []string{e.Name, e.Family, strings.Join(files, "\n"), e.Description})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderRow(true).
		Headers("Name", "Family", "Outputs", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return StyleHighlight
			case 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
