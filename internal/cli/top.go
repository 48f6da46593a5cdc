package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"archview/pkg/model"
	"archview/pkg/view"
)

// newTopCmd creates the top command for listing flattened top-level
// components.
func newTopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top <snapshot.json>",
		Short: "List the flattened top-level components of a snapshot",
		Long: `List the flattened top-level components of a snapshot.

The top level skips structural wrappers (repositories, projects) and shallow
single-child containers so the diagram starts at the components that matter:
clients, servers, applications and libraries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := model.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", args[0], err)
			}

			comps := view.TopLevel(snap)
			if len(comps) == 0 {
				printInfo("Snapshot has no visible components")
				return nil
			}

			fmt.Println(StyleTitle.Render("Top-Level Components"))
			printComponentTable(comps)
			printNewline()
			printStats(len(comps), len(snap.Relationships()), false)
			return nil
		},
	}
}

// printComponentTable renders components as a bordered table.
func printComponentTable(comps []*model.Component) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(comps))
	for _, c := range comps {
		drill := ""
		if c.HasSubstructure() {
			drill = iconArrow
		}
		rows = append(rows, []string{
			c.DisplayName(),
			c.Type,
			strconv.Itoa(c.FileCount()),
			strconv.Itoa(len(c.Children)),
			drill,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Component", "Type", "Files", "Children", "Drill").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	fmt.Println(t.Render())
}
