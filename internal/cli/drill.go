package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"archview/pkg/model"
	"archview/pkg/view"
)

// newDrillCmd creates the drill command for inspecting one component's
// substructure.
func newDrillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drill <snapshot.json> <component-id>",
		Short: "Show the drilled-in view of one component",
		Long: `Show the drilled-in view of one component.

Drilling narrows the diagram to a component's children, with thin wrapper
children replaced by the significant components they contain. The breadcrumb
trail from the root to the drill target is printed above the children.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := model.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", args[0], err)
			}

			nav := view.NewNavigator(snap)
			nav.DrillInto(args[1])
			state := nav.State()
			if state.DrillTarget != args[1] {
				if _, ok := snap.Component(args[1]); !ok {
					return fmt.Errorf("component %s not found", args[1])
				}
				return fmt.Errorf("component %s has no substructure to drill into", args[1])
			}

			fmt.Println(StyleTitle.Render("Drilled View"))
			printBreadcrumbs(state.Breadcrumbs)
			printNewline()

			comps := nav.Visible()
			if len(comps) == 0 {
				printInfo("No visible components at this level")
				return nil
			}
			printComponentTable(comps)
			return nil
		},
	}
}

// printBreadcrumbs renders the root-to-target trail on one line.
func printBreadcrumbs(crumbs []view.Breadcrumb) {
	parts := make([]string, len(crumbs))
	for i, b := range crumbs {
		if i == len(crumbs)-1 {
			parts[i] = StyleHighlight.Render(b.Name)
		} else {
			parts[i] = StyleDim.Render(b.Name)
		}
	}
	fmt.Println(strings.Join(parts, StyleDim.Render(" "+iconArrow+" ")))
}
