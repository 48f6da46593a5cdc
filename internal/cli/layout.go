package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"archview/pkg/model"
	"archview/pkg/view"
)

// layoutFile is the on-disk result of the layout command: positioned nodes
// and routed edges for one view of a snapshot.
type layoutFile struct {
	Snapshot string      `json:"snapshot"`
	Target   string      `json:"target,omitempty"`
	Nodes    []view.Node `json:"nodes"`
	Edges    []view.Edge `json:"edges"`
}

// newLayoutCmd creates the layout command for computing diagram positions.
func newLayoutCmd() *cobra.Command {
	var (
		output    string
		target    string
		engine    string
		direction string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "layout <snapshot.json>",
		Short: "Compute diagram positions for a snapshot view",
		Long: `Compute diagram positions for a snapshot view.

The layout command flattens the snapshot's top level (or drills into the
component given with --target), runs the layout engine, routes the edges and
writes the positioned result as JSON. Results are cached locally for faster
subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := args[0]

			snap, err := model.ReadFile(input)
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", input, err)
			}
			eng, err := newEngine(engine)
			if err != nil {
				return err
			}
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}

			spinner := newSpinner(ctx, "Computing layout...")
			spinner.Start()

			v, err := awaitLayout(ctx, snap, target, eng, newCache(noCache), dir)
			if err != nil {
				spinner.StopWithError("Layout failed")
				return fmt.Errorf("compute layout: %w", err)
			}
			defer v.Close()
			spinner.Stop()

			if ctx.Err() != nil {
				return ctx.Err()
			}

			outputPath := output
			if outputPath == "" {
				base := strings.TrimSuffix(input, filepath.Ext(input))
				outputPath = base + ".layout.json"
			}

			result := layoutFile{
				Snapshot: input,
				Target:   target,
				Nodes:    v.Nodes(),
				Edges:    v.Edges(),
			}
			if err := writeLayoutFile(result, outputPath); err != nil {
				return fmt.Errorf("write output %s: %w", outputPath, err)
			}

			printSuccess("Layout complete")
			printFile(outputPath)
			printStats(len(result.Nodes), len(result.Edges), false)
			printNewline()
			printNextStep("Render", "archview render "+input)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "drill into this component before layout")
	cmd.Flags().StringVarP(&engine, "engine", "e", "layered", "layout engine: layered (default), dot")
	cmd.Flags().StringVarP(&direction, "direction", "d", "down", "flow direction: down (default), right")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func writeLayoutFile(result layoutFile, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
