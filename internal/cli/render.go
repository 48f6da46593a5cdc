package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"archview/pkg/layout/dot"
	"archview/pkg/model"
)

// newRenderCmd creates the render command for generating diagram files.
func newRenderCmd() *cobra.Command {
	var (
		output    string
		target    string
		format    string
		engine    string
		direction string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "render <snapshot.json>",
		Short: "Render a snapshot view as DOT or SVG",
		Long: `Render a snapshot view as DOT or SVG.

The render command computes the same positioned view as 'layout', then
serializes it as a Graphviz DOT document or renders it to SVG. Communication
edges are drawn dashed with their protocol as the label; structural edges are
solid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := args[0]
			logger := loggerFromContext(ctx)

			if format != "dot" && format != "svg" {
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}

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

			p := newProgress(logger)
			spinner := newSpinner(ctx, "Rendering diagram...")
			spinner.Start()

			v, err := awaitLayout(ctx, snap, target, eng, newCache(noCache), dir)
			if err != nil {
				spinner.StopWithError("Render failed")
				return fmt.Errorf("compute layout: %w", err)
			}
			defer v.Close()

			doc := dot.ToDOT(v.Nodes(), v.Edges())
			var data []byte
			if format == "svg" {
				data, err = dot.RenderSVG(ctx, doc)
				if err != nil {
					spinner.StopWithError("Render failed")
					return fmt.Errorf("render svg: %w", err)
				}
			} else {
				data = []byte(doc)
			}
			spinner.Stop()

			if ctx.Err() != nil {
				return ctx.Err()
			}

			outputPath := output
			if outputPath == "" {
				base := strings.TrimSuffix(input, filepath.Ext(input))
				outputPath = base + "." + format
			}
			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", outputPath, err)
			}

			p.done("Rendered " + outputPath)
			printSuccess("Render complete")
			printFile(outputPath)
			printStats(len(v.Nodes()), len(v.Edges()), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "drill into this component before layout")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), dot")
	cmd.Flags().StringVarP(&engine, "engine", "e", "layered", "layout engine: layered (default), dot")
	cmd.Flags().StringVarP(&direction, "direction", "d", "down", "flow direction: down (default), right")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
