// Package dot provides Graphviz integration: a layout engine implementing
// the view contract on top of the dot algorithm, and DOT/SVG export of a
// routed view for static artifacts.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"archview/pkg/view"
)

// pointsPerInch converts between DOT inch-based size attributes and the
// pixel coordinates the view engine works in.
const pointsPerInch = 72.0

// =============================================================================
// Layout Engine
// =============================================================================

// Engine computes positions with Graphviz's layered dot algorithm.
// It renders the graph to xdot and reads back the node positions, so the
// process needs no graphviz binary - the embedded (wasm) engine is used.
type Engine struct{}

// New creates a Graphviz-backed layout engine.
func New() *Engine { return &Engine{} }

// Layout implements the view engine contract. Node priorities are expressed
// as ordering within the generated DOT source, which dot uses as a
// tie-breaker inside ranks.
func (e *Engine) Layout(ctx context.Context, nodes []view.NodeSpec, edges []view.EdgeSpec, dir view.Direction) ([]view.PlacedNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	src := specsToDOT(nodes, edges, dir)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	return parsePositions(buf.String(), nodes), nil
}

// specsToDOT builds minimal DOT input: fixed-size box nodes in priority
// order, edges, and the requested rank direction.
func specsToDOT(nodes []view.NodeSpec, edges []view.EdgeSpec, dir view.Direction) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if dir == view.DirectionRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  node [shape=box, fixedsize=true];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.5;\n\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [width=%.3f, height=%.3f];\n",
			n.ID, n.Width/pointsPerInch, n.Height/pointsPerInch)
	}
	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// posRe matches the pos attribute emitted in xdot output for nodes.
var posRe = regexp.MustCompile(`pos="(-?[0-9.]+),(-?[0-9.]+)"`)

// parsePositions extracts node centers from xdot output. Statements are
// matched per node id; nodes the renderer dropped are simply absent from
// the result, which the coordinator tolerates. Graphviz positions are box
// centers with y growing upward; the view works with top-left corners and
// y growing downward, so both are converted.
func parsePositions(xdot string, nodes []view.NodeSpec) []view.PlacedNode {
	specs := make(map[string]view.NodeSpec, len(nodes))
	for _, n := range nodes {
		specs[n.ID] = n
	}

	type center struct{ x, y float64 }
	centers := make(map[string]center, len(nodes))
	maxY := 0.0

	for _, stmt := range strings.Split(xdot, ";") {
		m := posRe.FindStringSubmatch(stmt)
		if m == nil {
			continue
		}
		id, ok := statementNodeID(stmt, specs)
		if !ok {
			continue
		}
		x, _ := strconv.ParseFloat(m[1], 64)
		y, _ := strconv.ParseFloat(m[2], 64)
		centers[id] = center{x, y}
		if y > maxY {
			maxY = y
		}
	}

	placed := make([]view.PlacedNode, 0, len(centers))
	for _, n := range nodes {
		c, ok := centers[n.ID]
		if !ok {
			continue
		}
		placed = append(placed, view.PlacedNode{
			ID: n.ID,
			X:  c.x - n.Width/2,
			Y:  (maxY - c.y) - n.Height/2,
		})
	}
	return placed
}

// statementNodeID finds which node a DOT statement declares. Edge statements
// also carry pos attributes, so the statement must start with exactly one
// known node id and no edge operator.
func statementNodeID(stmt string, specs map[string]view.NodeSpec) (string, bool) {
	head := stmt
	if i := strings.IndexByte(head, '['); i >= 0 {
		head = head[:i]
	}
	// Splitting on ';' leaves the graph header ("digraph G {") glued to the
	// first statement; only the text after the last brace or newline names
	// the node.
	if i := strings.LastIndexByte(head, '{'); i >= 0 {
		head = head[i+1:]
	}
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[i+1:]
	}
	if strings.Contains(head, "->") {
		return "", false
	}
	head = strings.Trim(strings.TrimSpace(head), `"`)
	_, ok := specs[head]
	return head, ok
}

// Ensure Engine implements the layout contract.
var _ view.Engine = (*Engine)(nil)

// =============================================================================
// Export
// =============================================================================

// categoryFill maps analyzer category strings to fill colors for exports.
// Unlisted categories fall back to white.
var categoryFill = map[string]string{
	"ios-client":     "#cde8ff",
	"android-client": "#cde8ff",
	"mobile-client":  "#cde8ff",
	"watch-app":      "#cde8ff",
	"web-client":     "#d7f5dd",
	"desktop-app":    "#d7f5dd",
	"cli-tool":       "#d7f5dd",
	"api-server":     "#ffe7c2",
	"service":        "#ffe7c2",
	"library":        "#eee6ff",
	"infrastructure": "#eee6ff",
}

// ToDOT serializes a routed view as DOT for external tooling or rendering.
// Communication edges are dashed with their protocol label; structural edges
// are plain. De-emphasized elements are greyed out.
func ToDOT(nodes []view.Node, edges []view.Edge) string {
	var buf bytes.Buffer
	buf.WriteString("digraph architecture {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n))}
		if fill, ok := categoryFill[n.Type]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
		}
		if !n.Emphasized {
			attrs = append(attrs, "color=grey", "fontcolor=grey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		var attrs []string
		if e.Communication {
			attrs = append(attrs, "style=dashed")
			if e.Protocol != "" {
				attrs = append(attrs, fmt.Sprintf("label=%q", e.Protocol))
			}
		}
		if e.Bidirectional {
			attrs = append(attrs, "dir=both")
		}
		if !e.Emphasized {
			attrs = append(attrs, "color=grey")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n view.Node) string {
	if n.FileCount > 0 {
		return fmt.Sprintf("%s\n%s · %d files", n.Name, n.Type, n.FileCount)
	}
	return fmt.Sprintf("%s\n%s", n.Name, n.Type)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
