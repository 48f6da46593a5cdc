package dot

import (
	"strings"
	"testing"

	"archview/pkg/view"
)

func TestSpecsToDOT(t *testing.T) {
	nodes := []view.NodeSpec{
		{ID: "web", Width: 144, Height: 72},
		{ID: "api", Width: 144, Height: 72},
	}
	edges := []view.EdgeSpec{{ID: "e", Source: "web", Target: "api"}}

	src := specsToDOT(nodes, edges, view.DirectionDown)
	for _, want := range []string{
		"rankdir=TB",
		`"web" [width=2.000, height=1.000];`,
		`"web" -> "api";`,
		"fixedsize=true",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q:\n%s", want, src)
		}
	}

	src = specsToDOT(nodes, edges, view.DirectionRight)
	if !strings.Contains(src, "rankdir=LR") {
		t.Errorf("right direction should emit rankdir=LR:\n%s", src)
	}
}

func TestParsePositions(t *testing.T) {
	nodes := []view.NodeSpec{
		{ID: "a", Width: 100, Height: 50},
		{ID: "b", Width: 100, Height: 50},
	}
	// Node statements with centers; edge statement must be ignored even
	// though it carries a pos attribute.
	xdot := `digraph G {
	"a" [pos="50,200", width="1.39"];
	"b" [pos="50,50", width="1.39"];
	"a" -> "b" [pos="e,50,75 50,175"];
}`

	placed := parsePositions(xdot, nodes)
	if len(placed) != 2 {
		t.Fatalf("placed %d nodes, want 2", len(placed))
	}

	byID := map[string]view.PlacedNode{}
	for _, p := range placed {
		byID[p.ID] = p
	}

	// Graphviz y grows upward: the node with the larger y lands on top.
	a, b := byID["a"], byID["b"]
	if a.Y >= b.Y {
		t.Errorf("y axis not flipped: a=%v b=%v", a, b)
	}
	// Centers converted to top-left corners.
	if a.X != 0 {
		t.Errorf("a.X = %v, want 0 (center 50 minus half width)", a.X)
	}
}

func TestParsePositionsOmitsUnknownNodes(t *testing.T) {
	nodes := []view.NodeSpec{{ID: "a", Width: 100, Height: 50}}
	xdot := `"ghost" [pos="10,10"]; "a" [pos="30,40"];`
	placed := parsePositions(xdot, nodes)
	if len(placed) != 1 || placed[0].ID != "a" {
		t.Errorf("placed = %v, want only a", placed)
	}
}

func TestToDOT(t *testing.T) {
	nodes := []view.Node{
		{ID: "web", Name: "Web", Type: "web-client", FileCount: 12, Emphasized: true},
		{ID: "api", Name: "API", Type: "api-server", Emphasized: false},
	}
	edges := []view.Edge{
		{ID: "e1", Source: "web", Target: "api", Communication: true, Protocol: "REST", Emphasized: true},
		{ID: "e2", Source: "api", Target: "web", Communication: false, Bidirectional: true, Emphasized: false},
	}

	src := ToDOT(nodes, edges)

	for _, want := range []string{
		"digraph architecture",
		`fillcolor="#d7f5dd"`, // web-client fill
		"12 files",
		"style=dashed",
		`label="REST"`,
		"dir=both",
		"color=grey", // de-emphasized node and edge
	} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q:\n%s", want, src)
		}
	}

	// Structural edges are not dashed.
	for _, line := range strings.Split(src, "\n") {
		if strings.Contains(line, `"api" -> "web"`) && strings.Contains(line, "dashed") {
			t.Errorf("structural edge rendered dashed: %s", line)
		}
	}
}

func TestStatementNodeID(t *testing.T) {
	specs := map[string]view.NodeSpec{"a": {ID: "a"}, "b": {ID: "b"}}

	tests := []struct {
		stmt   string
		wantID string
		wantOK bool
	}{
		{`"a" [pos="1,2"]`, "a", true},
		{`	b [pos="1,2"]`, "b", true},
		{`"a" -> "b" [pos="1,2"]`, "", false},
		{`"ghost" [pos="1,2"]`, "", false},
	}
	for _, tt := range tests {
		id, ok := statementNodeID(tt.stmt, specs)
		if ok != tt.wantOK || (ok && id != tt.wantID) {
			t.Errorf("statementNodeID(%q) = (%q, %v), want (%q, %v)",
				tt.stmt, id, ok, tt.wantID, tt.wantOK)
		}
	}
}
