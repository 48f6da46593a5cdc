package view

import "math"

// ChooseAnchors picks the directional anchor pair for an edge between two
// node boxes. The choice is a pure function of the center delta: when the
// horizontal distance dominates (ties included), the edge leaves the source's
// right side toward the target's left side (or the mirror pair); otherwise
// it runs vertically.
func ChooseAnchors(src, dst Box) (sourceAnchor, targetAnchor Anchor) {
	sx, sy := src.Center()
	tx, ty := dst.Center()
	dx := tx - sx
	dy := ty - sy

	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return AnchorRight, AnchorLeft
		}
		return AnchorLeft, AnchorRight
	}
	if dy >= 0 {
		return AnchorBottom, AnchorTop
	}
	return AnchorTop, AnchorBottom
}

// RouteAll recomputes anchors for every edge from the current node boxes.
// Edges whose endpoints are missing from the node map are left untouched;
// they will be dropped on the next visible-set change.
func RouteAll(nodes map[string]*Node, edges []*Edge) {
	for _, e := range edges {
		routeEdge(nodes, e)
	}
}

// RouteNode recomputes anchors only for edges touching the given node.
// This runs on every drag step, so full layout must not be re-run here.
func RouteNode(nodes map[string]*Node, edges []*Edge, id string) {
	for _, e := range edges {
		if e.Source == id || e.Target == id {
			routeEdge(nodes, e)
		}
	}
}

func routeEdge(nodes map[string]*Node, e *Edge) {
	src, ok := nodes[e.Source]
	if !ok {
		return
	}
	dst, ok := nodes[e.Target]
	if !ok {
		return
	}
	e.SourceAnchor, e.TargetAnchor = ChooseAnchors(BoxOf(src), BoxOf(dst))
}

// ApplyEmphasis marks the selected node, its neighbors over the current edge
// list, and the edges between them as emphasized; everything else is
// de-emphasized. An empty selection restores full emphasis. The neighbor set
// is computed from the edges as they are - no recomputation of the visible
// set happens here.
func ApplyEmphasis(nodes []*Node, edges []*Edge, selectedID string) {
	if selectedID == "" {
		for _, n := range nodes {
			n.Emphasized = true
		}
		for _, e := range edges {
			e.Emphasized = true
		}
		return
	}

	keep := map[string]bool{selectedID: true}
	for _, e := range edges {
		if e.Source == selectedID {
			keep[e.Target] = true
		}
		if e.Target == selectedID {
			keep[e.Source] = true
		}
	}

	for _, n := range nodes {
		n.Emphasized = keep[n.ID]
	}
	for _, e := range edges {
		e.Emphasized = e.Source == selectedID || e.Target == selectedID
	}
}
