// Package layered provides the built-in layered layout engine.
//
// The engine assigns nodes to ranks with a longest-path layering (topological
// traversal), reduces edge crossings with barycenter sweeps, and places
// ranks on a fixed grid. It implements the [view.Engine] contract and is the
// default engine for CLI and TUI usage, where a local, dependency-free
// layout is preferable to spawning graphviz.
package layered

import (
	"context"
	"slices"

	"archview/pkg/view"
)

// Spacing between placed node boxes.
const (
	rankGap = 140.0
	nodeGap = 60.0

	// barycenterSweeps bounds the ordering refinement passes. Two down-up
	// rounds reach a fixed point on the small graphs a drill level produces.
	barycenterSweeps = 4
)

// Engine is the built-in layered layout engine. The zero value is ready to
// use; it holds no state between calls and is safe for concurrent use.
type Engine struct{}

// New creates a layered engine.
func New() *Engine { return &Engine{} }

// Layout computes positions for the given nodes. Edges referencing unknown
// node ids are ignored. Cycles are tolerated: back edges discovered during
// the traversal simply don't constrain ranks.
func (e *Engine) Layout(ctx context.Context, nodes []view.NodeSpec, edges []view.EdgeSpec, dir view.Direction) ([]view.PlacedNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := build(nodes, edges)
	g.assignRanks()
	g.orderRanks()
	return g.place(dir), nil
}

// graph is the engine's working representation.
type graph struct {
	specs    []view.NodeSpec
	index    map[string]int // id -> specs index
	children map[int][]int
	parents  map[int][]int
	rank     []int
	ranks    [][]int // rank -> ordered spec indices
}

func build(nodes []view.NodeSpec, edges []view.EdgeSpec) *graph {
	g := &graph{
		specs:    nodes,
		index:    make(map[string]int, len(nodes)),
		children: make(map[int][]int),
		parents:  make(map[int][]int),
		rank:     make([]int, len(nodes)),
	}
	for i, n := range nodes {
		g.index[n.ID] = i
	}
	for _, e := range edges {
		src, ok := g.index[e.Source]
		if !ok {
			continue
		}
		dst, ok := g.index[e.Target]
		if !ok || src == dst {
			continue
		}
		g.children[src] = append(g.children[src], dst)
		g.parents[dst] = append(g.parents[dst], src)
	}
	return g
}

// assignRanks computes a longest-path layering via topological traversal:
// every node lands one rank below its deepest parent, sources at rank 0.
// Nodes on cycles never reach zero in-degree and keep their default rank.
// Higher-priority sources are not forced upward here; priority is handled
// by in-rank ordering.
func (g *graph) assignRanks() {
	inDegree := make([]int, len(g.specs))
	queue := make([]int, 0, len(g.specs))

	for i := range g.specs {
		inDegree[i] = len(g.parents[i])
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.children[curr] {
			if r := g.rank[curr] + 1; r > g.rank[child] {
				g.rank[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	maxRank := 0
	for _, r := range g.rank {
		if r > maxRank {
			maxRank = r
		}
	}
	g.ranks = make([][]int, maxRank+1)
	for i, r := range g.rank {
		g.ranks[r] = append(g.ranks[r], i)
	}
}

// orderRanks seeds each rank by descending priority (the coordinator's
// category ordering) and refines with alternating barycenter sweeps to
// reduce edge crossings.
func (g *graph) orderRanks() {
	for _, rank := range g.ranks {
		slices.SortStableFunc(rank, func(a, b int) int {
			return g.specs[b].Priority - g.specs[a].Priority
		})
	}

	for sweep := 0; sweep < barycenterSweeps; sweep++ {
		if sweep%2 == 0 {
			for r := 1; r < len(g.ranks); r++ {
				g.sortByBarycenter(r, g.parents)
			}
		} else {
			for r := len(g.ranks) - 2; r >= 0; r-- {
				g.sortByBarycenter(r, g.children)
			}
		}
	}
}

// sortByBarycenter reorders one rank by the mean position of each node's
// neighbors in the adjacent rank. Nodes without neighbors keep their
// relative order.
func (g *graph) sortByBarycenter(r int, adjacency map[int][]int) {
	pos := make(map[int]int)
	for _, rank := range g.ranks {
		for p, idx := range rank {
			pos[idx] = p
		}
	}

	bary := make(map[int]float64, len(g.ranks[r]))
	for _, idx := range g.ranks[r] {
		neighbors := adjacency[idx]
		if len(neighbors) == 0 {
			bary[idx] = float64(pos[idx])
			continue
		}
		sum := 0.0
		for _, nb := range neighbors {
			sum += float64(pos[nb])
		}
		bary[idx] = sum / float64(len(neighbors))
	}

	slices.SortStableFunc(g.ranks[r], func(a, b int) int {
		switch {
		case bary[a] < bary[b]:
			return -1
		case bary[a] > bary[b]:
			return 1
		}
		return 0
	})
}

// place assigns coordinates: ranks along the flow axis, nodes packed and
// centered along the cross axis.
func (g *graph) place(dir view.Direction) []view.PlacedNode {
	// Widest rank extent, for centering.
	extent := func(rank []int) float64 {
		total := 0.0
		for _, idx := range rank {
			total += g.crossSize(idx, dir) + nodeGap
		}
		if total > 0 {
			total -= nodeGap
		}
		return total
	}

	maxExtent := 0.0
	for _, rank := range g.ranks {
		if e := extent(rank); e > maxExtent {
			maxExtent = e
		}
	}

	placed := make([]view.PlacedNode, 0, len(g.specs))
	flow := 0.0
	for _, rank := range g.ranks {
		cross := (maxExtent - extent(rank)) / 2
		depth := 0.0
		for _, idx := range rank {
			spec := g.specs[idx]
			if dir == view.DirectionRight {
				placed = append(placed, view.PlacedNode{ID: spec.ID, X: flow, Y: cross})
			} else {
				placed = append(placed, view.PlacedNode{ID: spec.ID, X: cross, Y: flow})
			}
			cross += g.crossSize(idx, dir) + nodeGap
			if d := g.flowSize(idx, dir); d > depth {
				depth = d
			}
		}
		flow += depth + rankGap
	}
	return placed
}

func (g *graph) crossSize(idx int, dir view.Direction) float64 {
	if dir == view.DirectionRight {
		return g.specs[idx].Height
	}
	return g.specs[idx].Width
}

func (g *graph) flowSize(idx int, dir view.Direction) float64 {
	if dir == view.DirectionRight {
		return g.specs[idx].Width
	}
	return g.specs[idx].Height
}

// Ensure Engine implements the layout contract.
var _ view.Engine = (*Engine)(nil)
