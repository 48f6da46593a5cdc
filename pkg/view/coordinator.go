package view

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"archview/pkg/cache"
	"archview/pkg/model"
	"archview/pkg/observability"
)

// Default node box dimensions handed to the layout engine. Width stretches
// with the label so long component names don't overflow their boxes.
const (
	defaultNodeHeight = 64.0
	minNodeWidth      = 120.0
	maxNodeWidth      = 260.0
	perRuneWidth      = 9.0

	// Grid seeding for pre-layout positions.
	gridColumns = 4
	gridXGap    = 300.0
	gridYGap    = 120.0
)

// DefaultFitDelay debounces the fit-viewport side effect after layouts.
const DefaultFitDelay = 150 * time.Millisecond

// CoordinatorOptions configures a Coordinator.
type CoordinatorOptions struct {
	// Engine computes node positions. Required.
	Engine Engine

	// Cache stores layout results keyed by visible-set content hash.
	// Nil disables caching.
	Cache cache.Cache

	// Logger receives debug/info events. Nil means log.Default().
	Logger *log.Logger

	// Direction is the requested flow direction. Empty means DirectionDown.
	Direction Direction

	// FitDelay debounces OnFit. Zero means DefaultFitDelay.
	FitDelay time.Duration

	// OnFit is called (debounced) after positions are applied, to let the
	// renderer fit its viewport. Optional.
	OnFit func()

	// OnUpdate is called after the published node/edge arrays are swapped.
	// Optional; used by push transports and TUIs to redraw.
	OnUpdate func()

	// OnError receives layout engine failures. The published view is left
	// untouched on failure; the callback decides any fallback. Optional.
	OnError func(error)
}

// Coordinator feeds visible nodes and edges to the layout engine and
// reconciles positions back onto the node set.
//
// The engine call is asynchronous and potentially slow. Every Refresh bumps
// a monotonic generation counter; a completed layout is applied only when
// its generation still matches, so the result of a superseded request can
// never overwrite a newer view. There is no cancel primitive for the engine
// itself - stale results are suppressed at this boundary.
//
// The renderer-facing arrays are swapped atomically under the coordinator's
// lock only once a layout fully resolves; intermediate states are never
// published.
type Coordinator struct {
	mu        sync.Mutex
	opts      CoordinatorOptions
	logger    *log.Logger
	gen       uint64
	nodes     []*Node
	edges     []*Edge
	nodeIndex map[string]*Node
	selected  string
	fitTimer  *time.Timer
}

// NewCoordinator creates a coordinator. Engine must be non-nil.
func NewCoordinator(opts CoordinatorOptions) *Coordinator {
	if opts.Direction == "" {
		opts.Direction = DirectionDown
	}
	if opts.FitDelay == 0 {
		opts.FitDelay = DefaultFitDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		opts:      opts,
		logger:    logger,
		nodeIndex: make(map[string]*Node),
	}
}

// Nodes returns value copies of the published nodes.
func (c *Coordinator) Nodes() []Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Node, len(c.nodes))
	for i, n := range c.nodes {
		out[i] = *n
	}
	return out
}

// Edges returns value copies of the published edges.
func (c *Coordinator) Edges() []Edge {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Edge, len(c.edges))
	for i, e := range c.edges {
		out[i] = *e
	}
	return out
}

// Refresh rebuilds the node/edge set for a new visible component list and
// kicks off an asynchronous layout. The currently published view stays
// visible until the new layout resolves.
func (c *Coordinator) Refresh(ctx context.Context, comps []*model.Component, rels []*model.Relationship) {
	nodes := buildNodes(comps)
	edges := buildEdges(rels)

	c.mu.Lock()
	// Carry positions over for nodes that survive the change, so the layout
	// engine race fallback (merge by id) has something sensible to keep.
	for _, n := range nodes {
		if prev, ok := c.nodeIndex[n.ID]; ok {
			n.Position = prev.Position
		}
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	nodeSpecs := make([]NodeSpec, len(nodes))
	for i, n := range nodes {
		nodeSpecs[i] = NodeSpec{ID: n.ID, Width: n.Width, Height: n.Height, Priority: n.Priority}
	}
	edgeSpecs := make([]EdgeSpec, len(edges))
	for i, e := range edges {
		edgeSpecs[i] = EdgeSpec{ID: e.ID, Source: e.Source, Target: e.Target}
	}

	observability.View().OnLayoutStart(ctx, gen, len(nodes), len(edges))
	c.logger.Debug("layout requested", "generation", gen, "nodes", len(nodes), "edges", len(edges))

	go c.compute(ctx, gen, nodes, edges, nodeSpecs, edgeSpecs)
}

// compute runs the engine call (with caching) and applies the result if the
// request is still current.
func (c *Coordinator) compute(ctx context.Context, gen uint64, nodes []*Node, edges []*Edge, nodeSpecs []NodeSpec, edgeSpecs []EdgeSpec) {
	start := time.Now()

	placed, err := c.layoutWithCache(ctx, nodeSpecs, edgeSpecs)
	if err != nil {
		observability.View().OnLayoutComplete(ctx, gen, false, time.Since(start), err)
		c.logger.Error("layout failed", "generation", gen, "err", err)
		if c.opts.OnError != nil {
			c.opts.OnError(err)
		}
		return
	}

	applied := c.apply(gen, nodes, edges, placed)
	observability.View().OnLayoutComplete(ctx, gen, applied, time.Since(start), nil)
	if !applied {
		c.logger.Debug("stale layout discarded", "generation", gen)
	}
}

// layoutWithCache consults the cache before delegating to the engine.
func (c *Coordinator) layoutWithCache(ctx context.Context, nodeSpecs []NodeSpec, edgeSpecs []EdgeSpec) ([]PlacedNode, error) {
	if c.opts.Cache == nil {
		return c.opts.Engine.Layout(ctx, nodeSpecs, edgeSpecs, c.opts.Direction)
	}

	key := cache.Key("layout", nodeSpecs, edgeSpecs, c.opts.Direction)
	if data, hit, err := c.opts.Cache.Get(ctx, key); err == nil && hit {
		var placed []PlacedNode
		if err := json.Unmarshal(data, &placed); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return placed, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	placed, err := c.opts.Engine.Layout(ctx, nodeSpecs, edgeSpecs, c.opts.Direction)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(placed); err == nil {
		_ = c.opts.Cache.Set(ctx, key, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return placed, nil
}

// apply merges positions by id and publishes the new view, unless a newer
// request was initiated in the meantime. Nodes the engine omitted keep their
// prior (seeded or carried-over) positions rather than erroring.
func (c *Coordinator) apply(gen uint64, nodes []*Node, edges []*Edge, placed []PlacedNode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false
	}

	index := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		index[n.ID] = n
	}
	for _, p := range placed {
		if n, ok := index[p.ID]; ok {
			n.Position = Position{X: p.X, Y: p.Y}
		}
	}

	RouteAll(index, edges)

	// Rebuilt nodes start fully emphasized; a selection made while the
	// layout was in flight must survive the swap.
	ApplyEmphasis(nodes, edges, c.selected)

	c.nodes = nodes
	c.edges = edges
	c.nodeIndex = index

	c.scheduleFitLocked()

	if c.opts.OnUpdate != nil {
		go c.opts.OnUpdate()
	}
	return true
}

// scheduleFitLocked (re)arms the debounced fit-viewport callback.
// Callers must hold c.mu.
func (c *Coordinator) scheduleFitLocked() {
	if c.opts.OnFit == nil {
		return
	}
	if c.fitTimer != nil {
		c.fitTimer.Stop()
	}
	c.fitTimer = time.AfterFunc(c.opts.FitDelay, c.opts.OnFit)
}

// DragNode moves one node and re-routes only the edges touching it.
// Full layout is not re-run.
func (c *Coordinator) DragNode(id string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.nodeIndex[id]
	if !ok {
		return
	}
	n.Position = Position{X: x, Y: y}
	RouteNode(c.nodeIndex, c.edges, id)
}

// SetEmphasis applies selection emphasis over the published view using the
// current edge list. The selection is remembered so layouts that resolve
// later re-apply it instead of publishing everything fully emphasized.
func (c *Coordinator) SetEmphasis(selectedID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = selectedID
	ApplyEmphasis(c.nodes, c.edges, selectedID)
}

// Close stops the pending fit timer.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fitTimer != nil {
		c.fitTimer.Stop()
		c.fitTimer = nil
	}
}

// =============================================================================
// Node/Edge Construction
// =============================================================================

// buildNodes converts visible components into layout nodes: sorted by the
// category priority table (stable, so depth-first discovery order breaks
// ties), annotated with a descending priority rank, and seeded with grid
// positions as the pre-layout fallback.
func buildNodes(comps []*model.Component) []*Node {
	sorted := make([]*model.Component, len(comps))
	copy(sorted, comps)
	slices.SortStableFunc(sorted, func(a, b *model.Component) int {
		return b.Category().Priority() - a.Category().Priority()
	})

	nodes := make([]*Node, len(sorted))
	for i, comp := range sorted {
		nodes[i] = &Node{
			ID:              comp.ID,
			Name:            comp.DisplayName(),
			Category:        comp.Category(),
			Type:            comp.Type,
			Width:           nodeWidth(comp.DisplayName()),
			Height:          defaultNodeHeight,
			Position:        gridPosition(i),
			Priority:        len(sorted) - i,
			FileCount:       comp.FileCount(),
			ChildCount:      len(comp.Children),
			HasSubstructure: comp.HasSubstructure(),
			Emphasized:      true,
		}
	}
	return nodes
}

// buildEdges converts visible relationships into unrouted edges. The ordinal
// in the edge id disambiguates duplicates sharing endpoints and kind.
func buildEdges(rels []*model.Relationship) []*Edge {
	seen := make(map[string]int)
	edges := make([]*Edge, len(rels))
	for i, r := range rels {
		key := r.Source + "\x00" + r.Target + "\x00" + r.Type
		ordinal := seen[key]
		seen[key] = ordinal + 1

		kind := r.Kind()
		edges[i] = &Edge{
			ID:            edgeID(r, ordinal),
			Source:        r.Source,
			Target:        r.Target,
			Kind:          kind,
			Type:          r.Type,
			Label:         r.Label,
			Protocol:      r.Protocol,
			Communication: kind.IsCommunication(),
			Bidirectional: r.Bidirectional,
			Emphasized:    true,
		}
	}
	return edges
}

func nodeWidth(name string) float64 {
	w := minNodeWidth + perRuneWidth*float64(len([]rune(name)))
	if w > maxNodeWidth {
		return maxNodeWidth
	}
	return w
}

func gridPosition(i int) Position {
	return Position{
		X: float64(i%gridColumns) * gridXGap,
		Y: float64(i/gridColumns) * gridYGap,
	}
}
