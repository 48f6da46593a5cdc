package view

import (
	"context"
	"fmt"

	"archview/pkg/model"
)

// =============================================================================
// Layout Contract
// =============================================================================

// Direction is the primary flow direction requested from a layout engine.
type Direction string

const (
	// DirectionDown lays ranks out top to bottom.
	DirectionDown Direction = "DOWN"
	// DirectionRight lays ranks out left to right.
	DirectionRight Direction = "RIGHT"
)

// NodeSpec describes one node handed to a layout engine.
type NodeSpec struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Priority hints the engine's layering: higher values should be placed
	// earlier (closer to the flow origin) where the engine supports it.
	Priority int `json:"priority"`
}

// EdgeSpec describes one edge handed to a layout engine.
type EdgeSpec struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// PlacedNode is a node position returned by a layout engine.
type PlacedNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Engine is the contract the coordinator expects from an external layout
// algorithm. The engine may reorder or omit nodes; callers must tolerate
// both. Implementations are expected to be slow - the coordinator always
// calls Layout off the event goroutine.
type Engine interface {
	Layout(ctx context.Context, nodes []NodeSpec, edges []EdgeSpec, dir Direction) ([]PlacedNode, error)
}

// =============================================================================
// Positioned View Types
// =============================================================================

// Position is a node's top-left corner in layout coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a visible, positioned component. Nodes are recomputed fully on
// every change to the visible set and are never persisted.
type Node struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category model.Category `json:"-"`
	Type     string         `json:"type"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Position Position       `json:"position"`
	// Priority is the layout hint rank assigned before the engine call.
	Priority int `json:"priority"`
	// FileCount and ChildCount feed label/metric display in the renderer.
	FileCount  int `json:"file_count"`
	ChildCount int `json:"child_count"`
	// HasSubstructure marks the node as drillable.
	HasSubstructure bool `json:"has_substructure"`
	// Emphasized is false when a selection de-emphasizes this node.
	Emphasized bool `json:"emphasized"`
}

// Anchor is the side of a node box where an edge attaches.
type Anchor string

const (
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
)

// Edge is a visible, routed relationship between two visible nodes.
type Edge struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Target       string     `json:"target"`
	Kind         model.Kind `json:"-"`
	Type         string     `json:"type"`
	Label        string     `json:"label,omitempty"`
	Protocol     string     `json:"protocol,omitempty"`
	SourceAnchor Anchor     `json:"source_anchor"`
	TargetAnchor Anchor     `json:"target_anchor"`
	// Communication edges get an animated/dashed treatment in renderers;
	// structural edges a plain solid line.
	Communication bool `json:"communication"`
	Bidirectional bool `json:"bidirectional,omitempty"`
	Emphasized    bool `json:"emphasized"`
}

// Box is an axis-aligned node rectangle used by the edge router.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// Center returns the box's center point.
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// BoxOf returns the current bounding box of a node.
func BoxOf(n *Node) Box {
	return Box{X: n.Position.X, Y: n.Position.Y, Width: n.Width, Height: n.Height}
}

// edgeID builds a stable edge identifier. The ordinal disambiguates
// duplicate relationships sharing endpoints and kind.
func edgeID(r *model.Relationship, ordinal int) string {
	return fmt.Sprintf("%s->%s:%s:%d", r.Source, r.Target, r.Type, ordinal)
}

// =============================================================================
// Breadcrumbs
// =============================================================================

// Breadcrumb is one entry of the root-to-drill-target trail.
type Breadcrumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ViewState is the session-lifetime navigation state. It is mutated only
// through Navigator operations; callers receive copies.
type ViewState struct {
	DrillTarget string       `json:"drill_target,omitempty"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs,omitempty"`
	SelectedID  string       `json:"selected_id,omitempty"`
}
