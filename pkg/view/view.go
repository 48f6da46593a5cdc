package view

import (
	"context"

	"archview/pkg/model"
	"archview/pkg/observability"
)

// View composes the flattener, navigator, relationship filter, coordinator
// and edge router into the surface the renderer consumes: positioned nodes,
// routed edges and the current view state, plus the navigation operations as
// callable actions.
//
// All navigation methods are single atomic transitions; the model is
// event-driven and cooperative, so no two may interleave mid-transition.
type View struct {
	snap  *model.Snapshot
	nav   *Navigator
	coord *Coordinator

	// onCenter pans the viewport to the selected node. Optional.
	onCenter func(id string)
}

// Options configures a View.
type Options struct {
	Coordinator CoordinatorOptions

	// OnCenter is called with the selected node id so the renderer can pan
	// (not re-layout) to it. Optional.
	OnCenter func(id string)
}

// New creates a view over a snapshot.
func New(snap *model.Snapshot, opts Options) *View {
	return &View{
		snap:     snap,
		nav:      NewNavigator(snap),
		coord:    NewCoordinator(opts.Coordinator),
		onCenter: opts.OnCenter,
	}
}

// Snapshot returns the underlying model snapshot.
func (v *View) Snapshot() *model.Snapshot { return v.snap }

// State returns a copy of the current view state.
func (v *View) State() ViewState { return v.nav.State() }

// Nodes returns value copies of the published, positioned nodes.
func (v *View) Nodes() []Node { return v.coord.Nodes() }

// Edges returns value copies of the published, routed edges.
func (v *View) Edges() []Edge { return v.coord.Edges() }

// Coordinator exposes the layout coordinator for drag handling.
func (v *View) Coordinator() *Coordinator { return v.coord }

// Refresh recomputes the visible set for the current navigation state and
// schedules an asynchronous layout. Call once after construction to produce
// the initial top-level view.
func (v *View) Refresh(ctx context.Context) {
	comps := v.nav.Visible()
	rels := VisibleRelationships(v.snap.Relationships(), VisibleIDSet(comps))
	// Navigation may have cleared the selection; the coordinator's
	// remembered selection has to match before the next layout lands.
	v.coord.SetEmphasis(v.nav.State().SelectedID)
	v.coord.Refresh(ctx, comps, rels)
}

// Select records the selection, de-emphasizes everything outside the
// selected node's neighborhood, and re-centers the viewport on it.
// The visible set is not recomputed.
func (v *View) Select(ctx context.Context, id string) {
	v.nav.SelectComponent(id)
	observability.View().OnNavigate(ctx, "select", id)

	selected := v.nav.State().SelectedID
	v.coord.SetEmphasis(selected)
	if selected != "" && v.onCenter != nil {
		v.onCenter(selected)
	}
}

// ClearSelection removes the selection and restores full emphasis.
func (v *View) ClearSelection(ctx context.Context) {
	v.nav.ClearSelection()
	v.coord.SetEmphasis("")
	observability.View().OnNavigate(ctx, "clear-selection", "")
}

// DrillInto narrows the view to a component's substructure and triggers a
// layout for the new visible set. Components without substructure are not
// drillable; the call is then a no-op.
func (v *View) DrillInto(ctx context.Context, id string) {
	before := v.nav.State().DrillTarget
	v.nav.DrillInto(id)
	if v.nav.State().DrillTarget == before {
		return
	}
	observability.View().OnNavigate(ctx, "drill-into", id)
	v.Refresh(ctx)
}

// DrillUp moves one level toward the root and triggers a layout.
func (v *View) DrillUp(ctx context.Context) {
	v.nav.DrillUp()
	observability.View().OnNavigate(ctx, "drill-up", v.nav.State().DrillTarget)
	v.Refresh(ctx)
}

// JumpToBreadcrumb truncates the trail to the given index and drills there.
// A negative index returns to the top level.
func (v *View) JumpToBreadcrumb(ctx context.Context, index int) {
	v.nav.JumpToBreadcrumb(index)
	observability.View().OnNavigate(ctx, "jump", v.nav.State().DrillTarget)
	v.Refresh(ctx)
}

// Close releases coordinator resources.
func (v *View) Close() { v.coord.Close() }
