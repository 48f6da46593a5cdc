package view

import "archview/pkg/model"

// DeclutterFileMin is the file-count threshold below which a childless
// non-hero component is hidden from a hero-dominated drill view.
const DeclutterFileMin = 10

// Navigator is the drill-down state machine. It owns the session's ViewState
// and is the only way to mutate it: every operation is a single atomic state
// transition on the event goroutine.
//
// The two states are Top (no drill target, the flattened top-level set is
// visible) and Drilled (a component's substructure is visible). Breadcrumbs
// always hold the root-to-target path, rebuilt by a depth-first search on
// each drill - the component tree itself carries no parent pointers.
type Navigator struct {
	snap  *model.Snapshot
	state ViewState
}

// NewNavigator creates a navigator over a snapshot, starting at Top.
func NewNavigator(snap *model.Snapshot) *Navigator {
	if snap == nil {
		snap = model.NewSnapshot(nil)
	}
	return &Navigator{snap: snap}
}

// State returns a copy of the current view state.
func (n *Navigator) State() ViewState {
	st := n.state
	st.Breadcrumbs = append([]Breadcrumb(nil), n.state.Breadcrumbs...)
	return st
}

// IsDrilled reports whether a drill target is active.
func (n *Navigator) IsDrilled() bool { return n.state.DrillTarget != "" }

// SelectComponent records the selection without changing the drill target.
// Selecting an unknown id clears the selection.
func (n *Navigator) SelectComponent(id string) {
	if _, ok := n.snap.Component(id); !ok {
		n.state.SelectedID = ""
		return
	}
	n.state.SelectedID = id
}

// ClearSelection removes any active selection.
func (n *Navigator) ClearSelection() { n.state.SelectedID = "" }

// DrillInto narrows the view to a component's substructure. Components
// without substructure are not drillable; the call is a no-op for them and
// for unknown ids. Drilling clears the selection and rebuilds breadcrumbs
// from a single root-to-target search.
func (n *Navigator) DrillInto(id string) {
	c, ok := n.snap.Component(id)
	if !ok || !c.HasSubstructure() {
		return
	}
	n.state.DrillTarget = c.ID
	n.state.SelectedID = ""
	n.state.Breadcrumbs = n.trailTo(c.ID)
}

// DrillUp moves one level toward the root. At depth one (or with an empty
// trail) it returns to Top.
func (n *Navigator) DrillUp() {
	if len(n.state.Breadcrumbs) <= 1 {
		n.reset()
		return
	}
	trail := n.state.Breadcrumbs[:len(n.state.Breadcrumbs)-1]
	n.state.Breadcrumbs = trail
	n.state.DrillTarget = trail[len(trail)-1].ID
	n.state.SelectedID = ""
}

// JumpToBreadcrumb truncates the trail to the given index and drills there.
// A negative index resets to Top; an index past the end is a no-op.
func (n *Navigator) JumpToBreadcrumb(index int) {
	if index < 0 {
		n.reset()
		return
	}
	if index >= len(n.state.Breadcrumbs) {
		return
	}
	n.state.Breadcrumbs = n.state.Breadcrumbs[:index+1]
	n.state.DrillTarget = n.state.Breadcrumbs[index].ID
	n.state.SelectedID = ""
}

func (n *Navigator) reset() {
	n.state.DrillTarget = ""
	n.state.Breadcrumbs = nil
	n.state.SelectedID = ""
}

// trailTo builds the breadcrumb trail for a target id. An id absent from the
// tree yields an empty trail, which renders as a root-level drill rather
// than an error.
func (n *Navigator) trailTo(id string) []Breadcrumb {
	path := n.snap.PathTo(id)
	if path == nil {
		return nil
	}
	trail := make([]Breadcrumb, len(path))
	for i, c := range path {
		trail[i] = Breadcrumb{ID: c.ID, Name: c.DisplayName(), Type: c.Type}
	}
	return trail
}

// Visible computes the component set for the current state: the flattened
// top-level set at Top, the promoted substructure when drilled.
func (n *Navigator) Visible() []*model.Component {
	if n.state.DrillTarget == "" {
		return TopLevel(n.snap)
	}
	target, ok := n.snap.Component(n.state.DrillTarget)
	if !ok {
		return TopLevel(n.snap)
	}
	return DrilledVisible(target)
}

// DrilledVisible computes the visible set inside one drilled component.
//
// Children that are hero categories stay as-is. A non-hero child is searched
// for hero descendants: if any exist they replace the child, and the child's
// other substantial non-hero children are kept as siblings so surrounding
// context survives the promotion; a child with no hero descendants is kept
// unchanged. Content components are always excluded. Finally, when the
// resulting view contains a hero, small childless non-hero leftovers are
// dropped unless their category is flagged always-show.
func DrilledVisible(target *model.Component) []*model.Component {
	children := target.Children
	if len(children) == 0 {
		// Leaf with files only: the component itself is the view.
		children = []*model.Component{target}
	}

	var visible []*model.Component
	for _, child := range children {
		visible = append(visible, promoteChild(child)...)
	}

	visible = excludeContent(visible)
	return declutter(visible)
}

// promoteChild applies the hero promotion rule to one direct child.
func promoteChild(child *model.Component) []*model.Component {
	if child.Category().IsHero() {
		return []*model.Component{child}
	}

	heroes := heroDescendants(child)
	if len(heroes) == 0 {
		return []*model.Component{child}
	}

	out := heroes
	for _, sibling := range child.Children {
		if sibling.Category().IsHero() {
			continue // already promoted
		}
		if len(heroDescendants(sibling)) > 0 {
			continue // consumed wrapper, its heroes are promoted above
		}
		if sibling.HasSubstructure() {
			out = append(out, sibling)
		}
	}
	return out
}

// heroDescendants collects hero-category components in a subtree. The search
// does not descend below a found hero - its substructure belongs to a deeper
// drill level - but explores non-hero chains without a depth limit.
func heroDescendants(c *model.Component) []*model.Component {
	var out []*model.Component
	for _, child := range c.Children {
		if child.Category().IsHero() {
			out = append(out, child)
			continue
		}
		out = append(out, heroDescendants(child)...)
	}
	return out
}

func excludeContent(comps []*model.Component) []*model.Component {
	var out []*model.Component
	for _, c := range comps {
		if !c.Category().IsContent() {
			out = append(out, c)
		}
	}
	return out
}

// declutter hides small childless non-hero items from hero-dominated views.
// Always-show categories (cross-cutting libraries, infrastructure) survive.
func declutter(comps []*model.Component) []*model.Component {
	hasHero := false
	for _, c := range comps {
		if c.Category().IsHero() {
			hasHero = true
			break
		}
	}
	if !hasHero {
		return comps
	}

	var out []*model.Component
	for _, c := range comps {
		cat := c.Category()
		if !cat.IsHero() && !cat.IsAlwaysShow() &&
			len(c.Children) == 0 && c.FileCount() < DeclutterFileMin {
			continue
		}
		out = append(out, c)
	}
	return out
}
