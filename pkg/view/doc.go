// Package view is the graph view-model engine: it decides which components
// of an architecture snapshot become visible nodes at any navigation depth,
// which relationships become visible edges, where nodes are positioned, and
// which side of each node an edge attaches to.
//
// # Components
//
//   - [TopLevel]: flattens the component tree into the top-level node set,
//     classifying categories into client/server/other tiers
//   - [Navigator]: the drill-down state machine with breadcrumb trail and
//     hero promotion
//   - [VisibleRelationships]: projects the relationship list onto the
//     visible id set
//   - [Coordinator]: feeds visible nodes/edges to an external layout
//     [Engine] asynchronously and reconciles positions back, suppressing
//     stale results with a monotonic generation counter
//   - [ChooseAnchors], [RouteAll], [RouteNode]: per-edge anchor geometry,
//     recomputed globally after layout and incrementally on drag
//   - [View]: the composition the renderer consumes
//
// # Concurrency
//
// The engine is single-threaded and event-driven: navigation actions and
// layout completions are processed sequentially. The only suspension point
// is the layout engine call, which runs on its own goroutine; its result is
// applied under the coordinator's lock, and only if no newer request was
// initiated since. Renderer-facing arrays are swapped atomically once a
// layout fully resolves - partial states are never exposed.
//
// # Error Handling
//
// Malformed but structurally valid input degrades to a smaller or empty
// result. Unknown component ids resolve to "not found", relationships with
// invisible endpoints are dropped, and a breadcrumb search for a missing id
// yields an empty trail. Layout engine failures are reported to the caller
// and never corrupt the navigation state.
package view
