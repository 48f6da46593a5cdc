package view

import "archview/pkg/model"

// MaxWrapperUnwrap is the default number of non-structural wrapper levels the
// top-level walk descends through looking for client/server candidates.
// Structural containers (repository/project) are recursed unconditionally and
// do not consume the budget.
const MaxWrapperUnwrap = 2

// TopLevel computes the components shown when no drill-down is active.
//
// Categories partition into three tiers: clients (always surfaced), servers
// (surfaced only when client-facing) and everything else (hidden at top
// level). Content components are excluded everywhere.
//
// # Algorithm
//
// TopLevel walks the tree depth-first:
//  1. Structural containers are recursed into unconditionally.
//  2. Client and server components are collected; recursion stops there -
//     their descendants belong to deeper drill levels.
//  3. Any other category is an opaque wrapper: recurse up to the unwrap
//     budget. Candidates found below are promoted and the wrapper discarded;
//     a wrapper yielding nothing is dropped from the top-level set.
//  4. A walk yielding zero candidates falls back to a one-level unwrap of
//     structural containers, so a non-empty tree always yields output.
//  5. Server candidates are kept only when client-facing: a relationship
//     with a client component anywhere in the tree on one end marks the
//     other end.
//  6. If clients and servers both exist but no server was marked (the
//     analyzer missed an indirect dependency), all servers are kept rather
//     than presenting clients with no destinations.
//
// Candidates preserve depth-first discovery order; no secondary sort is
// applied here. The function is pure and idempotent.
func TopLevel(snap *model.Snapshot) []*model.Component {
	return TopLevelWithBudget(snap, MaxWrapperUnwrap)
}

// TopLevelWithBudget is TopLevel with an explicit wrapper unwrap budget.
func TopLevelWithBudget(snap *model.Snapshot, unwrapBudget int) []*model.Component {
	if snap == nil {
		return nil
	}

	var candidates []*model.Component
	for _, root := range snap.Roots() {
		candidates = append(candidates, collectCandidates(root, unwrapBudget)...)
	}

	if len(candidates) == 0 {
		return fallbackTopLevel(snap)
	}

	clientFacing := clientFacingIDs(snap)

	hasClients := false
	hasServers := false
	markedServers := 0
	for _, c := range candidates {
		switch c.Category().Domain() {
		case model.DomainClient:
			hasClients = true
		case model.DomainServer:
			hasServers = true
			if clientFacing[c.ID] {
				markedServers++
			}
		}
	}

	// Safety net: clients with no reachable servers would render as a set of
	// disconnected sources, so keep all servers when none was marked.
	keepAllServers := hasClients && hasServers && markedServers == 0

	var out []*model.Component
	for _, c := range candidates {
		switch c.Category().Domain() {
		case model.DomainClient:
			out = append(out, c)
		case model.DomainServer:
			if keepAllServers || clientFacing[c.ID] {
				out = append(out, c)
			}
		}
	}
	return out
}

// collectCandidates walks one subtree collecting client/server candidates.
// budget counts remaining opaque-wrapper levels; structural containers are
// free to descend through.
func collectCandidates(c *model.Component, budget int) []*model.Component {
	cat := c.Category()
	switch {
	case cat.IsContent():
		return nil
	case cat.IsStructural():
		var out []*model.Component
		for _, child := range c.Children {
			out = append(out, collectCandidates(child, budget)...)
		}
		return out
	case cat.Domain() == model.DomainClient || cat.Domain() == model.DomainServer:
		return []*model.Component{c}
	default:
		if budget <= 0 {
			return nil
		}
		var out []*model.Component
		for _, child := range c.Children {
			out = append(out, collectCandidates(child, budget-1)...)
		}
		return out
	}
}

// fallbackTopLevel handles trees whose categories never match the domain
// taxonomy: structural roots are unwrapped one level, everything else is
// returned as-is. Content components stay excluded.
func fallbackTopLevel(snap *model.Snapshot) []*model.Component {
	var out []*model.Component
	for _, root := range snap.Roots() {
		if root.Category().IsContent() {
			continue
		}
		if root.Category().IsStructural() {
			for _, child := range root.Children {
				if !child.Category().IsContent() {
					out = append(out, child)
				}
			}
			continue
		}
		out = append(out, root)
	}
	return out
}

// clientFacingIDs marks every component that a client component anywhere in
// the tree communicates with. The client set is collected from the entire
// tree, not just top-level candidates, so a deeply nested client still marks
// its servers.
func clientFacingIDs(snap *model.Snapshot) map[string]bool {
	clients := make(map[string]bool)
	var walk func(c *model.Component)
	walk = func(c *model.Component) {
		if c.Category().IsClient() {
			clients[c.ID] = true
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	for _, root := range snap.Roots() {
		walk(root)
	}

	facing := make(map[string]bool)
	for _, r := range snap.Relationships() {
		switch {
		case clients[r.Source] && !clients[r.Target]:
			facing[r.Target] = true
		case clients[r.Target] && !clients[r.Source]:
			facing[r.Source] = true
		}
	}
	return facing
}
