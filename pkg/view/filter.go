package view

import "archview/pkg/model"

// VisibleRelationships projects the global relationship list onto a visible
// id set: a relationship survives only when both endpoints are visible.
// Relationships referencing ids outside the set are silently dropped.
//
// The projection is pure and O(E); it is recomputed whenever the visible set
// changes.
func VisibleRelationships(rels []*model.Relationship, visible map[string]bool) []*model.Relationship {
	var out []*model.Relationship
	for _, r := range rels {
		if visible[r.Source] && visible[r.Target] {
			out = append(out, r)
		}
	}
	return out
}

// VisibleIDSet builds the membership set for a visible component list.
func VisibleIDSet(comps []*model.Component) map[string]bool {
	ids := make(map[string]bool, len(comps))
	for _, c := range comps {
		ids[c.ID] = true
	}
	return ids
}
