// Package search defines the lookup contract the view layer navigates by.
//
// The engine never inspects query text itself: an Index turns free text into
// ranked component or symbol identifiers, and callers feed those identifiers
// straight into selection and drilling. The bundled SubstringIndex is the
// minimal implementation; richer backends can replace it without touching
// the view layer.
package search

import (
	"sort"
	"strings"

	"archview/pkg/model"
)

// Result is a single ranked match.
type Result struct {
	ID    string  `json:"id"`    // component or symbol identifier
	Name  string  `json:"name"`  // display name of the match
	Kind  string  `json:"kind"`  // "component" or "symbol"
	Score float64 `json:"score"` // higher ranks first
}

// Index resolves free text into ranked identifiers.
type Index interface {
	// Query returns matches for the given text ordered by descending score.
	// An empty query returns no results.
	Query(text string) []Result
}

// SubstringIndex matches query text against component and symbol names with
// case-insensitive substring containment. Exact matches rank highest, then
// prefix matches, then plain containment; ties break by name length so
// tighter matches surface first.
type SubstringIndex struct {
	entries []entry
}

var _ Index = (*SubstringIndex)(nil)

type entry struct {
	id    string
	name  string
	kind  string
	lower string
}

// NewSubstringIndex builds an index over every component and symbol in the
// snapshot.
func NewSubstringIndex(snap *model.Snapshot) *SubstringIndex {
	idx := &SubstringIndex{}

	var walk func(c *model.Component)
	walk = func(c *model.Component) {
		name := c.DisplayName()
		idx.entries = append(idx.entries, entry{
			id:    c.ID,
			name:  name,
			kind:  "component",
			lower: strings.ToLower(name),
		})
		for _, child := range c.Children {
			walk(child)
		}
	}
	for _, root := range snap.Roots() {
		walk(root)
	}

	for _, sym := range snap.Architecture().Symbols {
		if sym == nil || sym.ID == "" {
			continue
		}
		idx.entries = append(idx.entries, entry{
			id:    sym.ID,
			name:  sym.Name,
			kind:  "symbol",
			lower: strings.ToLower(sym.Name),
		})
	}
	return idx
}

// Query implements Index.
func (idx *SubstringIndex) Query(text string) []Result {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return nil
	}

	var results []Result
	for _, e := range idx.entries {
		score := matchScore(e.lower, q)
		if score == 0 {
			continue
		}
		results = append(results, Result{
			ID:    e.id,
			Name:  e.name,
			Kind:  e.kind,
			Score: score,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return len(results[i].Name) < len(results[j].Name)
	})
	return results
}

func matchScore(name, q string) float64 {
	switch {
	case name == q:
		return 3
	case strings.HasPrefix(name, q):
		return 2
	case strings.Contains(name, q):
		return 1
	}
	return 0
}
