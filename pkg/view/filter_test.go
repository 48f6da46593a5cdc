package view

import (
	"testing"

	"archview/pkg/model"
)

func TestVisibleRelationships(t *testing.T) {
	rels := []*model.Relationship{
		{Source: "a", Target: "b", Type: "http"},
		{Source: "a", Target: "hidden", Type: "import"},
		{Source: "hidden", Target: "b", Type: "import"},
		{Source: "x", Target: "y", Type: "grpc"},
		{Source: "b", Target: "a", Type: "websocket"},
	}
	visible := map[string]bool{"a": true, "b": true}

	got := VisibleRelationships(rels, visible)
	if len(got) != 2 {
		t.Fatalf("kept %d relationships, want 2", len(got))
	}
	if got[0].Type != "http" || got[1].Type != "websocket" {
		t.Errorf("unexpected survivors: %v, %v", got[0], got[1])
	}
}

func TestVisibleRelationshipsEmpty(t *testing.T) {
	if got := VisibleRelationships(nil, map[string]bool{"a": true}); got != nil {
		t.Errorf("nil input should yield nil, got %v", got)
	}
	rels := []*model.Relationship{{Source: "a", Target: "b", Type: "http"}}
	if got := VisibleRelationships(rels, nil); got != nil {
		t.Errorf("empty visible set should drop everything, got %v", got)
	}
}

func TestVisibleIDSet(t *testing.T) {
	set := VisibleIDSet([]*model.Component{{ID: "a"}, {ID: "b"}})
	if !set["a"] || !set["b"] || set["c"] {
		t.Errorf("unexpected set: %v", set)
	}
}
