package view

import (
	"testing"

	"archview/pkg/model"
)

func snapOf(arch *model.Architecture) *model.Snapshot {
	return model.NewSnapshot(arch)
}

func ids(comps []*model.Component) []string {
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = c.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTopLevelClientsAndFacingServers(t *testing.T) {
	snap := snapOf(&model.Architecture{
		Components: []*model.Component{
			{
				ID:   "repo",
				Type: "repository",
				Children: []*model.Component{
					{ID: "ios", Type: "ios-client", Files: []string{"a.swift"}},
					{ID: "web", Type: "web-client", Files: []string{"a.tsx"}},
					{ID: "api", Type: "api-server", Files: []string{"a.py"}},
					{ID: "batch", Type: "service", Files: []string{"b.py"}},
					{ID: "lib", Type: "library", Files: []string{"c.py"}},
				},
			},
		},
		Relationships: []*model.Relationship{
			{Source: "ios", Target: "api", Type: "http"},
		},
	})

	got := ids(TopLevel(snap))
	want := []string{"ios", "web", "api"}
	if !equalIDs(got, want) {
		t.Errorf("TopLevel = %v, want %v", got, want)
	}
}

func TestTopLevelServerMarkedByRelationshipInEitherDirection(t *testing.T) {
	// The analyzer sometimes records server->client edges; marking is
	// direction-agnostic.
	snap := snapOf(&model.Architecture{
		Components: []*model.Component{
			{ID: "web", Type: "web-client", Files: []string{"a.tsx"}},
			{ID: "push", Type: "service", Files: []string{"p.go"}},
			{ID: "internal", Type: "service", Files: []string{"i.go"}},
		},
		Relationships: []*model.Relationship{
			{Source: "push", Target: "web", Type: "websocket"},
		},
	})

	got := ids(TopLevel(snap))
	want := []string{"web", "push"}
	if !equalIDs(got, want) {
		t.Errorf("TopLevel = %v, want %v", got, want)
	}
}

func TestTopLevelAllServersSafetyNet(t *testing.T) {
	// Clients and servers both present but no relationship marks any server:
	// all servers are kept rather than rendering disconnected clients.
	snap := snapOf(&model.Architecture{
		Components: []*model.Component{
			{ID: "cli", Type: "cli-tool", Files: []string{"main.go"}},
			{ID: "api", Type: "api-server", Files: []string{"a.py"}},
			{ID: "worker", Type: "service", Files: []string{"w.py"}},
		},
	})

	got := ids(TopLevel(snap))
	want := []string{"cli", "api", "worker"}
	if !equalIDs(got, want) {
		t.Errorf("TopLevel = %v, want %v", got, want)
	}
}

func TestTopLevelDeepNesting(t *testing.T) {
	// A client three levels down: structural root (free), then two opaque
	// wrapper levels consuming the budget.
	snap := snapOf(&model.Architecture{
		Components: []*model.Component{
			{
				ID:   "repo",
				Type: "repository",
				Children: []*model.Component{
					{
						ID:   "apps",
						Type: "module",
						Children: []*model.Component{
							{
								ID:   "mobile",
								Type: "package",
								Children: []*model.Component{
									{ID: "ios", Type: "ios-client", Files: []string{"a.swift"}},
								},
							},
						},
					},
				},
			},
		},
	})

	got := ids(TopLevel(snap))
	if !equalIDs(got, []string{"ios"}) {
		t.Errorf("TopLevel = %v, want [ios]", got)
	}
}

func TestTopLevelBudgetExhausted(t *testing.T) {
	// Three opaque wrapper levels exceed the default budget of two; the walk
	// finds nothing and falls back to the structural unwrap.
	deep := &model.Component{
		ID:   "w1",
		Type: "module",
		Children: []*model.Component{
			{
				ID:   "w2",
				Type: "module",
				Children: []*model.Component{
					{
						ID:   "w3",
						Type: "module",
						Children: []*model.Component{
							{ID: "ios", Type: "ios-client", Files: []string{"a.swift"}},
						},
					},
				},
			},
		},
	}
	snap := snapOf(&model.Architecture{
		Components: []*model.Component{
			{ID: "repo", Type: "repository", Children: []*model.Component{deep}},
		},
	})

	got := ids(TopLevel(snap))
	if !equalIDs(got, []string{"w1"}) {
		t.Errorf("TopLevel fallback = %v, want [w1]", got)
	}

	// A widened budget reaches the client.
	got = ids(TopLevelWithBudget(snap, 3))
	if !equalIDs(got, []string{"ios"}) {
		t.Errorf("TopLevelWithBudget(3) = %v, want [ios]", got)
	}
}

func TestTopLevelFallbackForUntypedTrees(t *testing.T) {
	snap := snapOf(&model.Architecture{
		Components: []*model.Component{
			{
				ID:   "repo",
				Type: "repository",
				Children: []*model.Component{
					{ID: "core", Type: "module", Files: []string{"a.py"}},
					{ID: "docs", Type: "content", Files: []string{"readme.md"}},
					{ID: "utils", Type: "library", Files: []string{"b.py"}},
				},
			},
		},
	})

	got := ids(TopLevel(snap))
	want := []string{"core", "utils"}
	if !equalIDs(got, want) {
		t.Errorf("TopLevel = %v, want %v", got, want)
	}
}

func TestTopLevelExcludesContentEverywhere(t *testing.T) {
	snap := snapOf(&model.Architecture{
		Components: []*model.Component{
			{
				ID:   "docs",
				Type: "content",
				Children: []*model.Component{
					// A client under a content wrapper stays hidden.
					{ID: "demo", Type: "web-client", Files: []string{"demo.tsx"}},
				},
			},
			{ID: "web", Type: "web-client", Files: []string{"app.tsx"}},
		},
	})

	got := ids(TopLevel(snap))
	if !equalIDs(got, []string{"web"}) {
		t.Errorf("TopLevel = %v, want [web]", got)
	}
}

func TestTopLevelDeterministic(t *testing.T) {
	snap := snapOf(&model.Architecture{
		Components: []*model.Component{
			{
				ID:   "repo",
				Type: "repository",
				Children: []*model.Component{
					{ID: "web", Type: "web-client", Files: []string{"a.tsx"}},
					{ID: "api", Type: "api-server", Files: []string{"a.py"}},
					{ID: "android", Type: "android-client", Files: []string{"a.kt"}},
				},
			},
		},
		Relationships: []*model.Relationship{
			{Source: "web", Target: "api", Type: "http"},
		},
	})

	first := ids(TopLevel(snap))
	for i := 0; i < 5; i++ {
		if got := ids(TopLevel(snap)); !equalIDs(got, first) {
			t.Fatalf("run %d differs: %v != %v", i, got, first)
		}
	}
}

func TestTopLevelEmpty(t *testing.T) {
	if got := TopLevel(nil); got != nil {
		t.Errorf("TopLevel(nil) = %v, want nil", got)
	}
	if got := TopLevel(snapOf(&model.Architecture{})); len(got) != 0 {
		t.Errorf("TopLevel(empty) = %v, want empty", got)
	}
}
