package cli

import (
	"context"
	"testing"

	"archview/pkg/cache"
	"archview/pkg/model"
	"archview/pkg/view"
)

func TestNewEngine(t *testing.T) {
	for _, name := range []string{"", "layered", "dot"} {
		if _, err := newEngine(name); err != nil {
			t.Errorf("newEngine(%q): %v", name, err)
		}
	}
	if _, err := newEngine("circular"); err == nil {
		t.Error("newEngine accepted unknown engine name")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		name string
		want view.Direction
	}{
		{"", view.DirectionDown},
		{"down", view.DirectionDown},
		{"right", view.DirectionRight},
	}
	for _, tt := range tests {
		got, err := parseDirection(tt.name)
		if err != nil {
			t.Errorf("parseDirection(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDirection(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
	if _, err := parseDirection("up"); err == nil {
		t.Error("parseDirection accepted unknown direction")
	}
}

func TestNewCacheNoCache(t *testing.T) {
	c := newCache(true)
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("newCache(true) = %T, want *cache.NullCache", c)
	}
}

func TestAwaitLayout(t *testing.T) {
	snap := model.NewSnapshot(&model.Architecture{
		Name: "shop",
		Components: []*model.Component{
			{
				ID:   "repo",
				Name: "shop",
				Type: "repository",
				Children: []*model.Component{
					{ID: "web", Name: "web", Type: "web-client"},
					{ID: "api", Name: "api", Type: "api-server"},
				},
			},
		},
		Relationships: []*model.Relationship{
			{Source: "web", Target: "api", Type: "http"},
		},
	})

	engine, err := newEngine("layered")
	if err != nil {
		t.Fatal(err)
	}
	v, err := awaitLayout(context.Background(), snap, "", engine, cache.NewNullCache(), view.DirectionDown)
	if err != nil {
		t.Fatalf("awaitLayout: %v", err)
	}
	defer v.Close()

	nodes := v.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if len(v.Edges()) != 1 {
		t.Fatalf("got %d edges, want 1", len(v.Edges()))
	}
}

func TestAwaitLayoutBadTarget(t *testing.T) {
	snap := model.NewSnapshot(&model.Architecture{
		Name: "tiny",
		Components: []*model.Component{
			{ID: "solo", Name: "solo", Type: "service"},
		},
	})

	engine, _ := newEngine("layered")
	if _, err := awaitLayout(context.Background(), snap, "nope", engine, cache.NewNullCache(), view.DirectionDown); err == nil {
		t.Error("awaitLayout accepted a missing drill target")
	}
}
