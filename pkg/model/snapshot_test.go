package model

import (
	"bytes"
	"path/filepath"
	"testing"
)

func testArchitecture() *Architecture {
	return &Architecture{
		Name: "shop",
		Components: []*Component{
			{
				ID:   "repo",
				Name: "Shop Repo",
				Type: "repository",
				Children: []*Component{
					{
						ID:    "web",
						Name:  "Web Client",
						Type:  "web-client",
						Files: []string{"web/app.tsx"},
					},
					{
						ID:   "api",
						Name: "API Server",
						Type: "api-server",
						Children: []*Component{
							{ID: "orders", Name: "Orders", Type: "module", Files: []string{"api/orders.py"}},
						},
					},
				},
			},
		},
		Relationships: []*Relationship{
			{Source: "web", Target: "api", Type: "http", Protocol: "REST"},
		},
		Symbols: []*Symbol{
			{ID: "sym1", Name: "OrderService", Kind: "class", File: "api/orders.py"},
			{ID: "sym2", Name: "place_order", Kind: "function", File: "api/orders.py"},
		},
	}
}

func TestSnapshotIndexing(t *testing.T) {
	snap := NewSnapshot(testArchitecture())

	if snap.ComponentCount() != 4 {
		t.Errorf("ComponentCount() = %d, want 4", snap.ComponentCount())
	}

	// Nested components are reachable by id.
	orders, ok := snap.Component("orders")
	if !ok {
		t.Fatal("nested component not indexed")
	}
	if orders.Name != "Orders" {
		t.Errorf("Name = %q, want Orders", orders.Name)
	}

	if _, ok := snap.Component("missing"); ok {
		t.Error("unknown id should not resolve")
	}

	// File ownership.
	owner, ok := snap.ComponentForFile("api/orders.py")
	if !ok || owner.ID != "orders" {
		t.Errorf("ComponentForFile = %v, want orders", owner)
	}

	// Symbols by file, in snapshot order.
	syms := snap.SymbolsInFile("api/orders.py")
	if len(syms) != 2 || syms[0].Name != "OrderService" {
		t.Errorf("SymbolsInFile = %v", syms)
	}
	if snap.SymbolsInFile("unknown.py") != nil {
		t.Error("unknown file should yield nil symbols")
	}
}

func TestSnapshotNil(t *testing.T) {
	snap := NewSnapshot(nil)
	if snap.ComponentCount() != 0 {
		t.Error("nil architecture should index nothing")
	}
	if got := snap.Roots(); len(got) != 0 {
		t.Errorf("Roots() = %v, want empty", got)
	}
	if snap.PathTo("anything") != nil {
		t.Error("PathTo on empty snapshot should be nil")
	}
}

func TestPathTo(t *testing.T) {
	snap := NewSnapshot(testArchitecture())

	tests := []struct {
		name string
		id   string
		want []string
	}{
		{"Root", "repo", []string{"repo"}},
		{"Depth2", "api", []string{"repo", "api"}},
		{"Depth3", "orders", []string{"repo", "api", "orders"}},
		{"Missing", "nope", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := snap.PathTo(tt.id)
			if len(path) != len(tt.want) {
				t.Fatalf("PathTo(%q) has %d entries, want %d", tt.id, len(path), len(tt.want))
			}
			for i, c := range path {
				if c.ID != tt.want[i] {
					t.Errorf("path[%d] = %q, want %q", i, c.ID, tt.want[i])
				}
			}
		})
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	snap := NewSnapshot(testArchitecture())

	var buf bytes.Buffer
	if err := Write(snap, &buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	loaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if loaded.ComponentCount() != snap.ComponentCount() {
		t.Errorf("round trip lost components: %d != %d", loaded.ComponentCount(), snap.ComponentCount())
	}
	if len(loaded.Relationships()) != 1 {
		t.Errorf("round trip lost relationships")
	}
	web, ok := loaded.Component("web")
	if !ok || web.Type != "web-client" {
		t.Errorf("round trip lost nested component data")
	}
}

func TestReadFileErrors(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
