package model

import (
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Category
	}{
		{"IOSClient", "ios-client", CategoryIOSClient},
		{"WebClient", "web-client", CategoryWebClient},
		{"CLITool", "cli-tool", CategoryCLITool},
		{"APIServer", "api-server", CategoryAPIServer},
		{"Service", "service", CategoryService},
		{"Application", "application", CategoryApplication},
		{"Library", "library", CategoryLibrary},
		{"Repository", "repository", CategoryRepository},
		{"Content", "content", CategoryContent},
		{"Unrecognized", "microfrontend", CategoryUnknown},
		{"Empty", "", CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCategory(tt.in); got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryDomains(t *testing.T) {
	clients := []Category{
		CategoryIOSClient, CategoryAndroidClient, CategoryMobileClient,
		CategoryWatchApp, CategoryWebClient, CategoryDesktopApp, CategoryCLITool,
	}
	for _, c := range clients {
		if !c.IsClient() {
			t.Errorf("%v should be a client", c)
		}
		if c.IsServer() {
			t.Errorf("%v should not be a server", c)
		}
		if !c.IsHero() {
			t.Errorf("%v should be a hero", c)
		}
	}

	servers := []Category{CategoryAPIServer, CategoryService}
	for _, c := range servers {
		if !c.IsServer() {
			t.Errorf("%v should be a server", c)
		}
		if c.IsClient() {
			t.Errorf("%v should not be a client", c)
		}
	}

	if !CategoryRepository.IsStructural() || !CategoryProject.IsStructural() {
		t.Error("repository and project should be structural")
	}
	if CategoryModule.IsStructural() {
		t.Error("module should not be structural")
	}
	if !CategoryContent.IsContent() {
		t.Error("content should be content")
	}
	if !CategoryLibrary.IsAlwaysShow() || !CategoryInfrastructure.IsAlwaysShow() {
		t.Error("library and infrastructure should be always-show")
	}
}

func TestCategoryPriorityOrdering(t *testing.T) {
	// Clients before servers before generic categories.
	if CategoryIOSClient.Priority() <= CategoryAPIServer.Priority() {
		t.Error("clients should outrank servers")
	}
	if CategoryAPIServer.Priority() <= CategoryLibrary.Priority() {
		t.Error("servers should outrank libraries")
	}
	if CategoryLibrary.Priority() <= CategoryContent.Priority() {
		t.Error("libraries should outrank content")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in            string
		want          Kind
		communication bool
	}{
		{"import", KindImport, false},
		{"ffi", KindFFI, false},
		{"http", KindHTTP, true},
		{"websocket", KindWebsocket, true},
		{"grpc", KindGRPC, true},
		{"database", KindDatabase, true},
		{"file", KindFile, true},
		{"telepathy", KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseKind(tt.in)
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.IsCommunication() != tt.communication {
				t.Errorf("IsCommunication() = %v, want %v", got.IsCommunication(), tt.communication)
			}
		})
	}
}

func TestComponentFileCount(t *testing.T) {
	tests := []struct {
		name string
		comp Component
		want int
	}{
		{
			name: "ExplicitFiles",
			comp: Component{Files: []string{"a.py", "b.py"}},
			want: 2,
		},
		{
			name: "MetricsFloat",
			comp: Component{Metrics: map[string]any{"files": float64(7)}},
			want: 7,
		},
		{
			name: "MetricsInt",
			comp: Component{Metrics: map[string]any{"files": 3}},
			want: 3,
		},
		{
			name: "FilesWinOverMetrics",
			comp: Component{Files: []string{"a.py"}, Metrics: map[string]any{"files": float64(9)}},
			want: 1,
		},
		{
			name: "Nothing",
			comp: Component{},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.comp.FileCount(); got != tt.want {
				t.Errorf("FileCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComponentHasSubstructure(t *testing.T) {
	leaf := Component{ID: "leaf"}
	if leaf.HasSubstructure() {
		t.Error("empty component should have no substructure")
	}

	withChildren := Component{ID: "p", Children: []*Component{{ID: "c"}}}
	if !withChildren.HasSubstructure() {
		t.Error("component with children should have substructure")
	}

	withFiles := Component{ID: "f", Files: []string{"main.py"}}
	if !withFiles.HasSubstructure() {
		t.Error("component with files should have substructure")
	}
}
