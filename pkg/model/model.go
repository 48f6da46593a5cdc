package model

// =============================================================================
// Architecture Snapshot - Analyzer Wire Format
// =============================================================================

// Architecture is the top-level snapshot produced by the external analyzer.
// One snapshot is delivered per session; it is never mutated after load.
//
// The JSON field names match the analyzer's output exactly so snapshots can
// be read without translation. BSON tags allow snapshots to be persisted
// as-is in the mongo store.
type Architecture struct {
	Name            string          `json:"name" bson:"name"`
	Description     string          `json:"description,omitempty" bson:"description,omitempty"`
	Repository      string          `json:"repository,omitempty" bson:"repository,omitempty"`
	GeneratedAt     string          `json:"generated_at,omitempty" bson:"generated_at,omitempty"`
	AnalyzerVersion string          `json:"analyzer_version,omitempty" bson:"analyzer_version,omitempty"`
	RootPath        string          `json:"root_path,omitempty" bson:"root_path,omitempty"`
	Components      []*Component    `json:"components" bson:"components"`
	Relationships   []*Relationship `json:"relationships" bson:"relationships"`
	Symbols         []*Symbol       `json:"symbols,omitempty" bson:"symbols,omitempty"`
	Files           []*FileInfo     `json:"files,omitempty" bson:"files,omitempty"`
	Stats           map[string]any  `json:"stats,omitempty" bson:"stats,omitempty"`
}

// Component is a node in the strict ownership tree. Children are embedded
// component objects owned exclusively by their parent; the tree has no
// back-pointers and is traversed top-down only.
type Component struct {
	ID          string         `json:"id" bson:"id"`
	Name        string         `json:"name" bson:"name"`
	Type        string         `json:"type" bson:"type"` // raw category string, see Category
	Path        string         `json:"path,omitempty" bson:"path,omitempty"`
	Language    string         `json:"language,omitempty" bson:"language,omitempty"`
	Framework   string         `json:"framework,omitempty" bson:"framework,omitempty"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Port        int            `json:"port,omitempty" bson:"port,omitempty"`
	Children    []*Component   `json:"children,omitempty" bson:"children,omitempty"`
	Files       []string       `json:"files,omitempty" bson:"files,omitempty"`
	EntryPoints []string       `json:"entry_points,omitempty" bson:"entry_points,omitempty"`
	ConfigFiles []string       `json:"config_files,omitempty" bson:"config_files,omitempty"`
	Metrics     map[string]any `json:"metrics,omitempty" bson:"metrics,omitempty"`
}

// Category returns the parsed category of the component.
// Unrecognized type strings map to CategoryUnknown.
func (c *Component) Category() Category { return ParseCategory(c.Type) }

// FileCount returns the number of files directly owned by the component.
// The analyzer records file paths on the component and a count in metrics;
// the explicit file list wins when present.
func (c *Component) FileCount() int {
	if len(c.Files) > 0 {
		return len(c.Files)
	}
	if c.Metrics != nil {
		if v, ok := c.Metrics["files"]; ok {
			switch n := v.(type) {
			case float64:
				return int(n)
			case int:
				return n
			}
		}
	}
	return 0
}

// HasSubstructure reports whether the component can be drilled into:
// it has children or directly owns files.
func (c *Component) HasSubstructure() bool {
	return len(c.Children) > 0 || c.FileCount() > 0
}

// DisplayName returns the name if set, otherwise the ID.
func (c *Component) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Relationship is a directed (optionally bidirectional) edge between two
// component IDs. Relationships are immutable after load; duplicates with the
// same endpoints but different kinds are legal.
type Relationship struct {
	Source        string `json:"source" bson:"source"`
	Target        string `json:"target" bson:"target"`
	Type          string `json:"type" bson:"type"` // raw kind string, see Kind
	Label         string `json:"label,omitempty" bson:"label,omitempty"`
	Protocol      string `json:"protocol,omitempty" bson:"protocol,omitempty"`
	Port          int    `json:"port,omitempty" bson:"port,omitempty"`
	Bidirectional bool   `json:"bidirectional,omitempty" bson:"bidirectional,omitempty"`
}

// Kind returns the parsed relationship kind.
func (r *Relationship) Kind() Kind { return ParseKind(r.Type) }

// Symbol is a declared code entity (class, function, type) inside a file.
type Symbol struct {
	ID           string   `json:"id" bson:"id"`
	Name         string   `json:"name" bson:"name"`
	Kind         string   `json:"kind,omitempty" bson:"kind,omitempty"`
	File         string   `json:"file,omitempty" bson:"file,omitempty"`
	Line         int      `json:"line,omitempty" bson:"line,omitempty"`
	EndLine      int      `json:"end_line,omitempty" bson:"end_line,omitempty"`
	CodePreview  string   `json:"code_preview,omitempty" bson:"code_preview,omitempty"`
	Visibility   string   `json:"visibility,omitempty" bson:"visibility,omitempty"`
	Docstring    string   `json:"docstring,omitempty" bson:"docstring,omitempty"`
	Parent       string   `json:"parent,omitempty" bson:"parent,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" bson:"dependencies,omitempty"`
	Annotations  []string `json:"annotations,omitempty" bson:"annotations,omitempty"`
}

// FileInfo describes one analyzed source file.
type FileInfo struct {
	Path      string   `json:"path" bson:"path"`
	Language  string   `json:"language,omitempty" bson:"language,omitempty"`
	Lines     int      `json:"lines,omitempty" bson:"lines,omitempty"`
	SizeBytes int      `json:"size_bytes,omitempty" bson:"size_bytes,omitempty"`
	Symbols   []string `json:"symbols,omitempty" bson:"symbols,omitempty"`
	Imports   []string `json:"imports,omitempty" bson:"imports,omitempty"`
	Exports   []string `json:"exports,omitempty" bson:"exports,omitempty"`
	ModuleDoc string   `json:"module_doc,omitempty" bson:"module_doc,omitempty"`
}

// =============================================================================
// Relationship Kinds
// =============================================================================

// Kind classifies a relationship as communication or structural.
type Kind int

const (
	// KindImport is a structural source-level dependency.
	KindImport Kind = iota
	// KindFFI is a structural foreign-function boundary.
	KindFFI
	// KindHTTP is a network call over HTTP.
	KindHTTP
	// KindWebsocket is a persistent websocket connection.
	KindWebsocket
	// KindGRPC is a gRPC call.
	KindGRPC
	// KindDatabase is a database connection.
	KindDatabase
	// KindFile is file-based interchange between components.
	KindFile
	// KindUnknown is any kind string not in the analyzer taxonomy.
	KindUnknown
)

var kindNames = map[Kind]string{
	KindImport:    "import",
	KindFFI:       "ffi",
	KindHTTP:      "http",
	KindWebsocket: "websocket",
	KindGRPC:      "grpc",
	KindDatabase:  "database",
	KindFile:      "file",
	KindUnknown:   "unknown",
}

var kindByName = map[string]Kind{
	"import":    KindImport,
	"ffi":       KindFFI,
	"http":      KindHTTP,
	"websocket": KindWebsocket,
	"grpc":      KindGRPC,
	"database":  KindDatabase,
	"file":      KindFile,
}

// ParseKind maps an analyzer kind string to a Kind.
func ParseKind(s string) Kind {
	if k, ok := kindByName[s]; ok {
		return k
	}
	return KindUnknown
}

// String returns the analyzer's name for the kind.
func (k Kind) String() string { return kindNames[k] }

// IsCommunication reports whether the kind represents runtime communication
// (network, database, file interchange) rather than a structural dependency.
func (k Kind) IsCommunication() bool {
	switch k {
	case KindHTTP, KindWebsocket, KindGRPC, KindDatabase, KindFile:
		return true
	}
	return false
}

// IsStructural reports whether the kind is a source-level dependency.
func (k Kind) IsStructural() bool { return k == KindImport || k == KindFFI }
