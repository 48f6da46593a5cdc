package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Snapshot wraps a loaded Architecture with id-indexed lookups and derived
// indexes. It is immutable after construction: all maps are built once in
// NewSnapshot and only read afterwards, so a Snapshot is safe for concurrent
// use.
type Snapshot struct {
	arch       *Architecture
	components map[string]*Component // id -> component, entire tree
	fileComp   map[string]*Component // file path -> owning component
	fileSyms   map[string][]*Symbol  // file path -> symbols
	symbols    map[string]*Symbol    // symbol id -> symbol
}

// NewSnapshot indexes an architecture for lookup. A nil architecture yields
// an empty snapshot rather than an error; malformed pieces (components
// without IDs, symbols without files) are skipped, never rejected.
func NewSnapshot(arch *Architecture) *Snapshot {
	s := &Snapshot{
		arch:       arch,
		components: make(map[string]*Component),
		fileComp:   make(map[string]*Component),
		fileSyms:   make(map[string][]*Symbol),
		symbols:    make(map[string]*Symbol),
	}
	if arch == nil {
		s.arch = &Architecture{}
		return s
	}

	var index func(c *Component)
	index = func(c *Component) {
		if c == nil || c.ID == "" {
			return
		}
		s.components[c.ID] = c
		for _, f := range c.Files {
			s.fileComp[f] = c
		}
		for _, child := range c.Children {
			index(child)
		}
	}
	for _, c := range arch.Components {
		index(c)
	}

	for _, sym := range arch.Symbols {
		if sym == nil || sym.ID == "" {
			continue
		}
		s.symbols[sym.ID] = sym
		if sym.File != "" {
			s.fileSyms[sym.File] = append(s.fileSyms[sym.File], sym)
		}
	}

	return s
}

// Architecture returns the underlying snapshot data. Callers must treat it
// as read-only.
func (s *Snapshot) Architecture() *Architecture { return s.arch }

// Roots returns the declared root components of the tree.
func (s *Snapshot) Roots() []*Component { return s.arch.Components }

// Relationships returns the flat relationship list.
func (s *Snapshot) Relationships() []*Relationship { return s.arch.Relationships }

// Component returns the component with the given ID and true, or nil and
// false if no such component exists anywhere in the tree.
func (s *Snapshot) Component(id string) (*Component, bool) {
	c, ok := s.components[id]
	return c, ok
}

// ComponentCount returns the number of components in the entire tree.
func (s *Snapshot) ComponentCount() int { return len(s.components) }

// ComponentForFile returns the component that owns the given file path.
func (s *Snapshot) ComponentForFile(path string) (*Component, bool) {
	c, ok := s.fileComp[path]
	return c, ok
}

// SymbolsInFile returns the symbols declared in the given file, in snapshot
// order. Returns nil for unknown paths.
func (s *Snapshot) SymbolsInFile(path string) []*Symbol { return s.fileSyms[path] }

// Symbol returns the symbol with the given ID and true, or nil and false.
func (s *Snapshot) Symbol(id string) (*Symbol, bool) {
	sym, ok := s.symbols[id]
	return sym, ok
}

// PathTo returns the root-to-target component path, or nil if the target ID
// is not present in the tree. The search is a plain depth-first walk; the
// tree carries no parent pointers.
func (s *Snapshot) PathTo(id string) []*Component {
	var walk func(c *Component, trail []*Component) []*Component
	walk = func(c *Component, trail []*Component) []*Component {
		trail = append(trail, c)
		if c.ID == id {
			out := make([]*Component, len(trail))
			copy(out, trail)
			return out
		}
		for _, child := range c.Children {
			if found := walk(child, trail); found != nil {
				return found
			}
		}
		return nil
	}
	for _, root := range s.arch.Components {
		if found := walk(root, nil); found != nil {
			return found
		}
	}
	return nil
}

// =============================================================================
// Serialization
// =============================================================================

// Read decodes an architecture snapshot from JSON and indexes it.
func Read(r io.Reader) (*Snapshot, error) {
	var arch Architecture
	if err := json.NewDecoder(r).Decode(&arch); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return NewSnapshot(&arch), nil
}

// ReadFile reads a snapshot JSON file produced by the analyzer.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Unmarshal decodes a snapshot from JSON bytes.
func Unmarshal(data []byte) (*Snapshot, error) {
	var arch Architecture
	if err := json.Unmarshal(data, &arch); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return NewSnapshot(&arch), nil
}

// Write encodes the snapshot's architecture as indented JSON.
func Write(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.arch); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the snapshot to a JSON file with 0644 permissions.
func WriteFile(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(s, f)
}
