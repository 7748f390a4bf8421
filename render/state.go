package render

import (
	"sort"
	"strings"

	"github.com/teranos/javabind/codetype"
)

// ImportSet is the pass-scoped set of import requirements. Adding the same
// requirement twice keeps one entry.
//
// Java cannot rename an import, so an aliased requirement renders no import
// line. Generated code that uses the alias goes through Qualify, which
// swaps the alias for the fully qualified name.
type ImportSet struct {
	entries map[codetype.Import]struct{}
	aliases map[string]string
}

// NewImportSet returns an empty set.
func NewImportSet() *ImportSet {
	return &ImportSet{
		entries: make(map[codetype.Import]struct{}),
		aliases: make(map[string]string),
	}
}

// Add inserts imp. Entries with an empty Name are ignored.
func (s *ImportSet) Add(imp codetype.Import) {
	if imp.Name == "" {
		return
	}
	s.entries[imp] = struct{}{}
	if imp.Alias != "" {
		s.aliases[imp.Alias] = imp.Name
	}
}

// Len returns the number of distinct requirements.
func (s *ImportSet) Len() int { return len(s.entries) }

// Sorted returns the requirements ordered by name, then alias.
func (s *ImportSet) Sorted() []codetype.Import {
	out := make([]codetype.Import, 0, len(s.entries))
	for imp := range s.entries {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Alias < out[j].Alias
	})
	return out
}

// Render returns the import block, one "import x;" line per plain
// requirement, sorted.
func (s *ImportSet) Render() string {
	var b strings.Builder
	for _, imp := range s.Sorted() {
		if imp.Alias != "" {
			continue
		}
		b.WriteString("import ")
		b.WriteString(imp.Name)
		b.WriteString(";\n")
	}
	return b.String()
}

// Qualify replaces a leading alias in name ("RustBufferRemote.ByValue")
// with the name it was registered for.
func (s *ImportSet) Qualify(name string) string {
	head, rest, dotted := strings.Cut(name, ".")
	full, ok := s.aliases[head]
	if !ok {
		return name
	}
	if dotted {
		return full + "." + rest
	}
	return full
}

// RenderState is the mutable bookkeeping of one render pass. It is owned by
// a single pass and never shared between components.
type RenderState struct {
	imports  *ImportSet
	included map[string]struct{}
}

// NewRenderState returns fresh state for one pass.
func NewRenderState() *RenderState {
	return &RenderState{
		imports:  NewImportSet(),
		included: make(map[string]struct{}),
	}
}

// IncludeOnce reports true the first time name is seen in this pass and
// false on every later call.
func (s *RenderState) IncludeOnce(name string) bool {
	if _, seen := s.included[name]; seen {
		return false
	}
	s.included[name] = struct{}{}
	return true
}

// AddImport records an import. It returns "" so templates can call it inline.
func (s *RenderState) AddImport(name string) string {
	s.imports.Add(codetype.Import{Name: name})
	return ""
}

// AddImportAs records an import referred to by alias.
func (s *RenderState) AddImportAs(name, alias string) string {
	s.imports.Add(codetype.Import{Name: name, Alias: alias})
	return ""
}

// Imports returns the pass import set.
func (s *RenderState) Imports() *ImportSet { return s.imports }
