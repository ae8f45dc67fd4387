package symbol

import (
	"iter"
	"strings"

	"github.com/ezrec/retroasm/internal"
)

// Scope is a node in the scope tree.
type Scope struct {
	Name     string
	Parent   *Scope
	Children map[string]*Scope
	Symbols  map[string]*Symbol
}

func newScope(name string, parent *Scope) *Scope {
	return &Scope{
		Name:     name,
		Parent:   parent,
		Children: map[string]*Scope{},
		Symbols:  map[string]*Symbol{},
	}
}

// Path returns the dotted path of the scope from the root.
func (s *Scope) Path() string {
	var parts []string
	for scope := s; scope != nil && scope.Parent != nil; scope = scope.Parent {
		parts = append(parts, scope.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Depth returns the number of ancestors of the scope.
func (s *Scope) Depth() (depth int) {
	for scope := s.Parent; scope != nil; scope = scope.Parent {
		depth++
	}
	return
}

// All iterates the symbols of the scope in name order.
func (s *Scope) All() iter.Seq2[string, *Symbol] {
	return internal.SortedKeys(s.Symbols)
}

// Walk iterates the symbols of the scope and all its descendants,
// keyed by their qualified names.
func (s *Scope) Walk() iter.Seq2[string, *Symbol] {
	prefix := s.Path()
	if len(prefix) > 0 {
		prefix += "."
	}

	seqs := []iter.Seq2[string, *Symbol]{
		func(yield func(string, *Symbol) bool) {
			for _, sym := range s.All() {
				if !yield(prefix+sym.Name, sym) {
					return
				}
			}
		},
	}
	for _, child := range internal.SortedKeys(s.Children) {
		seqs = append(seqs, child.Walk())
	}

	return internal.IterSeq2Concat(seqs...)
}
