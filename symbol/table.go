package symbol

import (
	"fmt"
	"slices"
	"strings"
)

// anonymous is an anonymous label declared on a line. A line that runs
// in several scopes, such as a loop body, has one symbol per scope.
type anonymous struct {
	forward bool
	syms    map[*Scope]*Symbol
	last    *Symbol
}

// in returns the symbol visible from scope: the one defined in scope or
// its nearest ancestor, else the most recently defined one.
func (a *anonymous) in(scope *Scope) *Symbol {
	for ; scope != nil; scope = scope.Parent {
		if sym, ok := a.syms[scope]; ok {
			return sym
		}
	}
	return a.last
}

// Table is the scoped symbol table.
type Table struct {
	CaseSensitive bool   // If not set, names are matched case insensitively.
	Root          *Scope // Global scope.

	current   *Scope
	pass      int
	anonymous map[int]*anonymous
	anonLines []int
	undefined []string
	changed   []string
}

// NewTable creates an empty symbol table.
func NewTable(caseSensitive bool) (t *Table) {
	t = &Table{
		CaseSensitive: caseSensitive,
		Root:          newScope("", nil),
		anonymous:     map[int]*anonymous{},
	}
	t.current = t.Root
	return
}

// key folds a name for map lookups.
func (t *Table) key(name string) string {
	if t.CaseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// StartPass begins a new pass, clearing the per-pass bookkeeping.
// Symbol values are kept.
func (t *Table) StartPass() {
	t.pass++
	t.current = t.Root
	t.undefined = t.undefined[:0]
	t.changed = t.changed[:0]
}

// Pass returns the current pass number, starting at 1.
func (t *Table) Pass() int {
	return t.pass
}

// Current returns the current scope.
func (t *Table) Current() *Scope {
	return t.current
}

// SetCurrent makes scope current, returning the previous current scope.
func (t *Table) SetCurrent(scope *Scope) (prev *Scope) {
	prev = t.current
	t.current = scope
	return
}

// Push enters the named child scope of the current scope, creating it
// on first use.
func (t *Table) Push(name string) *Scope {
	key := t.key(name)
	child, ok := t.current.Children[key]
	if !ok {
		child = newScope(name, t.current)
		t.current.Children[key] = child
	}
	t.current = child
	return child
}

// PushAnonymous enters an unnamed scope identified by the index of the
// line that opened it.
func (t *Table) PushAnonymous(index int) *Scope {
	return t.Push(fmt.Sprintf("@%d", index))
}

// Pop leaves the current scope.
func (t *Table) Pop() (err error) {
	if t.current.Parent == nil {
		err = ErrScopeUnbalanced
		return
	}
	t.current = t.current.Parent
	return
}

// ResolveScope finds a scope by name, searching the current scope and
// then its ancestors. Dotted names descend into child scopes.
func (t *Table) ResolveScope(name string) (scope *Scope, ok bool) {
	parts := strings.Split(name, ".")
	for base := t.current; base != nil; base = base.Parent {
		scope, ok = t.descend(base, parts)
		if ok {
			return
		}
	}
	return
}

func (t *Table) descend(base *Scope, parts []string) (scope *Scope, ok bool) {
	scope = base
	for _, part := range parts {
		scope, ok = scope.Children[t.key(part)]
		if !ok {
			return
		}
	}
	return scope, true
}

// Lookup finds a symbol in a single scope.
func (t *Table) Lookup(scope *Scope, name string) (sym *Symbol, ok bool) {
	sym, ok = scope.Symbols[t.key(name)]
	return
}

// Resolve finds a symbol by name, searching the current scope and then
// its ancestors. A dotted name `a.b.c` finds the scope `a.b` first.
func (t *Table) Resolve(name string) (sym *Symbol, ok bool) {
	dot := strings.LastIndex(name, ".")
	if dot > 0 {
		var scope *Scope
		scope, ok = t.ResolveScope(name[:dot])
		if !ok {
			return
		}
		return t.Lookup(scope, name[dot+1:])
	}

	for scope := t.current; scope != nil; scope = scope.Parent {
		sym, ok = t.Lookup(scope, name)
		if ok {
			return
		}
	}
	return
}

// Define defines or redefines a symbol in the current scope.
//
// A constant, label or function may take a new value in a later pass,
// which is recorded as a change. Giving it a different value twice in
// the same pass is an error. Variables are freely reassigned.
func (t *Table) Define(name string, kind Kind, value Value, line int) (sym *Symbol, err error) {
	return t.DefineIn(t.current, name, kind, value, line)
}

// DefineIn defines or redefines a symbol in scope.
func (t *Table) DefineIn(scope *Scope, name string, kind Kind, value Value, line int) (sym *Symbol, err error) {
	if len(name) == 0 || strings.Contains(name, ".") {
		err = ErrSymbolName
		return
	}

	key := t.key(name)
	sym, ok := scope.Symbols[key]
	if !ok {
		sym = &Symbol{Name: name, Kind: kind, Value: value, Line: line, Scope: scope, pass: t.pass}
		scope.Symbols[key] = sym
		return
	}

	if sym.Kind != kind {
		err = &ErrKindMismatch{Name: name, Kind: sym.Kind, Want: kind}
		return
	}

	err = t.assign(sym, value)
	if err != nil {
		return
	}
	sym.Line = line
	return
}

// assign updates the value of an existing symbol.
func (t *Table) assign(sym *Symbol, value Value) (err error) {
	if sym.Kind.Fixed() && !Equal(sym.Value, value) {
		if sym.pass == t.pass {
			err = ErrRedefined(sym.Name)
			return
		}
		t.changed = append(t.changed, sym.Name)
	}
	sym.Value = value
	if sym.pass != PASS_PREDEFINED {
		sym.pass = t.pass
	}
	return
}

// Assign sets a variable. An existing variable in the current scope or
// an ancestor is updated, otherwise a new variable is defined in the
// current scope.
func (t *Table) Assign(name string, value Value, line int) (sym *Symbol, err error) {
	sym, ok := t.Resolve(name)
	if ok && sym.Kind == KIND_VARIABLE {
		err = t.assign(sym, value)
		return
	}
	if ok && strings.Contains(name, ".") {
		err = &ErrKindMismatch{Name: name, Kind: sym.Kind, Want: KIND_VARIABLE}
		return
	}
	return t.Define(name, KIND_VARIABLE, value, line)
}

// Predefine defines a constant in the global scope that is considered
// defined on every pass.
func (t *Table) Predefine(name string, value Value) (err error) {
	sym, err := t.DefineIn(t.Root, name, KIND_CONSTANT, value, LINE_NONE)
	if err != nil {
		return
	}
	sym.pass = PASS_PREDEFINED
	return
}

// DefinedThisPass returns true if the symbol exists and has been
// assigned during the current pass, or was predefined.
func (t *Table) DefinedThisPass(name string) bool {
	sym, ok := t.Resolve(name)
	if !ok {
		return false
	}
	return sym.pass == t.pass || sym.pass == PASS_PREDEFINED
}

// DefineAnonymous defines the anonymous label declared on a line, in
// the current scope.
func (t *Table) DefineAnonymous(line int, forward bool, value Value) (sym *Symbol) {
	anon, ok := t.anonymous[line]
	if !ok {
		pos, _ := slices.BinarySearch(t.anonLines, line)
		t.anonLines = slices.Insert(t.anonLines, pos, line)
	}
	if !ok || anon.forward != forward {
		anon = &anonymous{forward: forward, syms: map[*Scope]*Symbol{}}
		t.anonymous[line] = anon
	}

	sym, ok = anon.syms[t.current]
	if !ok {
		sym = &Symbol{Name: anonName(forward), Kind: KIND_ANONYMOUS, Value: value, Line: line, Scope: t.current, pass: t.pass}
		anon.syms[t.current] = sym
		anon.last = sym
		return
	}

	if sym.pass != t.pass && !Equal(sym.Value, value) {
		t.changed = append(t.changed, fmt.Sprintf("%v@%d", sym.Name, line))
	}
	sym.Value = value
	sym.pass = t.pass
	anon.last = sym
	return
}

func anonName(forward bool) string {
	if forward {
		return "+"
	}
	return "-"
}

// ResolveAnonymous finds the count'th anonymous label (starting at 1)
// declared after (forward) or at or before (backward) line, as seen
// from the current scope.
func (t *Table) ResolveAnonymous(line int, forward bool, count int) (sym *Symbol, ok bool) {
	if count < 1 {
		return
	}

	pos, found := slices.BinarySearch(t.anonLines, line)
	if forward {
		if found {
			pos++
		}
		for ; pos < len(t.anonLines); pos++ {
			anon := t.anonymous[t.anonLines[pos]]
			if !anon.forward {
				continue
			}
			count--
			if count == 0 {
				return anon.in(t.current), true
			}
		}
		return
	}

	if !found {
		pos--
	}
	for ; pos >= 0; pos-- {
		anon := t.anonymous[t.anonLines[pos]]
		if anon.forward {
			continue
		}
		count--
		if count == 0 {
			return anon.in(t.current), true
		}
	}
	return
}

// MarkUndefined records a reference to a symbol without a value,
// which requests another pass.
func (t *Table) MarkUndefined(name string) {
	if !slices.Contains(t.undefined, name) {
		t.undefined = append(t.undefined, name)
	}
}

// Undefined returns the names referenced without a value this pass.
func (t *Table) Undefined() []string {
	return slices.Clone(t.undefined)
}

// Changed returns the names whose value changed from the previous pass.
func (t *Table) Changed() []string {
	return slices.Clone(t.changed)
}

// NeedsPass returns true if another pass is required for the symbol
// values of this pass to be stable.
func (t *Table) NeedsPass() bool {
	return len(t.undefined) > 0 || len(t.changed) > 0
}
