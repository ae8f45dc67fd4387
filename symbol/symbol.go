package symbol

// Kind is the kind of a symbol.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_LABEL     = Kind(0) // label
	KIND_CONSTANT  = Kind(1) // constant
	KIND_VARIABLE  = Kind(2) // variable
	KIND_ANONYMOUS = Kind(3) // anonymous label
	KIND_FUNCTION  = Kind(4) // function
)

const (
	PASS_PREDEFINED = -1 // Pass number of predefined symbols.
	LINE_NONE       = -1 // Line index of symbols without a defining line.
)

// Function is a callable block of source lines.
type Function struct {
	Name  string
	Args  []string
	Start int    // Line index of the opening directive.
	End   int    // Line index of the closing directive.
	Scope *Scope // Scope the function was defined in.
}

// Symbol is a named value in a scope.
type Symbol struct {
	Name  string
	Kind  Kind
	Value Value
	Line  int    // Index of the defining line.
	Scope *Scope // Owning scope.

	pass int // Pass of the last assignment.
}

// Pass returns the pass in which the symbol was last assigned.
func (sym *Symbol) Pass() int {
	return sym.pass
}

// Fixed returns true for kinds whose value must converge across passes.
func (k Kind) Fixed() bool {
	return k != KIND_VARIABLE
}
