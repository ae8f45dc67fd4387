package source

import (
	"errors"

	"github.com/ezrec/retroasm/translate"
)

var f = translate.From

var (
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endmacro"))
	ErrMacroLonelyEndm = errors.New(f(".endmacro without .macro"))
	ErrMacroArguments  = errors.New(f("macro argument count mismatch"))
	ErrMacroRecursion  = errors.New(f("macro expansion too deep"))
	ErrQuote           = errors.New(f("unterminated quote"))
)

// ErrSyntax locates an error at a source position.
type ErrSyntax struct {
	Position Position
	Line     string
	Err      error
}

func (err *ErrSyntax) Error() string {
	if len(err.Line) == 0 {
		return f("%v: %v", err.Position, err.Err)
	}
	return f("%v: '%v' %v", err.Position, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrUnterminated is raised when a forward scan runs off the end of
// the source before finding the closing directive of a block.
type ErrUnterminated struct {
	Open  string   // Opening directive.
	Close string   // Expected closing directive.
	Start Position // Position of the opening line.
}

func (err *ErrUnterminated) Error() string {
	return f("%v: unterminated %v, missing %v", err.Start, err.Open, err.Close)
}
