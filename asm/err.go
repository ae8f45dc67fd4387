package asm

import (
	"errors"
	"strings"

	"github.com/ezrec/retroasm/translate"
)

var f = translate.From

var (
	// Structural errors
	ErrStackFull        = errors.New(f("blocks nested too deeply"))
	ErrConditionMissing = errors.New(f("condition missing"))
	ErrOperandSyntax    = errors.New(f("operand syntax"))
	ErrElseDuplicate    = errors.New(f(".else duplicated"))
	ErrElseIfAfterElse  = errors.New(f(".elseif after .else"))
	ErrBranchEmpty      = errors.New(f("empty branch"))
	ErrCaseMissing      = errors.New(f("statement before the first .case"))
	ErrCaseFallthrough  = errors.New(f(".case body falls through"))
	ErrCaseDuplicate    = errors.New(f(".case duplicated"))
	ErrDefaultDuplicate = errors.New(f(".default duplicated"))
	ErrGotoLimit        = errors.New(f(".goto limit exceeded"))
	ErrIterationLimit   = errors.New(f("loop iteration limit exceeded"))

	// Statement errors
	ErrBreakOutside    = errors.New(f(".break outside of a loop or .switch"))
	ErrContinueOutside = errors.New(f(".continue outside of a loop"))
	ErrReturnOutside   = errors.New(f(".return outside of a .function"))
	ErrGotoScope       = errors.New(f(".goto target outside of the enclosing block"))
	ErrRepeatCount     = errors.New(f(".repeat count must be an integer"))
	ErrCaseType        = errors.New(f(".case type differs from the .switch"))
	ErrFunctionCode    = errors.New(f("code generation inside a .function is ignored"))
	ErrFunctionDepth   = errors.New(f(".function calls nested too deeply"))
	ErrEnumMember      = errors.New(f(".enum member syntax"))
	ErrPageSize        = errors.New(f(".page size must be positive"))

	// Warnings
	ErrDefaultMissing = errors.New(f(".switch without .default"))
)

// ErrUnexpected is raised by a block directive that does not continue or
// close the innermost open block.
type ErrUnexpected string

func (err ErrUnexpected) Error() string {
	return f("unexpected %v", string(err))
}

// ErrLabelMissing is raised when a .goto target does not exist.
type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

// ErrEnumDuplicate is raised when two enum members are given the same
// explicit value.
type ErrEnumDuplicate int64

func (err ErrEnumDuplicate) Error() string {
	return f(".enum value %v duplicated", int64(err))
}

// ErrUser is the message of an .error, .warn or .echo directive.
type ErrUser string

func (err ErrUser) Error() string {
	return string(err)
}

// ErrArguments is raised when a function is called with the wrong
// number of arguments.
type ErrArguments struct {
	Name string
	Want int
	Got  int
}

func (err *ErrArguments) Error() string {
	return f("%v() takes %v arguments, got %v", err.Name, err.Want, err.Got)
}

// ErrPageCrossed is raised when the code of a .page region crosses a
// page boundary.
type ErrPageCrossed struct {
	Start int64
	End   int64
	Size  int64
}

func (err *ErrPageCrossed) Error() string {
	return f(".page region %#x-%#x crosses a %v unit boundary", err.Start, err.End, err.Size)
}

// ErrNonConvergence is raised when symbol values are still unknown or
// changing after the pass limit.
type ErrNonConvergence struct {
	Passes    int
	Undefined []string
	Changed   []string
}

func (err *ErrNonConvergence) Error() string {
	msg := f("no convergence after %v passes", err.Passes)
	if len(err.Undefined) > 0 {
		msg += f(", undefined: %v", strings.Join(err.Undefined, ", "))
	}
	if len(err.Changed) > 0 {
		msg += f(", changing: %v", strings.Join(err.Changed, ", "))
	}
	return msg
}
