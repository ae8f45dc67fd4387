package m6502

import (
	"errors"

	"github.com/ezrec/retroasm/translate"
)

var f = translate.From

var (
	ErrOperandSyntax = errors.New(f("operand syntax"))
)

// ErrMode is raised when an instruction has no encoding for an
// addressing mode.
type ErrMode struct {
	Instruction string
	Mode        Mode
}

func (err *ErrMode) Error() string {
	return f("%v has no %v addressing mode", err.Instruction, err.Mode)
}

// ErrBranch is raised when a branch target is out of reach.
type ErrBranch int64

func (err ErrBranch) Error() string {
	return f("branch offset %v out of range", int64(err))
}
