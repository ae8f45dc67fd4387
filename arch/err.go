package arch

import (
	"errors"

	"github.com/ezrec/retroasm/translate"
)

var f = translate.From

var (
	ErrOperandMissing = errors.New(f("operand missing"))
	ErrOperandExtra   = errors.New(f("excessive operands"))
	ErrAlign          = errors.New(f(".align must be a positive power of two"))
	ErrTargetUnknown  = errors.New(f("unknown target"))
)

// ErrRange is raised when a value does not fit its encoding.
type ErrRange struct {
	Value int64
	Min   int64
	Max   int64
}

func (err *ErrRange) Error() string {
	return f("value %#x out of range [%#x, %#x]", err.Value, err.Min, err.Max)
}

// ErrInstruction is raised for an instruction the target does not know.
type ErrInstruction string

func (err ErrInstruction) Error() string {
	return f("instruction '%v' invalid", string(err))
}

// ErrOperandType is raised for an operand of the wrong type.
type ErrOperandType struct {
	Operand string
	Type    string
}

func (err *ErrOperandType) Error() string {
	return f("operand '%v' has unexpected type %v", err.Operand, err.Type)
}
