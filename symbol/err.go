package symbol

import (
	"errors"

	"github.com/ezrec/retroasm/translate"
)

var f = translate.From

var (
	ErrScopeUnbalanced = errors.New(f("scope pop without push"))
	ErrSymbolName      = errors.New(f("invalid symbol name"))
)

// ErrRedefined is raised when a constant or label is given a second,
// different value in the same pass.
type ErrRedefined string

func (err ErrRedefined) Error() string {
	return f("symbol '%v' redefined", string(err))
}

// ErrKindMismatch is raised when a name is redefined as a different kind.
type ErrKindMismatch struct {
	Name string
	Kind Kind
	Want Kind
}

func (err *ErrKindMismatch) Error() string {
	return f("symbol '%v' is a %v, not a %v", err.Name, err.Kind, err.Want)
}
