package expr

import (
	"errors"

	"github.com/ezrec/retroasm/translate"
)

var f = translate.From

var (
	ErrExpressionEmpty = errors.New(f("expression missing"))
	ErrIntegerRange    = errors.New(f("integer out of range"))
	ErrNoCaller        = errors.New(f("function calls not available"))
	ErrKeywordArgs     = errors.New(f("keyword arguments not supported"))
)

// ErrExpression wraps an error from parsing or evaluating an expression.
type ErrExpression struct {
	Expr string
	Err  error
}

func (err *ErrExpression) Error() string {
	return f("'%v' %v", err.Expr, err.Err)
}

func (err *ErrExpression) Unwrap() error {
	return err.Err
}

// ErrType is raised when a value has the wrong type for its use.
type ErrType struct {
	Want string
	Got  string
}

func (err *ErrType) Error() string {
	return f("%v expected, got %v", err.Want, err.Got)
}
