// Package expr evaluates operand expressions against the symbol table.
//
// Evaluation never changes control flow. A reference to a symbol that has
// no value yet is not an error: the name is recorded in the symbol table,
// which asks the pass driver for another pass, and the result is reported
// as undefined.
package expr

import (
	"github.com/ezrec/retroasm/symbol"
)

// Caller runs a user defined function for a call expression.
type Caller interface {
	Call(fn *symbol.Function, args []symbol.Value) (value symbol.Value, defined bool, err error)
}

// Env is the context an expression is evaluated in.
type Env struct {
	Table  *symbol.Table
	Line   int    // Arena index of the line being evaluated.
	Caller Caller // Optional, runs user functions.
}

// Evaluator computes expression values.
type Evaluator interface {
	// Evaluate computes the value of an expression.
	Evaluate(text string, env *Env) (value symbol.Value, defined bool, err error)
	// EvaluateCondition computes the truth of an expression.
	EvaluateCondition(text string, env *Env) (cond bool, defined bool, err error)
}

// Int evaluates an expression that must produce an integer.
func Int(ev Evaluator, text string, env *Env) (value int64, defined bool, err error) {
	v, defined, err := ev.Evaluate(text, env)
	if err != nil || !defined {
		return
	}
	value, ok := symbol.AsInt(v)
	if !ok {
		err = &ErrExpression{Expr: text, Err: &ErrType{Want: "int", Got: symbol.TypeName(v)}}
	}
	return
}

// Truth returns the truth of a condition value.
func Truth(v symbol.Value) (cond bool, err error) {
	switch v := v.(type) {
	case bool:
		cond = v
	case int64:
		cond = v != 0
	default:
		err = &ErrType{Want: "bool", Got: symbol.TypeName(v)}
	}
	return
}
