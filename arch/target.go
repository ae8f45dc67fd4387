// Package arch defines the code generation contract of the assembler.
//
// A Target turns ordinary source lines into machine code for one CPU
// family. Targets share the data directives and the memory image
// implemented here, and register themselves by name so that the command
// line can select one.
package arch

import (
	"github.com/ezrec/retroasm/expr"
	"github.com/ezrec/retroasm/internal"
	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

// Context is the evaluation state for an emitted line.
type Context struct {
	Evaluator expr.Evaluator
	Env       *expr.Env
}

// Value evaluates an operand expression.
func (ctx *Context) Value(text string) (value symbol.Value, defined bool, err error) {
	return ctx.Evaluator.Evaluate(text, ctx.Env)
}

// Int evaluates an operand expression that must be an integer. A one
// character string stands for its character code.
func (ctx *Context) Int(text string) (value int64, defined bool, err error) {
	v, defined, err := ctx.Value(text)
	if err != nil || !defined {
		return
	}
	if str, ok := v.(string); ok && len(str) == 1 {
		value = int64(str[0])
		return
	}
	value, ok := symbol.AsInt(v)
	if !ok {
		err = &expr.ErrExpression{Expr: text, Err: &expr.ErrType{Want: "int", Got: symbol.TypeName(v)}}
	}
	return
}

// Target generates machine code for one CPU family.
type Target interface {
	// Name returns the registered name of the target.
	Name() string
	// Reset prepares the target for a new pass.
	Reset()
	// PC returns the current output address, in target address units.
	PC() int64
	// Emit generates the code for one line, returning the bytes emitted.
	Emit(line *source.Line, ctx *Context) (code []byte, err error)
	// Program returns the image generated during the current pass.
	Program() *Program
}

var targets = map[string]func() Target{}

// Register makes a target available by name.
func Register(name string, create func() Target) {
	targets[name] = create
}

// New creates a target by name.
func New(name string) (target Target, err error) {
	create, ok := targets[name]
	if !ok {
		err = ErrTargetUnknown
		return
	}
	target = create()
	return
}

// Names returns the registered target names in order.
func Names() (names []string) {
	for name := range internal.SortedKeys(targets) {
		names = append(names, name)
	}
	return
}

// Range checks that value fits in [lo, hi].
func Range(value, lo, hi int64) (err error) {
	if value < lo || value > hi {
		err = &ErrRange{Value: value, Min: lo, Max: hi}
	}
	return
}

// Predefiner is implemented by targets that predefine constants, such
// as the addresses of their memory map.
type Predefiner interface {
	Predefines() map[string]symbol.Value
}
