package asm

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/ezrec/retroasm/arch"
	"github.com/ezrec/retroasm/expr"
	"github.com/ezrec/retroasm/internal"
	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

const (
	PASS_LIMIT      = 8     // Default maximum number of passes.
	ITERATION_LIMIT = 65536 // Default maximum loop iterations and .goto jumps.
	CALL_LIMIT      = 64    // Maximum .function call depth.
)

// Options configures an Assembler.
type Options struct {
	PassLimit      int  // Maximum number of passes before giving up.
	IterationLimit int  // Maximum iterations of one loop, and .goto jumps per pass.
	CaseSensitive  bool // If not set, symbol names are matched case insensitively.
	Verbose        bool // If set, logs every emitted line.
}

// DefaultOptions returns the default assembler options.
func DefaultOptions() Options {
	return Options{
		PassLimit:      PASS_LIMIT,
		IterationLimit: ITERATION_LIMIT,
		CaseSensitive:  true,
	}
}

// Result is the outcome of a pass, or of a complete assembly.
type Result struct {
	Program     *arch.Program // Image generated by the pass.
	Diagnostics Diagnostics   // Diagnostics of the pass.
	Listing     Listing       // Code emitted by each line.
	Passes      int           // Number of passes run.
	NeedsPass   bool          // Symbol values were not yet stable.
}

// Assembler is a multi-pass, block structured assembler.
type Assembler struct {
	Options
	Target    arch.Target    // Code generator.
	Evaluator expr.Evaluator // Expression evaluator.
	Table     *symbol.Table  // Symbols, kept across passes.

	lines   *source.Lines
	outline []int
	env     *expr.Env
	ctx     *arch.Context
	diags   Diagnostics
	listing Listing
	depth   int
	halted  bool
}

var _ expr.Caller = (*Assembler)(nil)

// New creates an assembler for a target. Constants predefined by the
// target are defined first.
func New(target arch.Target, opts Options) (asm *Assembler) {
	if opts.PassLimit <= 0 {
		opts.PassLimit = PASS_LIMIT
	}
	if opts.IterationLimit <= 0 {
		opts.IterationLimit = ITERATION_LIMIT
	}

	asm = &Assembler{
		Options:   opts,
		Target:    target,
		Evaluator: expr.NewStarlark(),
		Table:     symbol.NewTable(opts.CaseSensitive),
	}
	asm.env = &expr.Env{Table: asm.Table, Caller: asm}
	asm.ctx = &arch.Context{Env: asm.env}

	if pre, ok := target.(arch.Predefiner); ok {
		for name, value := range internal.SortedKeys(pre.Predefines()) {
			asm.Table.Predefine(name, value)
		}
	}
	return
}

// Predefine defines a constant visible to every pass.
func (asm *Assembler) Predefine(name string, value symbol.Value) (err error) {
	return asm.Table.Predefine(name, value)
}

// Assemble runs passes over lines until the symbol values converge.
// Diagnostics are those of the final pass.
func (asm *Assembler) Assemble(lines *source.Lines) (result *Result, err error) {
	for passes := 1; ; passes++ {
		result, err = asm.RunPass(lines)
		if result != nil {
			result.Passes = passes
		}
		if err != nil {
			return
		}

		if !result.NeedsPass {
			glog.V(1).Infof("converged after %d passes", passes)
			return
		}

		if passes >= asm.PassLimit {
			err = &ErrNonConvergence{
				Passes:    passes,
				Undefined: asm.Table.Undefined(),
				Changed:   asm.Table.Changed(),
			}
			return
		}
	}
}

// RunPass executes lines once from the top. The symbol table is kept
// from the previous pass; the output image starts empty.
//
// A structural error that aborts the pass is returned as a *Diagnostic,
// and is also the last diagnostic of the result.
func (asm *Assembler) RunPass(lines *source.Lines) (result *Result, err error) {
	asm.lines = lines
	asm.outline = outline(lines)
	asm.ctx.Evaluator = asm.Evaluator
	asm.diags = nil
	asm.listing = nil
	asm.halted = false
	asm.Table.StartPass()
	asm.Target.Reset()

	pass := asm.Table.Pass()
	glog.V(1).Infof("pass %d: %d lines", pass, lines.Len())

	r := asm.newRunner(nil)
	err = r.run()

	result = &Result{
		Program:     asm.Target.Program(),
		Diagnostics: asm.diags,
		Listing:     asm.listing,
		Passes:      pass,
		NeedsPass:   asm.Table.NeedsPass(),
	}

	var diag *Diagnostic
	if errors.As(err, &diag) {
		result.Diagnostics = append(result.Diagnostics, diag)
	}

	glog.V(1).Infof("pass %d: undefined %v, changed %v", pass, asm.Table.Undefined(), asm.Table.Changed())
	return
}

// Call runs the body of a function for a call expression, in a new
// scope below the one the function was defined in.
func (asm *Assembler) Call(fn *symbol.Function, args []symbol.Value) (value symbol.Value, defined bool, err error) {
	if len(args) != len(fn.Args) {
		err = &ErrArguments{Name: fn.Name, Want: len(fn.Args), Got: len(args)}
		return
	}
	if asm.depth >= CALL_LIMIT {
		err = ErrFunctionDepth
		return
	}

	asm.depth++
	table := asm.Table
	line := asm.env.Line
	prev := table.SetCurrent(fn.Scope)
	defer func() {
		table.SetCurrent(prev)
		asm.env.Line = line
		asm.depth--
	}()

	glog.V(2).Infof("call %v%v", fn.Name, args)

	table.Push(fmt.Sprintf("%v#%d", fn.Name, asm.depth))
	for n, name := range fn.Args {
		_, err = table.Define(name, symbol.KIND_VARIABLE, args[n], fn.Start)
		if err != nil {
			return
		}
	}

	r := asm.newRunner(fn)
	err = r.run()
	if err != nil {
		return
	}

	err = table.Pop()
	value, defined = r.result, r.defined
	return
}
