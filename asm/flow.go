package asm

import (
	"strings"

	"github.com/golang/glog"

	"github.com/ezrec/retroasm/source"
)

// unwind skips the rest of the innermost block and closes it.
func (r *runner) unwind(block *Block, line *source.Line) (err error) {
	err = r.skip(block.Kind, line)
	if err != nil {
		return
	}
	return r.pop(block, r.cursor.Current())
}

// doBreak leaves the innermost loop or .switch, and every block inside it.
func (r *runner) doBreak(line *source.Line) (err error) {
	if !r.stack.CanBreak() {
		r.report(line, ErrBreakOutside)
		return
	}

	for {
		block, _ := r.stack.Peek()
		err = r.unwind(block, line)
		if err != nil || block.Kind.AllowBreak() {
			return
		}
	}
}

// doContinue ends the current iteration of the innermost loop, whose
// closing line decides whether to run again.
func (r *runner) doContinue(line *source.Line) (err error) {
	if !r.stack.CanContinue() {
		r.report(line, ErrContinueOutside)
		return
	}

	for {
		block, _ := r.stack.Peek()
		if block.Kind.AllowContinue() {
			err = r.skip(block.Kind, line)
			if err != nil {
				return
			}
			index := r.cursor.Index()
			r.asm.env.Line = index
			return r.close(block, index, r.cursor.Current())
		}

		err = r.unwind(block, line)
		if err != nil {
			return
		}
	}
}

// doReturn ends a function call with an optional value.
func (r *runner) doReturn(line *source.Line) (err error) {
	if r.fn == nil {
		r.report(line, ErrReturnOutside)
		return
	}

	if operand := strings.TrimSpace(line.Operand); len(operand) > 0 {
		value, defined, verr := r.asm.ctx.Value(operand)
		if verr != nil {
			r.report(line, verr)
		}
		r.result, r.defined = value, defined && verr == nil
	}

	for !r.stack.Empty() {
		block, _ := r.stack.Peek()
		err = r.pop(block, line)
		if err != nil {
			return
		}
	}

	r.done = true
	return
}

// doGoto moves execution to a label in the same block as the .goto.
func (r *runner) doGoto(index int, line *source.Line) (err error) {
	name := strings.TrimSpace(line.Operand)
	if len(name) == 0 {
		return r.fatal(line, ErrOperandSyntax)
	}

	target, terr := r.asm.gotoTarget(index, name)
	if terr != nil {
		r.report(line, terr)
		return
	}

	r.gotos++
	if r.gotos > r.asm.IterationLimit {
		return r.fatal(line, ErrGotoLimit)
	}

	glog.V(2).Infof("goto %v at %v", name, r.asm.lines.At(target).Position)
	r.landing = target
	r.cursor.RewindTo(target - 1)
	return
}

// gotoTarget finds the line labeled name that shares the innermost
// enclosing block of the line at index.
func (asm *Assembler) gotoTarget(index int, name string) (target int, err error) {
	found := false
	for n, line := range asm.lines.All() {
		if !asm.sameName(line.Label, name) {
			continue
		}
		found = true
		if asm.outline[n] == asm.outline[index] {
			target = n
			return
		}
	}

	if found {
		err = ErrGotoScope
	} else {
		err = ErrLabelMissing(name)
	}
	return
}

func (asm *Assembler) sameName(a, b string) bool {
	if asm.Table.CaseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// outline maps every line to the index of the opening line of its
// innermost enclosing block, or -1 at the top level. Opening and closing
// lines belong to the enclosing block.
func outline(lines *source.Lines) (parent []int) {
	parent = make([]int, lines.Len())

	var open []int
	top := func() int {
		if len(open) == 0 {
			return -1
		}
		return open[len(open)-1]
	}

	for n, line := range lines.All() {
		if _, ok := openers[line.Instruction]; ok {
			parent[n] = top()
			open = append(open, n)
			continue
		}

		if len(open) > 0 {
			kind := openers[lines.At(top()).Instruction]
			if line.Instruction == kind.Close() {
				open = open[:len(open)-1]
				parent[n] = top()
				continue
			}
		}
		parent[n] = top()
	}
	return
}
