package asm

import (
	"errors"
	"regexp"
	"strings"

	"github.com/golang/glog"

	"github.com/ezrec/retroasm/expr"
	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

// Loops re-run their body by rewinding the cursor to the opening line.
// Every iteration runs in its own scope, so labels in the body do not
// collide.

// iterate enters the scope of the next iteration.
func (r *runner) iterate(block *Block) {
	r.enter(block, block.iteration())
}

// again counts a completed iteration, enters the next one and rewinds
// to the top of the body.
func (r *runner) again(block *Block, line *source.Line) (err error) {
	block.iterations++
	if block.iterations >= r.asm.IterationLimit {
		return r.fatal(block.Line, ErrIterationLimit)
	}
	r.iterate(block)
	r.cursor.RewindTo(block.Index)
	glog.V(2).Infof("rewind %v at %v, iteration %d", block, line.Position, block.iterations)
	return
}

// openRepeat starts `.repeat count`. The count is evaluated once.
func (r *runner) openRepeat(index int, line *source.Line) (err error) {
	operand := strings.TrimSpace(line.Operand)
	if len(operand) == 0 {
		return r.fatal(line, ErrOperandSyntax)
	}

	count, defined, err := expr.Int(r.asm.Evaluator, operand, r.asm.env)
	if err != nil {
		var et *expr.ErrType
		if errors.As(err, &et) {
			err = ErrRepeatCount
		}
		r.report(line, err)
		return r.skip(BLOCK_REPEAT, line)
	}

	if !defined || count <= 0 {
		return r.skip(BLOCK_REPEAT, line)
	}

	if count > int64(r.asm.IterationLimit) {
		r.report(line, ErrIterationLimit)
		return r.skip(BLOCK_REPEAT, line)
	}

	block := &Block{Kind: BLOCK_REPEAT, Index: index, Line: line, remaining: count}
	err = r.push(block)
	if err != nil {
		return
	}
	r.iterate(block)
	return
}

func (r *runner) closeRepeat(block *Block, line *source.Line) (err error) {
	err = r.leave(block)
	if err != nil {
		return r.fatal(line, err)
	}

	block.remaining--
	if block.remaining > 0 {
		return r.again(block, line)
	}
	return r.pop(block, line)
}

// openWhile starts `.while cond`, tested before every iteration.
func (r *runner) openWhile(index int, line *source.Line) (err error) {
	cond := strings.TrimSpace(line.Operand)
	if len(cond) == 0 {
		return r.fatal(line, ErrConditionMissing)
	}

	if !r.test(line, cond) {
		return r.skip(BLOCK_WHILE, line)
	}

	block := &Block{Kind: BLOCK_WHILE, Index: index, Line: line, cond: cond}
	err = r.push(block)
	if err != nil {
		return
	}
	r.iterate(block)
	return
}

func (r *runner) closeWhile(block *Block, line *source.Line) (err error) {
	err = r.leave(block)
	if err != nil {
		return r.fatal(line, err)
	}

	if r.test(block.Line, block.cond) {
		return r.again(block, line)
	}
	return r.pop(block, line)
}

// openDo starts `.do`, whose `.whiletrue cond` is tested after every
// iteration.
func (r *runner) openDo(index int, line *source.Line) (err error) {
	if len(strings.TrimSpace(line.Operand)) > 0 {
		return r.fatal(line, ErrOperandSyntax)
	}

	block := &Block{Kind: BLOCK_DO_WHILE, Index: index, Line: line}
	err = r.push(block)
	if err != nil {
		return
	}
	r.iterate(block)
	return
}

func (r *runner) closeDo(block *Block, line *source.Line) (err error) {
	cond := strings.TrimSpace(line.Operand)
	if len(cond) == 0 {
		return r.fatal(line, ErrConditionMissing)
	}

	err = r.leave(block)
	if err != nil {
		return r.fatal(line, err)
	}

	if r.test(line, cond) {
		return r.again(block, line)
	}
	return r.pop(block, line)
}

// openFor starts `.for init; cond; step`, or `.for init, cond, step`.
// The loop variable lives in the scope of the loop.
func (r *runner) openFor(index int, line *source.Line) (err error) {
	parts := source.SplitOperand(line.Operand, ';')
	if len(parts) == 1 {
		parts = source.SplitOperand(line.Operand, ',')
	}
	if len(parts) != 3 {
		return r.fatal(line, ErrOperandSyntax)
	}
	if len(parts[1]) == 0 {
		return r.fatal(line, ErrConditionMissing)
	}

	block := &Block{Kind: BLOCK_FOR_NEXT, Index: index, Line: line, cond: parts[1], step: parts[2]}
	r.enter(block, "")
	r.assign(index, line, parts[0])

	if !r.test(line, block.cond) {
		err = r.leave(block)
		if err != nil {
			return r.fatal(line, err)
		}
		return r.skip(BLOCK_FOR_NEXT, line)
	}

	err = r.push(block)
	if err != nil {
		return
	}
	r.iterate(block)
	return
}

func (r *runner) closeFor(block *Block, line *source.Line) (err error) {
	err = r.leave(block)
	if err != nil {
		return r.fatal(line, err)
	}

	r.assign(block.Index, block.Line, block.step)
	if r.test(block.Line, block.cond) {
		return r.again(block, line)
	}
	return r.pop(block, line)
}

var foreachRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s+in\s+(.+)$`)

// openForEach starts `.foreach name in collection`, over the characters
// of a string or the members of a list.
func (r *runner) openForEach(index int, line *source.Line) (err error) {
	m := foreachRe.FindStringSubmatch(strings.TrimSpace(line.Operand))
	if m == nil {
		return r.fatal(line, ErrOperandSyntax)
	}

	value, defined, err := r.asm.ctx.Value(m[2])
	if err != nil {
		r.report(line, err)
		return r.skip(BLOCK_FOR_EACH, line)
	}
	if !defined {
		return r.skip(BLOCK_FOR_EACH, line)
	}

	items, ok := symbol.Elements(value)
	if !ok {
		r.report(line, &expr.ErrExpression{Expr: m[2], Err: &expr.ErrType{Want: "list", Got: symbol.TypeName(value)}})
		return r.skip(BLOCK_FOR_EACH, line)
	}
	if len(items) == 0 {
		return r.skip(BLOCK_FOR_EACH, line)
	}

	block := &Block{Kind: BLOCK_FOR_EACH, Index: index, Line: line, name: m[1], items: items}
	r.enter(block, "")
	r.element(block)

	err = r.push(block)
	if err != nil {
		return
	}
	r.iterate(block)
	return
}

// element binds the loop variable to the current element.
func (r *runner) element(block *Block) {
	_, err := r.asm.Table.Define(block.name, symbol.KIND_VARIABLE, block.items[block.item], block.Index)
	if err != nil {
		r.report(block.Line, err)
	}
}

func (r *runner) closeForEach(block *Block, line *source.Line) (err error) {
	err = r.leave(block)
	if err != nil {
		return r.fatal(line, err)
	}

	block.item++
	if block.item < len(block.items) {
		r.element(block)
		return r.again(block, line)
	}
	return r.pop(block, line)
}
