package asm

import (
	"regexp"
	"strings"

	"github.com/ezrec/retroasm/expr"
	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

const (
	PAGE_SIZE = 256 // Default .page size, in address units.
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// blockName returns the name given to a block by its label or operand.
// Anonymous labels do not name blocks.
func blockName(line *source.Line) string {
	if _, anon := line.AnonymousLabel(); len(line.Label) > 0 && !anon {
		return line.Label
	}
	return strings.TrimSpace(line.Operand)
}

// openScope starts `.block [name]`.
func (r *runner) openScope(index int, line *source.Line) (err error) {
	name := blockName(line)
	if len(name) > 0 && !identRe.MatchString(name) {
		return r.fatal(line, ErrOperandSyntax)
	}

	block := &Block{Kind: BLOCK_SCOPE, Index: index, Line: line}
	err = r.push(block)
	if err != nil {
		return
	}
	r.enter(block, name)
	return
}

var signatureRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(?:\((.*)\))?$`)

// signature parses `.function name(args)` and `name .function args`.
func signature(line *source.Line) (name string, args []string, ok bool) {
	operand := strings.TrimSpace(line.Operand)

	var list string
	if len(line.Label) > 0 {
		name = line.Label
		list = strings.TrimSuffix(strings.TrimPrefix(operand, "("), ")")
	} else {
		m := signatureRe.FindStringSubmatch(operand)
		if m == nil {
			return
		}
		name, list = m[1], m[2]
	}
	if !identRe.MatchString(name) {
		return
	}

	for _, arg := range source.SplitOperand(list, ',') {
		if !identRe.MatchString(arg) {
			return
		}
		args = append(args, arg)
	}

	ok = true
	return
}

// openFunction records `.function name(args)` and skips its body, which
// runs when the function is called from an expression.
func (r *runner) openFunction(index int, line *source.Line) (err error) {
	name, args, ok := signature(line)
	if !ok {
		return r.fatal(line, ErrOperandSyntax)
	}

	err = r.skip(BLOCK_FUNCTIONAL, line)
	if err != nil {
		return
	}

	table := r.asm.Table
	fn := &symbol.Function{
		Name:  name,
		Args:  args,
		Start: index,
		End:   r.cursor.Index(),
		Scope: table.Current(),
	}
	_, derr := table.Define(name, symbol.KIND_FUNCTION, fn, index)
	if derr != nil {
		r.report(line, derr)
	}
	return
}

// openEnum starts `.enum [name]`. A named enum is a scope of its own.
func (r *runner) openEnum(index int, line *source.Line) (err error) {
	name := blockName(line)
	if len(name) > 0 && !identRe.MatchString(name) {
		return r.fatal(line, ErrOperandSyntax)
	}

	block := &Block{
		Kind:        BLOCK_ENUM,
		Index:       index,
		Line:        line,
		enumDefined: true,
		enumSeen:    map[int64]bool{},
	}
	err = r.push(block)
	if err != nil {
		return
	}
	if len(name) > 0 {
		r.enter(block, name)
	}
	return
}

// member defines an enum member: `name`, or `name = value`. Members
// without a value follow the previous member.
func (r *runner) member(block *Block, index int, line *source.Line) {
	var name, value string
	switch {
	case len(line.Label) == 0 && !line.IsDirective() && len(line.Instruction) > 0 && len(line.Operand) == 0:
		name = line.Instruction
	case len(line.Label) > 0 && (line.Instruction == "=" || line.Instruction == ".equ"):
		name, value = line.Label, line.Operand
	case len(line.Label) > 0 && len(line.Instruction) == 0:
		name = line.Label
	default:
		r.report(line, ErrEnumMember)
		return
	}

	next, defined := block.enumNext, block.enumDefined
	if len(value) > 0 {
		var err error
		next, defined, err = expr.Int(r.asm.Evaluator, value, r.asm.env)
		if err != nil {
			r.report(line, err)
			return
		}
		if defined {
			if block.enumSeen[next] {
				r.report(line, ErrEnumDuplicate(next))
				return
			}
			block.enumSeen[next] = true
		}
	}

	if defined {
		_, err := r.asm.Table.Define(name, symbol.KIND_LABEL, next, index)
		if err != nil {
			r.report(line, err)
		}
	}

	block.enumNext = next + 1
	block.enumDefined = defined
}

// openPage starts `.page [size]`. The code up to `.endpage` should not
// cross a multiple of size.
func (r *runner) openPage(index int, line *source.Line) (err error) {
	size := int64(PAGE_SIZE)
	if operand := strings.TrimSpace(line.Operand); len(operand) > 0 {
		value, defined, verr := expr.Int(r.asm.Evaluator, operand, r.asm.env)
		switch {
		case verr != nil:
			r.report(line, verr)
		case !defined:
		case value <= 0:
			r.report(line, ErrPageSize)
		default:
			size = value
		}
	}

	block := &Block{
		Kind:      BLOCK_PAGE,
		Index:     index,
		Line:      line,
		pageStart: r.asm.Target.PC(),
		pageSize:  size,
	}
	return r.push(block)
}

func (r *runner) closePage(block *Block, line *source.Line) (err error) {
	start, end, size := block.pageStart, r.asm.Target.PC(), block.pageSize
	if end > start && start/size != (end-1)/size {
		r.warn(line, &ErrPageCrossed{Start: start, End: end, Size: size})
	}
	return r.pop(block, line)
}
