package asm

import (
	"slices"
	"strings"

	"github.com/ezrec/retroasm/expr"
	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

// caseEnds are the lines that may end the body of a case.
var caseEnds = []string{".case", ".default", ".break", ".continue", ".return"}

// cases is the case table of a .switch.
type cases struct {
	lines map[symbol.Value]int // Case value to the index of its .case line.
	kind  string               // Type name of the case values.
	deflt int                  // Index of the .default line, or -1.
	end   int                  // Index of the .endswitch line.
}

// scan walks the body of the .switch opened at index without running
// it, collecting the case table and checking that no case body falls
// through into the next.
func (r *runner) scan(index int) (table *cases, err error) {
	lines := r.asm.lines
	open := lines.At(index)
	table = &cases{lines: map[symbol.Value]int{}, deflt: -1}

	defer func(line int) { r.asm.env.Line = line }(r.asm.env.Line)

	c := source.NewCursor(lines)
	c.RewindTo(index)

	isCase := func(here *source.Line) bool {
		return here.Instruction == ".case" || here.Instruction == ".default" || here.Instruction == BLOCK_SWITCH.Close()
	}

	first := true
	for {
		var line *source.Line
		line, err = c.SkipTo(isCase, BLOCK_SWITCH.Openers(), BLOCK_SWITCH.Close())
		if err != nil {
			err = r.fatal(open, &source.ErrUnterminated{Open: open.Instruction, Close: BLOCK_SWITCH.Close(), Start: open.Position})
			return
		}

		here := c.Index()
		if line.Instruction == BLOCK_SWITCH.Close() {
			table.end = here
			return
		}

		switch {
		case first && here-1 != index:
			err = r.fatal(lines.At(index+1), ErrCaseMissing)
			return
		case first:
		case !slices.Contains(caseEnds, lines.At(here-1).Instruction):
			err = r.fatal(line, ErrCaseFallthrough)
			return
		}
		first = false

		if line.Instruction == ".default" {
			if table.deflt >= 0 {
				err = r.fatal(line, ErrDefaultDuplicate)
				return
			}
			table.deflt = here
			continue
		}

		err = r.caseValues(table, here, line)
		if err != nil {
			return
		}
	}
}

// caseValues adds the values of a `.case a, b, ...` line to the table.
func (r *runner) caseValues(table *cases, index int, line *source.Line) (err error) {
	fields := source.SplitOperand(line.Operand, ',')
	if len(fields) == 0 {
		return r.fatal(line, ErrOperandSyntax)
	}

	r.asm.env.Line = index
	for _, field := range fields {
		value, defined, verr := r.asm.ctx.Value(field)
		if verr != nil {
			r.report(line, verr)
			continue
		}
		if !defined {
			continue
		}

		kind := symbol.TypeName(value)
		switch {
		case kind != "int" && kind != "string":
			r.report(line, &expr.ErrExpression{Expr: field, Err: &expr.ErrType{Want: "int", Got: kind}})
			continue
		case len(table.kind) == 0:
			table.kind = kind
		case kind != table.kind:
			r.report(line, ErrCaseType)
			continue
		}

		if _, dup := table.lines[value]; dup {
			return r.fatal(line, ErrCaseDuplicate)
		}
		table.lines[value] = index
	}
	return
}

// openSwitch starts `.switch value`. The value is evaluated once, and
// the cursor moves to the matching case, the default, or the end.
func (r *runner) openSwitch(index int, line *source.Line) (err error) {
	operand := strings.TrimSpace(line.Operand)
	if len(operand) == 0 {
		return r.fatal(line, ErrConditionMissing)
	}

	table, err := r.scan(index)
	if err != nil {
		return
	}

	block := &Block{Kind: BLOCK_SWITCH, Index: index, Line: line, end: table.end}
	err = r.push(block)
	if err != nil {
		return
	}

	if table.deflt < 0 {
		r.warn(line, ErrDefaultMissing)
	}

	target := table.end - 1
	value, defined, verr := r.asm.ctx.Value(operand)
	switch {
	case verr != nil:
		r.report(line, verr)
	case !defined:
	case len(table.kind) > 0 && symbol.TypeName(value) != table.kind:
		r.report(line, ErrCaseType)
	default:
		if kind := symbol.TypeName(value); kind == "int" || kind == "string" {
			if at, ok := table.lines[value]; ok {
				target = at
				break
			}
		}
		if table.deflt >= 0 {
			target = table.deflt
		}
	}

	r.cursor.RewindTo(target)
	return
}
