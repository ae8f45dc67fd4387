package asm

import (
	"fmt"
	"strings"

	"github.com/ezrec/retroasm/source"
)

// definedForms rewrite the symbol existence tests into plain conditions.
var definedForms = map[string]struct {
	instr  string
	format string
}{
	".ifdef":      {".if", `defined(%q)`},
	".ifndef":     {".if", `not defined(%q)`},
	".elseifdef":  {".elseif", `defined(%q)`},
	".elseifndef": {".elseif", `not defined(%q)`},
}

// normalize replaces an existence test line by the equivalent condition.
// The replacement keeps the index and position of the line.
func (r *runner) normalize(index int, line *source.Line) (*source.Line, error) {
	form, ok := definedForms[line.Instruction]
	if !ok {
		return line, nil
	}

	name := strings.TrimSpace(line.Operand)
	if len(name) == 0 || strings.ContainsAny(name, " \t") {
		return line, ErrConditionMissing
	}

	r.asm.lines.Replace(index, source.Line{
		Label:       line.Label,
		Instruction: form.instr,
		Operand:     fmt.Sprintf(form.format, name),
	})
	return r.asm.lines.At(index), nil
}

// test evaluates the condition of a line. Errors are reported, and both
// errors and unknown values count as false.
func (r *runner) test(line *source.Line, cond string) bool {
	value, defined, err := r.asm.Evaluator.EvaluateCondition(cond, r.asm.env)
	if err != nil {
		r.report(line, err)
		return false
	}
	return defined && value
}

// chain finds the continuation lines and the closing line of the
// conditional opened at index, and checks the shape of the chain.
func (r *runner) chain(index int) (branches []int, end int, err error) {
	lines := r.asm.lines
	open := lines.At(index)

	c := source.NewCursor(lines)
	c.RewindTo(index)

	isBranch := func(here *source.Line) bool {
		return here.Instruction == BLOCK_CONDITIONAL.Close() || BLOCK_CONDITIONAL.Continues(here.Instruction)
	}

	prev := index
	seenElse := false
	for {
		var line *source.Line
		line, err = c.SkipTo(isBranch, BLOCK_CONDITIONAL.Openers(), BLOCK_CONDITIONAL.Close())
		if err != nil {
			err = r.fatal(open, &source.ErrUnterminated{Open: open.Instruction, Close: BLOCK_CONDITIONAL.Close(), Start: open.Position})
			return
		}

		here := c.Index()
		if here == prev+1 {
			err = r.fatal(line, ErrBranchEmpty)
			return
		}
		prev = here

		switch line.Instruction {
		case BLOCK_CONDITIONAL.Close():
			end = here
			return
		case ".else":
			if seenElse {
				err = r.fatal(line, ErrElseDuplicate)
				return
			}
			seenElse = true
		default:
			if seenElse {
				err = r.fatal(line, ErrElseIfAfterElse)
				return
			}
			if len(strings.TrimSpace(line.Operand)) == 0 {
				err = r.fatal(line, ErrConditionMissing)
				return
			}
		}
		branches = append(branches, here)
	}
}

// openConditional starts an .if chain. The body of the first true
// branch runs; the others are skipped.
func (r *runner) openConditional(kind Kind, index int, line *source.Line) (err error) {
	line, err = r.normalize(index, line)
	if err != nil {
		return r.fatal(line, err)
	}
	if len(strings.TrimSpace(line.Operand)) == 0 {
		return r.fatal(line, ErrConditionMissing)
	}

	block := &Block{Kind: kind, Index: index, Line: line}
	block.branches, block.end, err = r.chain(index)
	if err != nil {
		return
	}

	err = r.push(block)
	if err != nil {
		return
	}

	if r.test(line, line.Operand) {
		block.taken = true
		return
	}

	return r.branch(block)
}

// branch moves the cursor into the first continuation of the chain that
// is taken, or onto the closing line if there is none.
func (r *runner) branch(block *Block) (err error) {
	lines := r.asm.lines
	for _, index := range block.branches {
		line := lines.At(index)
		line, err = r.normalize(index, line)
		if err != nil {
			return r.fatal(line, err)
		}

		r.asm.env.Line = index
		if line.Instruction == ".else" || r.test(line, line.Operand) {
			block.taken = true
			r.cursor.RewindTo(index)
			return
		}
	}

	r.cursor.RewindTo(block.end - 1)
	return
}

// nextConditional ends the branch that ran: the rest of the chain is
// skipped.
func (r *runner) nextConditional(block *Block, index int, line *source.Line) (err error) {
	r.cursor.RewindTo(block.end - 1)
	return
}
