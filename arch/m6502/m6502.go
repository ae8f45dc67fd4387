// Package m6502 generates code for the MOS 6502.
//
// Operands follow the usual syntax: `#expr` immediate (`#<expr` and
// `#>expr` select the low and high byte), `expr`, `expr,x`, `expr,y`,
// `(expr)`, `(expr,x)` and `(expr),y`. A plain address uses zero page
// encoding only once its value is known and below $100; a prefix of
// `a:` forces absolute encoding.
package m6502

import (
	"encoding/binary"
	"strings"

	"github.com/ezrec/retroasm/arch"
	"github.com/ezrec/retroasm/source"
)

const (
	NAME = "m6502"
)

func init() {
	arch.Register(NAME, func() arch.Target { return New() })
}

// Target is the 6502 code generator.
type Target struct {
	*arch.Output
}

var _ arch.Target = (*Target)(nil)

// New creates a 6502 target.
func New() *Target {
	return &Target{
		Output: arch.NewOutput(binary.LittleEndian, 1),
	}
}

// Name returns the target name.
func (t *Target) Name() string {
	return NAME
}

// operand is a parsed instruction operand.
type operand struct {
	mode     Mode   // One of IMP, ACC, IMM, ABS, ABX, ABY, IND, IDX, IDY.
	expr     string // Address or value expression.
	sel      byte   // '<' or '>' byte selection of an immediate.
	absolute bool   // Absolute encoding forced.
}

// parenthesized returns true if text is entirely enclosed by a pair of
// matching parentheses.
func parenthesized(text string) bool {
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return false
	}
	depth := 0
	var quote rune
	for n, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth == 0 && n != len(text)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// parseOperand determines the addressing mode family of an operand.
func parseOperand(text string) (op operand, err error) {
	text = strings.TrimSpace(text)

	switch {
	case len(text) == 0:
		op.mode = MODE_IMP
		return
	case strings.EqualFold(text, "a"):
		op.mode = MODE_ACC
		return
	case strings.HasPrefix(text, "#"):
		op.mode = MODE_IMM
		op.expr = strings.TrimSpace(text[1:])
		if strings.HasPrefix(op.expr, "<") || strings.HasPrefix(op.expr, ">") {
			op.sel = op.expr[0]
			op.expr = strings.TrimSpace(op.expr[1:])
		}
		if len(op.expr) == 0 {
			err = ErrOperandSyntax
		}
		return
	}

	fields := source.SplitOperand(text, ',')
	switch len(fields) {
	case 1:
		op.mode = MODE_ABS
		op.expr = fields[0]
		if parenthesized(op.expr) {
			inner := source.SplitOperand(op.expr[1:len(op.expr)-1], ',')
			switch {
			case len(inner) == 1:
				op.mode = MODE_IND
				op.expr = inner[0]
			case len(inner) == 2 && strings.EqualFold(inner[1], "x"):
				op.mode = MODE_IDX
				op.expr = inner[0]
			default:
				err = ErrOperandSyntax
				return
			}
		}
	case 2:
		index := strings.ToLower(fields[1])
		switch {
		case index == "y" && parenthesized(fields[0]):
			op.mode = MODE_IDY
			op.expr = strings.TrimSpace(fields[0][1 : len(fields[0])-1])
		case index == "x":
			op.mode = MODE_ABX
			op.expr = fields[0]
		case index == "y":
			op.mode = MODE_ABY
			op.expr = fields[0]
		default:
			err = ErrOperandSyntax
			return
		}
	default:
		err = ErrOperandSyntax
		return
	}

	if len(op.expr) > 2 && strings.EqualFold(op.expr[:2], "a:") {
		op.absolute = true
		op.expr = strings.TrimSpace(op.expr[2:])
	}
	if len(op.expr) == 0 {
		err = ErrOperandSyntax
	}
	return
}

// selectMode picks the encoding for an operand. Zero page forms are
// used only for known values that fit.
func selectMode(mnemonic string, modes map[Mode]byte, op operand, value int64, defined bool) (mode Mode, err error) {
	has := func(m Mode) bool {
		_, ok := modes[m]
		return ok
	}
	zero := !op.absolute && defined && value >= 0 && value <= 0xff

	pick := func(zp, abs Mode) Mode {
		switch {
		case zero && has(zp):
			return zp
		case has(abs):
			return abs
		}
		return zp
	}

	switch op.mode {
	case MODE_IMP:
		mode = MODE_IMP
		if has(MODE_ACC) {
			mode = MODE_ACC
		}
	case MODE_ABS:
		mode = pick(MODE_ZPG, MODE_ABS)
		if has(MODE_REL) {
			mode = MODE_REL
		}
	case MODE_IND:
		mode = MODE_IND
		if !has(MODE_IND) {
			// A parenthesized expression.
			mode = pick(MODE_ZPG, MODE_ABS)
		}
	case MODE_ABX:
		mode = pick(MODE_ZPX, MODE_ABX)
	case MODE_ABY:
		mode = pick(MODE_ZPY, MODE_ABY)
	default:
		mode = op.mode
	}

	if !has(mode) {
		err = &ErrMode{Instruction: mnemonic, Mode: op.mode}
	}
	return
}

// Emit assembles one line.
func (t *Target) Emit(line *source.Line, ctx *arch.Context) (code []byte, err error) {
	code, ok, err := t.Directive(line, ctx)
	if ok {
		return
	}

	mnemonic := strings.ToLower(line.Instruction)
	modes, ok := opcodes[mnemonic]
	if !ok {
		err = arch.ErrInstruction(line.Instruction)
		return
	}

	op, err := parseOperand(line.Operand)
	if err != nil {
		return
	}

	var value int64
	defined := true
	if len(op.expr) > 0 {
		value, defined, err = ctx.Int(op.expr)
		if err != nil {
			return
		}
	}

	mode, err := selectMode(mnemonic, modes, op, value, defined)
	if err != nil {
		return
	}

	buf := []byte{modes[mode]}
	if !defined {
		value = 0
	}

	switch mode {
	case MODE_REL:
		offset := int64(0)
		if defined {
			offset = value - (t.PC() + 2)
			if offset < -128 || offset > 127 {
				err = ErrBranch(offset)
				return
			}
		}
		buf = append(buf, byte(offset))
	case MODE_IMM:
		switch op.sel {
		case '<':
			value &= 0xff
		case '>':
			value = (value >> 8) & 0xff
		}
		err = arch.Range(value, -128, 0xff)
		if err != nil {
			return
		}
		buf = append(buf, byte(value))
	default:
		switch mode.Size() {
		case 1:
			err = arch.Range(value, 0, 0xff)
			if err != nil {
				return
			}
			buf = append(buf, byte(value))
		case 2:
			err = arch.Range(value, 0, 0xffff)
			if err != nil {
				return
			}
			buf = binary.LittleEndian.AppendUint16(buf, uint16(value))
		}
	}

	code = t.Write(buf)
	return
}
