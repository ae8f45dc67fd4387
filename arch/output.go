package arch

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

// Output is the program counter and memory image shared by targets,
// along with the data directives that write to it.
type Output struct {
	Order binary.ByteOrder // Byte order of multi-byte data.
	Unit  int              // Bytes per address unit.

	pc      int64
	program *Program
}

// NewOutput creates an output image.
func NewOutput(order binary.ByteOrder, unit int) (out *Output) {
	out = &Output{Order: order, Unit: unit}
	out.Reset()
	return
}

// Reset clears the image and the program counter.
func (out *Output) Reset() {
	out.pc = 0
	out.program = &Program{}
}

// PC returns the current address in address units.
func (out *Output) PC() int64 {
	return out.pc
}

// SetPC moves the current address.
func (out *Output) SetPC(pc int64) (err error) {
	err = Range(pc, 0, math.MaxInt64/int64(out.Unit))
	if err != nil {
		return
	}
	out.pc = pc
	return
}

// Program returns the image written so far.
func (out *Output) Program() *Program {
	return out.program
}

// Write places data at the current address and advances it. Data is
// padded with zeros to a whole number of address units.
func (out *Output) Write(data []byte) (code []byte) {
	code = data
	if rem := len(code) % out.Unit; rem != 0 {
		code = append(code, make([]byte, out.Unit-rem)...)
	}
	out.program.Write(out.pc*int64(out.Unit), code)
	out.pc += int64(len(code) / out.Unit)
	return
}

// Directive handles the data directives common to all targets. It
// returns ok if the line was one of them.
func (out *Output) Directive(line *source.Line, ctx *Context) (code []byte, ok bool, err error) {
	ok = true
	switch line.Instruction {
	case ".org":
		err = out.org(line.Operand, ctx)
	case ".byte", ".db":
		code, err = out.data(line.Operand, ctx, 1)
	case ".word", ".dw":
		code, err = out.data(line.Operand, ctx, 2)
	case ".dword", ".dd":
		code, err = out.data(line.Operand, ctx, 4)
	case ".text":
		code, err = out.text(line.Operand, ctx, false)
	case ".string":
		code, err = out.text(line.Operand, ctx, true)
	case ".fill":
		code, err = out.fill(line.Operand, ctx)
	case ".align":
		code, err = out.align(line.Operand, ctx)
	case ".ds", ".res":
		err = out.reserve(line.Operand, ctx)
	default:
		ok = false
	}
	return
}

func (out *Output) org(operand string, ctx *Context) (err error) {
	pc, defined, err := ctx.Int(operand)
	if err != nil || !defined {
		return
	}
	err = out.SetPC(pc)
	return
}

// appendValue encodes a value as size byte wide elements.
func (out *Output) appendValue(buf []byte, operand string, value symbol.Value, size int) ([]byte, error) {
	switch value := value.(type) {
	case int64:
		width := uint(8 * size)
		err := Range(value, -(int64(1) << (width - 1)), (int64(1)<<width)-1)
		if err != nil {
			return buf, err
		}
		var tmp [8]byte
		switch size {
		case 1:
			tmp[0] = byte(value)
		case 2:
			out.Order.PutUint16(tmp[:], uint16(value))
		case 4:
			out.Order.PutUint32(tmp[:], uint32(value))
		}
		return append(buf, tmp[:size]...), nil
	case bool:
		v := int64(0)
		if value {
			v = 1
		}
		return out.appendValue(buf, operand, v, size)
	case string:
		for _, c := range []byte(value) {
			buf, _ = out.appendValue(buf, operand, int64(c), size)
		}
		return buf, nil
	case []symbol.Value:
		var err error
		for _, elem := range value {
			buf, err = out.appendValue(buf, operand, elem, size)
			if err != nil {
				return buf, err
			}
		}
		return buf, nil
	}
	return buf, &ErrOperandType{Operand: operand, Type: symbol.TypeName(value)}
}

// data emits a list of size byte wide values. An undefined value
// takes a single element.
func (out *Output) data(operand string, ctx *Context, size int) (code []byte, err error) {
	fields := source.SplitOperand(operand, ',')
	if len(fields) == 0 {
		err = ErrOperandMissing
		return
	}

	var buf []byte
	for _, field := range fields {
		var value symbol.Value
		var defined bool
		value, defined, err = ctx.Value(field)
		if err != nil {
			return
		}
		if !defined {
			buf = append(buf, make([]byte, size)...)
			continue
		}
		buf, err = out.appendValue(buf, field, value, size)
		if err != nil {
			return
		}
	}

	code = out.Write(buf)
	return
}

// text emits string operands, optionally NUL terminated.
func (out *Output) text(operand string, ctx *Context, terminate bool) (code []byte, err error) {
	fields := source.SplitOperand(operand, ',')
	if len(fields) == 0 {
		err = ErrOperandMissing
		return
	}

	var buf []byte
	for _, field := range fields {
		var value symbol.Value
		var defined bool
		value, defined, err = ctx.Value(field)
		if err != nil {
			return
		}
		if !defined {
			continue
		}
		str, ok := value.(string)
		if !ok {
			err = &ErrOperandType{Operand: field, Type: symbol.TypeName(value)}
			return
		}
		buf = append(buf, str...)
	}
	if terminate {
		buf = append(buf, 0)
	}

	code = out.Write(buf)
	return
}

// countValue evaluates `count [, value]` operands.
func countValue(operand string, ctx *Context) (count int64, value byte, err error) {
	fields := source.SplitOperand(operand, ',')
	switch len(fields) {
	case 0:
		err = ErrOperandMissing
		return
	case 1, 2:
	default:
		err = ErrOperandExtra
		return
	}

	count, _, err = ctx.Int(fields[0])
	if err != nil {
		return
	}
	err = Range(count, 0, math.MaxInt32)
	if err != nil {
		return
	}

	if len(fields) == 2 {
		var v int64
		v, _, err = ctx.Int(fields[1])
		if err != nil {
			return
		}
		err = Range(v, -128, 255)
		if err != nil {
			return
		}
		value = byte(v)
	}
	return
}

// fill emits count bytes of a value.
func (out *Output) fill(operand string, ctx *Context) (code []byte, err error) {
	count, value, err := countValue(operand, ctx)
	if err != nil {
		return
	}

	buf := make([]byte, count)
	for n := range buf {
		buf[n] = value
	}
	code = out.Write(buf)
	return
}

// align pads to a multiple of a power of two address units.
func (out *Output) align(operand string, ctx *Context) (code []byte, err error) {
	align, value, err := countValue(operand, ctx)
	if err != nil {
		return
	}
	if align == 0 {
		// Undefined alignment.
		return
	}
	if bits.OnesCount64(uint64(align)) != 1 {
		err = ErrAlign
		return
	}

	pad := (align - out.pc%align) % align
	buf := make([]byte, pad*int64(out.Unit))
	for n := range buf {
		buf[n] = value
	}
	code = out.Write(buf)
	return
}

// reserve skips address units without writing them.
func (out *Output) reserve(operand string, ctx *Context) (err error) {
	count, _, err := countValue(operand, ctx)
	if err != nil {
		return
	}
	out.pc += count
	return
}
