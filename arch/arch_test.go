package arch

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/retroasm/expr"
	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

func newContext() *Context {
	table := symbol.NewTable(true)
	table.StartPass()
	return &Context{
		Evaluator: expr.NewStarlark(),
		Env:       &expr.Env{Table: table},
	}
}

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.True(prog.Empty())
	assert.Nil(prog.Binary(0))

	prog.Write(0x10, []byte{1, 2})
	prog.Write(0x12, []byte{3})
	prog.Write(0x08, []byte{9})
	prog.Write(0x11, []byte{7})

	assert.Equal(3, len(prog.Segments))
	assert.Equal(int64(0x08), prog.Origin())
	assert.Equal([]byte{9, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 1, 7, 3}, prog.Binary(0xff))

	var addrs []int64
	for addr := range prog.Bytes() {
		addrs = append(addrs, addr)
	}
	assert.Equal([]int64{0x08, 0x10, 0x11, 0x12, 0x11}, addrs)
}

func TestOutputDirectives(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		order binary.ByteOrder
		unit  int
		line  source.Line
		code  []byte
		pc    int64
	}){
		{binary.LittleEndian, 1, source.Line{Instruction: ".byte", Operand: "1, $ff, -1, \"AB\""}, []byte{1, 0xff, 0xff, 'A', 'B'}, 5},
		{binary.LittleEndian, 1, source.Line{Instruction: ".word", Operand: "$1234, 2"}, []byte{0x34, 0x12, 2, 0}, 4},
		{binary.BigEndian, 1, source.Line{Instruction: ".word", Operand: "$1234"}, []byte{0x12, 0x34}, 2},
		{binary.LittleEndian, 1, source.Line{Instruction: ".dword", Operand: "$12345678"}, []byte{0x78, 0x56, 0x34, 0x12}, 4},
		{binary.LittleEndian, 1, source.Line{Instruction: ".text", Operand: "\"hi\""}, []byte("hi"), 2},
		{binary.LittleEndian, 1, source.Line{Instruction: ".string", Operand: "\"hi\""}, []byte{'h', 'i', 0}, 3},
		{binary.LittleEndian, 1, source.Line{Instruction: ".fill", Operand: "3, $ea"}, []byte{0xea, 0xea, 0xea}, 3},
		{binary.LittleEndian, 1, source.Line{Instruction: ".byte", Operand: "[1, 2] + [3]"}, []byte{1, 2, 3}, 3},
		{binary.BigEndian, 2, source.Line{Instruction: ".byte", Operand: "1, 2, 3"}, []byte{1, 2, 3, 0}, 2},
		{binary.LittleEndian, 1, source.Line{Instruction: ".ds", Operand: "4"}, nil, 4},
		{binary.LittleEndian, 1, source.Line{Instruction: ".org", Operand: "$c000"}, nil, 0xc000},
	}

	for _, entry := range table {
		out := NewOutput(entry.order, entry.unit)
		code, ok, err := out.Directive(&entry.line, newContext())
		assert.True(ok, entry.line.String())
		assert.NoError(err, entry.line.String())
		assert.Equal(entry.code, code, entry.line.String())
		assert.Equal(entry.pc, out.PC(), entry.line.String())
	}

	out := NewOutput(binary.LittleEndian, 1)
	_, ok, _ := out.Directive(&source.Line{Instruction: "lda"}, newContext())
	assert.False(ok)
}

func TestOutputAlign(t *testing.T) {
	assert := assert.New(t)

	out := NewOutput(binary.LittleEndian, 1)
	ctx := newContext()

	out.Write([]byte{1, 2, 3})
	code, _, err := out.Directive(&source.Line{Instruction: ".align", Operand: "4"}, ctx)
	assert.NoError(err)
	assert.Equal([]byte{0}, code)
	assert.Equal(int64(4), out.PC())

	code, _, err = out.Directive(&source.Line{Instruction: ".align", Operand: "4"}, ctx)
	assert.NoError(err)
	assert.Equal(0, len(code))

	_, _, err = out.Directive(&source.Line{Instruction: ".align", Operand: "3"}, ctx)
	assert.ErrorIs(err, ErrAlign)

	assert.Equal([]byte{1, 2, 3, 0}, out.Program().Binary(0))
}

func TestOutputErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line source.Line
		err  error
	}){
		{source.Line{Instruction: ".byte"}, ErrOperandMissing},
		{source.Line{Instruction: ".fill", Operand: "1, 2, 3"}, ErrOperandExtra},
	}
	for _, entry := range table {
		out := NewOutput(binary.LittleEndian, 1)
		_, _, err := out.Directive(&entry.line, newContext())
		assert.ErrorIs(err, entry.err, entry.line.String())
	}

	out := NewOutput(binary.LittleEndian, 1)
	_, _, err := out.Directive(&source.Line{Instruction: ".byte", Operand: "256"}, newContext())
	var er *ErrRange
	assert.True(errors.As(err, &er))

	_, _, err = out.Directive(&source.Line{Instruction: ".text", Operand: "12"}, newContext())
	var et *ErrOperandType
	assert.True(errors.As(err, &et))

	_, _, err = out.Directive(&source.Line{Instruction: ".org", Operand: "-1"}, newContext())
	assert.True(errors.As(err, &er))
}

func TestOutputUndefined(t *testing.T) {
	assert := assert.New(t)

	out := NewOutput(binary.LittleEndian, 1)
	ctx := newContext()

	code, _, err := out.Directive(&source.Line{Instruction: ".word", Operand: "LATER, 1"}, ctx)
	assert.NoError(err)
	assert.Equal([]byte{0, 0, 1, 0}, code)
	assert.True(ctx.Env.Table.NeedsPass())

	_, _, err = out.Directive(&source.Line{Instruction: ".org", Operand: "WHERE"}, ctx)
	assert.NoError(err)
	assert.Equal(int64(4), out.PC())
}

type nullTarget struct {
	*Output
}

func (nt *nullTarget) Name() string { return "null" }

func (nt *nullTarget) Emit(line *source.Line, ctx *Context) (code []byte, err error) {
	code, ok, err := nt.Directive(line, ctx)
	if !ok {
		err = ErrInstruction(line.Instruction)
	}
	return
}

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	Register("null", func() Target { return &nullTarget{Output: NewOutput(binary.LittleEndian, 1)} })

	target, err := New("null")
	assert.NoError(err)
	assert.Equal("null", target.Name())
	assert.Contains(Names(), "null")

	_, err = target.Emit(&source.Line{Instruction: "nop"}, newContext())
	var ei ErrInstruction
	assert.True(errors.As(err, &ei))

	_, err = New("z80")
	assert.ErrorIs(err, ErrTargetUnknown)
}
