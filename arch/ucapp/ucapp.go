// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package ucapp generates code for the μCAPP content addressable
// parallel processor.
//
// Code is made of 16-bit words, optionally followed by 16-bit
// immediates, stored big endian. The program counter counts words.
// Operands are separated by spaces; an expression containing spaces
// must be parenthesized, or written as `$(expr)`.
package ucapp

import (
	"encoding/binary"
	"strings"

	"github.com/ezrec/retroasm/arch"
	"github.com/ezrec/retroasm/source"
)

const (
	NAME = "ucapp"
)

func init() {
	arch.Register(NAME, func() arch.Target { return New() })
}

// Target is the μCAPP code generator.
type Target struct {
	*arch.Output
}

var _ arch.Target = (*Target)(nil)

// New creates a μCAPP target.
func New() *Target {
	return &Target{
		Output: arch.NewOutput(binary.BigEndian, 2),
	}
}

// Name returns the target name.
func (t *Target) Name() string {
	return NAME
}

// destinations are the writable registers.
var destinations = map[string]Reg{
	"r0":    REG_R0,
	"r1":    REG_R1,
	"r2":    REG_R2,
	"r3":    REG_R3,
	"r4":    REG_R4,
	"r5":    REG_R5,
	"ip":    REG_IP,
	"stack": REG_STACK,
}

// sources are the readable registers. Immediates are handled separately.
var sources = map[string]Reg{
	"r0":    REG_R0,
	"r1":    REG_R1,
	"r2":    REG_R2,
	"r3":    REG_R3,
	"r4":    REG_R4,
	"r5":    REG_R5,
	"ip":    REG_IP,
	"stack": REG_STACK,
	"match": REG_MATCH,
	"mask":  REG_MASK,
	"first": REG_FIRST,
	"count": REG_COUNT,
}

var aluOps = map[string]AluOp{
	"set": ALU_SET,
	"xor": ALU_XOR,
	"and": ALU_AND,
	"or":  ALU_OR,
	"shl": ALU_SHL,
	"shr": ALU_SHR,
	"add": ALU_ADD,
	"sub": ALU_SUB,
}

var channels = map[string]Channel{
	"temp":    CHANNEL_TEMP,
	"depot":   CHANNEL_DEPOT,
	"tape":    CHANNEL_TAPE,
	"vt":      CHANNEL_VT,
	"monitor": CHANNEL_MONITOR,
}

var ioOps = map[string]IoOp{
	"fetch": IO_FETCH,
	"store": IO_STORE,
	"await": IO_AWAIT,
	"alert": IO_ALERT,
}

// handler encodes the arguments of one instruction.
type handler func(e *encoder, cond Cond, args []string) ([]Word, error)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"if":     (*encoder).compare,
		"list":   (*encoder).list,
		"io":     (*encoder).io,
		"alu":    (*encoder).alu,
		"call":   (*encoder).call,
		"vcall":  (*encoder).vcall,
		"jump":   (*encoder).jump,
		"return": (*encoder).ret,
		"exit":   (*encoder).exit,
	}
}

// fields splits an operand at spaces outside quotes and brackets.
func fields(operand string) (words []string) {
	operand = strings.ReplaceAll(operand, "\t", " ")
	for _, word := range source.SplitOperand(operand, ' ') {
		if len(word) > 0 {
			words = append(words, word)
		}
	}
	return
}

func isIoOp(word string) bool {
	_, ok := ioOps[word]
	return ok
}

// canonical rewrites the alternate syntaxes into their base form.
func canonical(words []string) []string {
	var isDst bool
	if len(words) >= 2 {
		_, isDst = destinations[words[1]]
	}

	switch {
	case len(words) >= 2 && words[0] == "write" && words[1] == "list":
		// write list VALUE MASK => list write VALUE MASK
		return append([]string{"list", "write"}, words[2:]...)
	case len(words) >= 2 && words[0] == "write" && words[1] == "first":
		return append([]string{"list", "first"}, words[2:]...)
	case len(words) >= 2 && words[0] == "write" && isDst:
		// write DST VALUE => alu set DST VALUE
		return append([]string{"alu", "set"}, words[1:]...)
	case len(words) == 2 && words[0] == "if" && words[1] == "some?":
		return []string{"if", "gt?", "count", "0"}
	case len(words) == 2 && words[0] == "if" && words[1] == "none?":
		return []string{"if", "eq?", "count", "0"}
	case len(words) == 3 && words[0] == "if" && words[1] == "true?":
		return []string{"if", "ne?", words[2], "0"}
	case len(words) == 3 && words[0] == "if" && words[1] == "false?":
		return []string{"if", "eq?", words[2], "0"}
	case len(words) == 1 && words[0] == "trap":
		return []string{"io", "await", "monitor"}
	case len(words) >= 1 && isIoOp(words[0]):
		// fetch CHANNEL ARG => io fetch CHANNEL ARG
		return append([]string{"io"}, words...)
	case len(words) == 1 && words[0] == "return":
		return []string{"alu", "set", "ip", "stack"}
	case len(words) == 2 && words[0] == "vjump":
		return []string{"alu", "set", "ip", words[1]}
	}
	return words
}

// Emit assembles one line.
func (t *Target) Emit(line *source.Line, ctx *arch.Context) (code []byte, err error) {
	code, ok, err := t.Directive(line, ctx)
	if ok {
		return
	}

	words := append([]string{strings.ToLower(line.Instruction)}, fields(line.Operand)...)

	cond := COND_ALWAYS
	switch words[0] {
	case "?":
		cond = COND_TRUE
		words = words[1:]
	case "!":
		cond = COND_FALSE
		words = words[1:]
	}
	if len(words) == 0 {
		err = ErrOpcodeMissing
		return
	}

	words = canonical(words)
	encode, ok := handlers[words[0]]
	if !ok {
		err = arch.ErrInstruction(line.Instruction)
		return
	}

	e := &encoder{ctx: ctx}
	insts, err := encode(e, cond, words[1:])
	if err != nil {
		return
	}

	var buf []byte
	for _, inst := range insts {
		buf = inst.AppendBinary(buf)
	}
	code = t.Write(buf)
	return
}

// Disassemble returns the assembly form of emitted code.
func (t *Target) Disassemble(code []byte) (text []string) {
	for len(code) > 0 {
		w, err := Decode(code)
		if err != nil {
			break
		}
		text = append(text, w.String())
		code = code[2*w.Len():]
	}
	return
}

// encoder evaluates instruction arguments.
type encoder struct {
	ctx *arch.Context
}

// value evaluates a numeric argument.
func (e *encoder) value(word string) (value uint32, defined bool, err error) {
	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		word = word[1:]
	}
	v, defined, err := e.ctx.Int(word)
	if err != nil || !defined {
		return
	}
	err = arch.Range(v, -0x80000000, 0xffffffff)
	if err != nil {
		return
	}
	value = uint32(v)
	return
}

func split32(value uint32) []uint16 {
	return []uint16{uint16(value >> 16), uint16(value)}
}

// source determines if an argument is a register, a constant or a set
// of immediates. No argument reads as all ones. Unknown values take the
// widest encoding.
func (e *encoder) source(args ...string) (reg Reg, imm []uint16, err error) {
	if len(args) > 1 {
		err = ErrExtraArgs
		return
	}
	if len(args) == 0 {
		reg = REG_ONES
		return
	}

	reg, ok := sources[args[0]]
	if ok {
		return
	}

	value, defined, err := e.value(args[0])
	if err != nil {
		return
	}

	switch {
	case !defined:
		reg = REG_IMM32
		imm = split32(0)
	case value == 0:
		reg = REG_ZERO
	case value == 0xffffffff:
		reg = REG_ONES
	case value <= 0xffff:
		reg = REG_IMM16
		imm = []uint16{uint16(value)}
	default:
		reg = REG_IMM32
		imm = split32(value)
	}
	return
}

// pair evaluates a match and mask pair. The match defaults to zero and
// the mask to all ones.
func (e *encoder) pair(args []string) (a, b Reg, immA, immB []uint16, err error) {
	switch len(args) {
	case 0:
		a = REG_ZERO
		b = REG_ONES
		return
	case 1, 2:
	default:
		err = ErrExtraArgs
		return
	}

	a, immA, err = e.source(args[0])
	if err != nil {
		return
	}
	b, immB, err = e.source(args[1:]...)
	return
}

func (e *encoder) compare(cond Cond, args []string) (words []Word, err error) {
	if len(args) < 1 {
		err = ErrOpcodeMissing
		return
	}
	if len(args) < 3 {
		err = ErrValueMissing
		return
	}
	if len(args) > 3 {
		err = ErrExtraArgs
		return
	}

	a, b, immA, immB, err := e.pair(args[1:])
	if err != nil {
		return
	}

	var op CondOp
	swap := false
	switch args[0] {
	case "eq?":
		op = CMP_EQ
	case "ne?":
		op = CMP_NE
	case "lt?":
		op = CMP_LT
	case "le?":
		op = CMP_LE
	case "gt?":
		op = CMP_LT
		swap = true
	case "ge?":
		op = CMP_LE
		swap = true
	default:
		err = ErrOpcodeInvalid
		return
	}
	if swap {
		a, b = b, a
		immA, immB = immB, immA
	}

	words = append(words, Compare(cond, op, a, b, append(immA, immB...)...))
	return
}

var listOps = map[string]CappOp{
	"all":   CAPP_LIST_ALL,
	"not":   CAPP_LIST_NOT,
	"next":  CAPP_LIST_NEXT,
	"of":    CAPP_SET_OF,
	"only":  CAPP_LIST_ONLY,
	"write": CAPP_WRITE_LIST,
	"first": CAPP_WRITE_FIRST,
}

func (e *encoder) list(cond Cond, args []string) (words []Word, err error) {
	if len(args) < 1 {
		err = ErrOpcodeMissing
		return
	}
	op, ok := listOps[args[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	switch op {
	case CAPP_LIST_ALL, CAPP_LIST_NOT, CAPP_LIST_NEXT:
		if len(args) > 1 {
			err = ErrExtraArgs
			return
		}
		words = append(words, Capp(cond, op, REG_ZERO, REG_ZERO))
		return
	}

	if len(args) < 2 {
		err = ErrValueMissing
		return
	}
	match, mask, immA, immB, err := e.pair(args[1:])
	if err != nil {
		return
	}
	words = append(words, Capp(cond, op, match, mask, append(immA, immB...)...))
	return
}

func (e *encoder) channel(word string) (ch Channel, err error) {
	ch, ok := channels[word]
	if ok {
		return
	}
	value, _, err := e.value(word)
	if err != nil {
		return
	}
	if value >= CHANNEL_LIMIT {
		err = ErrChannelInvalid
		return
	}
	ch = Channel(value)
	return
}

func (e *encoder) io(cond Cond, args []string) (words []Word, err error) {
	if len(args) < 2 {
		err = ErrOpcodeMissing
		return
	}
	op, ok := ioOps[args[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}
	ch, err := e.channel(args[1])
	if err != nil {
		return
	}
	arg, imm, err := e.source(args[2:]...)
	if err != nil {
		return
	}
	if op == IO_AWAIT && arg != REG_ONES && !arg.Writable() {
		err = ErrAwaitInvalid
		return
	}
	words = append(words, Io(cond, op, ch, arg, imm...))
	return
}

func (e *encoder) alu(cond Cond, args []string) (words []Word, err error) {
	if len(args) < 3 {
		err = ErrOpcodeMissing
		return
	}
	if len(args) > 3 {
		err = ErrExtraArgs
		return
	}
	op, ok := aluOps[args[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}
	dst, ok := destinations[args[1]]
	if !ok {
		err = ErrTargetInvalid
		return
	}
	src, imm, err := e.source(args[2])
	if err != nil {
		return
	}
	words = append(words, Alu(cond, op, dst, src, imm...))
	return
}

// address evaluates a jump target, which is always a 32-bit immediate.
func (e *encoder) address(args []string) (imm []uint16, err error) {
	if len(args) < 1 {
		err = ErrOpcodeMissing
		return
	}
	if len(args) > 1 {
		err = ErrExtraArgs
		return
	}
	value, _, err := e.value(args[0])
	if err != nil {
		return
	}
	imm = split32(value)
	return
}

// pushReturn saves the address after the call on the stack.
func pushReturn(cond Cond) []Word {
	return []Word{
		Alu(cond, ALU_SET, REG_STACK, REG_IMM16, 1),
		Alu(cond, ALU_ADD, REG_STACK, REG_IP),
	}
}

func (e *encoder) call(cond Cond, args []string) (words []Word, err error) {
	imm, err := e.address(args)
	if err != nil {
		return
	}
	words = append(pushReturn(cond), Alu(cond, ALU_SET, REG_IP, REG_IMM32, imm...))
	return
}

func (e *encoder) vcall(cond Cond, args []string) (words []Word, err error) {
	if len(args) < 1 {
		err = ErrOpcodeMissing
		return
	}
	arg, imm, err := e.source(args...)
	if err != nil {
		return
	}
	words = append(pushReturn(cond), Alu(cond, ALU_SET, REG_IP, arg, imm...))
	return
}

func (e *encoder) jump(cond Cond, args []string) (words []Word, err error) {
	imm, err := e.address(args)
	if err != nil {
		return
	}
	words = append(words, Alu(cond, ALU_SET, REG_IP, REG_IMM32, imm...))
	return
}

func (e *encoder) ret(cond Cond, args []string) (words []Word, err error) {
	if len(args) > 0 {
		err = ErrExtraArgs
		return
	}
	words = append(words, Alu(cond, ALU_SET, REG_IP, REG_STACK))
	return
}

func (e *encoder) exit(cond Cond, args []string) (words []Word, err error) {
	if len(args) > 0 {
		err = ErrExtraArgs
		return
	}
	words = append(words, Exit(cond))
	return
}
