package ucapp

import (
	"encoding/binary"
	"fmt"
)

// Cond is the condition code of an instruction.
type Cond int

//go:generate go tool stringer -linecomment -type=Cond
const (
	COND_ALWAYS = Cond(0) // .
	COND_TRUE   = Cond(1) // +
	COND_FALSE  = Cond(2) // -
	COND_NEVER  = Cond(3) // ~
)

// Class is the instruction class.
type Class int

//go:generate go tool stringer -linecomment -type=Class
const (
	CLASS_ALU  = Class(0) // alu
	CLASS_COND = Class(1) // if
	CLASS_CAPP = Class(2) // list
	CLASS_IO   = Class(3) // io
)

// AluOp is an ALU operation.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_SET = AluOp(0) // set
	ALU_XOR = AluOp(1) // xor
	ALU_AND = AluOp(2) // and
	ALU_OR  = AluOp(3) // or
	ALU_SHL = AluOp(4) // shl
	ALU_SHR = AluOp(5) // shr
	ALU_ADD = AluOp(6) // add
	ALU_SUB = AluOp(7) // sub
)

// CondOp is a comparison.
type CondOp int

//go:generate go tool stringer -linecomment -type=CondOp
const (
	CMP_EQ = CondOp(0) // eq
	CMP_NE = CondOp(1) // ne
	CMP_LT = CondOp(2) // lt
	CMP_LE = CondOp(3) // le
)

// CappOp is a content addressable array operation.
type CappOp int

//go:generate go tool stringer -linecomment -type=CappOp
const (
	CAPP_SWAP        = CappOp(0) // swap
	CAPP_LIST_ALL    = CappOp(1) // all
	CAPP_LIST_NOT    = CappOp(2) // not
	CAPP_LIST_NEXT   = CappOp(3) // next
	CAPP_LIST_ONLY   = CappOp(4) // only
	CAPP_SET_OF      = CappOp(5) // of
	CAPP_WRITE_FIRST = CappOp(6) // wfirst
	CAPP_WRITE_LIST  = CappOp(7) // wlist
)

// IoOp is a channel operation.
type IoOp int

//go:generate go tool stringer -linecomment -type=IoOp
const (
	IO_FETCH = IoOp(0) // fetch
	IO_STORE = IoOp(1) // store
	IO_AWAIT = IoOp(2) // await
	IO_ALERT = IoOp(3) // alert
)

// Reg is a register or immediate source selector.
type Reg int

//go:generate go tool stringer -linecomment -type=Reg
const (
	REG_R0    = Reg(0)  // r0
	REG_R1    = Reg(1)  // r1
	REG_R2    = Reg(2)  // r2
	REG_R3    = Reg(3)  // r3
	REG_R4    = Reg(4)  // r4
	REG_R5    = Reg(5)  // r5
	REG_IP    = Reg(6)  // ip
	REG_STACK = Reg(7)  // stack
	REG_MATCH = Reg(8)  // match
	REG_MASK  = Reg(9)  // mask
	REG_FIRST = Reg(10) // first
	REG_COUNT = Reg(11) // count
	REG_ZERO  = Reg(12) // immz
	REG_ONES  = Reg(13) // immnz
	REG_IMM16 = Reg(14) // imm16
	REG_IMM32 = Reg(15) // imm32
)

// Writable returns true if the register can be a destination.
func (reg Reg) Writable() bool {
	return reg >= REG_R0 && reg <= REG_STACK
}

// Immediates returns the number of immediate words the selector takes.
func (reg Reg) Immediates() int {
	switch reg {
	case REG_IMM16:
		return 1
	case REG_IMM32:
		return 2
	}
	return 0
}

// Channel is an I/O channel index.
type Channel int

const (
	CHANNEL_TEMP    = Channel(0)
	CHANNEL_DEPOT   = Channel(1)
	CHANNEL_TAPE    = Channel(2)
	CHANNEL_VT      = Channel(3)
	CHANNEL_MONITOR = Channel(7)
	CHANNEL_LIMIT   = 8
)

var channelName = map[Channel]string{
	CHANNEL_TEMP:    "temp",
	CHANNEL_DEPOT:   "depot",
	CHANNEL_TAPE:    "tape",
	CHANNEL_VT:      "vt",
	CHANNEL_MONITOR: "monitor",
}

func (ch Channel) String() string {
	name, ok := channelName[ch]
	if !ok {
		return fmt.Sprintf("%d", int(ch))
	}
	return name
}

// Word is an instruction word and its trailing immediates.
type Word struct {
	Op  uint16
	Imm []uint16
}

func makeWord(cond Cond, class Class, op int, a, b int, imm ...uint16) Word {
	return Word{
		Op:  (uint16(cond) << 14) | (uint16(class) << 11) | (uint16(op&7) << 8) | (uint16(a&0xf) << 4) | uint16(b&0xf),
		Imm: imm,
	}
}

// Alu creates an ALU instruction.
func Alu(cond Cond, op AluOp, dst, src Reg, imm ...uint16) Word {
	return makeWord(cond, CLASS_ALU, int(op), int(dst&7), int(src), imm...)
}

// Compare creates a conditional instruction.
func Compare(cond Cond, op CondOp, a, b Reg, imm ...uint16) Word {
	return makeWord(cond, CLASS_COND, int(op), int(a), int(b), imm...)
}

// Capp creates an array instruction.
func Capp(cond Cond, op CappOp, match, mask Reg, imm ...uint16) Word {
	return makeWord(cond, CLASS_CAPP, int(op), int(match), int(mask), imm...)
}

// Io creates a channel instruction.
func Io(cond Cond, op IoOp, channel Channel, arg Reg, imm ...uint16) Word {
	return makeWord(cond, CLASS_IO, int(op), int(channel), int(arg), imm...)
}

// Exit creates the end of program instruction, which sets ip to all ones.
func Exit(cond Cond) Word {
	return Alu(cond, ALU_SET, REG_IP, REG_ONES)
}

// Cond returns the condition code.
func (w Word) Cond() Cond {
	return Cond((w.Op >> 14) & 0x3)
}

// Class returns the instruction class.
func (w Word) Class() Class {
	return Class((w.Op >> 11) & 0x3)
}

// Fields returns the operation and the two selector fields.
func (w Word) Fields() (op int, a, b int) {
	op = int((w.Op >> 8) & 0x7)
	a = int((w.Op >> 4) & 0xf)
	b = int(w.Op & 0xf)
	return
}

// Need returns the number of immediate words the instruction takes.
func (w Word) Need() (need int) {
	_, a, b := w.Fields()
	switch w.Class() {
	case CLASS_ALU, CLASS_IO:
		need = Reg(b).Immediates()
	default:
		need = Reg(a).Immediates() + Reg(b).Immediates()
	}
	return
}

// Len returns the size of the instruction in words.
func (w Word) Len() int {
	return 1 + len(w.Imm)
}

// AppendBinary appends the big endian encoding of the instruction.
func (w Word) AppendBinary(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint16(buf, w.Op)
	for _, imm := range w.Imm {
		buf = binary.BigEndian.AppendUint16(buf, imm)
	}
	return buf
}

// Decode reads one instruction from big endian code.
func Decode(code []byte) (w Word, err error) {
	if len(code) < 2 {
		err = ErrDecode
		return
	}
	w.Op = binary.BigEndian.Uint16(code)
	need := w.Need()
	if len(code) < 2+2*need {
		err = ErrDecode
		return
	}
	for n := range need {
		w.Imm = append(w.Imm, binary.BigEndian.Uint16(code[2+2*n:]))
	}
	return
}

// String returns the assembly form of the instruction.
func (w Word) String() string {
	op, a, b := w.Fields()

	var body string
	switch w.Class() {
	case CLASS_ALU:
		body = fmt.Sprintf("%v %v %v", AluOp(op), Reg(a), Reg(b))
	case CLASS_COND:
		body = fmt.Sprintf("%v? %v %v", CondOp(op), Reg(a), Reg(b))
	case CLASS_CAPP:
		body = fmt.Sprintf("%v %v %v", CappOp(op), Reg(a), Reg(b))
	case CLASS_IO:
		body = fmt.Sprintf("%v %v %v", IoOp(op), Channel(a), Reg(b))
	}

	str := fmt.Sprintf("%v%v %v", w.Cond(), w.Class(), body)
	for _, imm := range w.Imm {
		str += fmt.Sprintf(" 0x%04x", imm)
	}
	return str
}
