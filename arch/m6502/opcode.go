package m6502

// Mode is a 6502 addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMP = Mode(0)  // implied
	MODE_ACC = Mode(1)  // accumulator
	MODE_IMM = Mode(2)  // immediate
	MODE_ZPG = Mode(3)  // zero page
	MODE_ZPX = Mode(4)  // zero page,x
	MODE_ZPY = Mode(5)  // zero page,y
	MODE_ABS = Mode(6)  // absolute
	MODE_ABX = Mode(7)  // absolute,x
	MODE_ABY = Mode(8)  // absolute,y
	MODE_IND = Mode(9)  // indirect
	MODE_IDX = Mode(10) // (indirect,x)
	MODE_IDY = Mode(11) // (indirect),y
	MODE_REL = Mode(12) // relative
)

// Size returns the number of operand bytes of the mode.
func (mode Mode) Size() int {
	switch mode {
	case MODE_IMP, MODE_ACC:
		return 0
	case MODE_ABS, MODE_ABX, MODE_ABY, MODE_IND:
		return 2
	}
	return 1
}

// opcodes maps each documented mnemonic to its encodings.
var opcodes = map[string]map[Mode]byte{
	"adc": {MODE_IMM: 0x69, MODE_ZPG: 0x65, MODE_ZPX: 0x75, MODE_ABS: 0x6d, MODE_ABX: 0x7d, MODE_ABY: 0x79, MODE_IDX: 0x61, MODE_IDY: 0x71},
	"and": {MODE_IMM: 0x29, MODE_ZPG: 0x25, MODE_ZPX: 0x35, MODE_ABS: 0x2d, MODE_ABX: 0x3d, MODE_ABY: 0x39, MODE_IDX: 0x21, MODE_IDY: 0x31},
	"asl": {MODE_ACC: 0x0a, MODE_ZPG: 0x06, MODE_ZPX: 0x16, MODE_ABS: 0x0e, MODE_ABX: 0x1e},
	"bcc": {MODE_REL: 0x90},
	"bcs": {MODE_REL: 0xb0},
	"beq": {MODE_REL: 0xf0},
	"bit": {MODE_ZPG: 0x24, MODE_ABS: 0x2c},
	"bmi": {MODE_REL: 0x30},
	"bne": {MODE_REL: 0xd0},
	"bpl": {MODE_REL: 0x10},
	"brk": {MODE_IMP: 0x00},
	"bvc": {MODE_REL: 0x50},
	"bvs": {MODE_REL: 0x70},
	"clc": {MODE_IMP: 0x18},
	"cld": {MODE_IMP: 0xd8},
	"cli": {MODE_IMP: 0x58},
	"clv": {MODE_IMP: 0xb8},
	"cmp": {MODE_IMM: 0xc9, MODE_ZPG: 0xc5, MODE_ZPX: 0xd5, MODE_ABS: 0xcd, MODE_ABX: 0xdd, MODE_ABY: 0xd9, MODE_IDX: 0xc1, MODE_IDY: 0xd1},
	"cpx": {MODE_IMM: 0xe0, MODE_ZPG: 0xe4, MODE_ABS: 0xec},
	"cpy": {MODE_IMM: 0xc0, MODE_ZPG: 0xc4, MODE_ABS: 0xcc},
	"dec": {MODE_ZPG: 0xc6, MODE_ZPX: 0xd6, MODE_ABS: 0xce, MODE_ABX: 0xde},
	"dex": {MODE_IMP: 0xca},
	"dey": {MODE_IMP: 0x88},
	"eor": {MODE_IMM: 0x49, MODE_ZPG: 0x45, MODE_ZPX: 0x55, MODE_ABS: 0x4d, MODE_ABX: 0x5d, MODE_ABY: 0x59, MODE_IDX: 0x41, MODE_IDY: 0x51},
	"inc": {MODE_ZPG: 0xe6, MODE_ZPX: 0xf6, MODE_ABS: 0xee, MODE_ABX: 0xfe},
	"inx": {MODE_IMP: 0xe8},
	"iny": {MODE_IMP: 0xc8},
	"jmp": {MODE_ABS: 0x4c, MODE_IND: 0x6c},
	"jsr": {MODE_ABS: 0x20},
	"lda": {MODE_IMM: 0xa9, MODE_ZPG: 0xa5, MODE_ZPX: 0xb5, MODE_ABS: 0xad, MODE_ABX: 0xbd, MODE_ABY: 0xb9, MODE_IDX: 0xa1, MODE_IDY: 0xb1},
	"ldx": {MODE_IMM: 0xa2, MODE_ZPG: 0xa6, MODE_ZPY: 0xb6, MODE_ABS: 0xae, MODE_ABY: 0xbe},
	"ldy": {MODE_IMM: 0xa0, MODE_ZPG: 0xa4, MODE_ZPX: 0xb4, MODE_ABS: 0xac, MODE_ABX: 0xbc},
	"lsr": {MODE_ACC: 0x4a, MODE_ZPG: 0x46, MODE_ZPX: 0x56, MODE_ABS: 0x4e, MODE_ABX: 0x5e},
	"nop": {MODE_IMP: 0xea},
	"ora": {MODE_IMM: 0x09, MODE_ZPG: 0x05, MODE_ZPX: 0x15, MODE_ABS: 0x0d, MODE_ABX: 0x1d, MODE_ABY: 0x19, MODE_IDX: 0x01, MODE_IDY: 0x11},
	"pha": {MODE_IMP: 0x48},
	"php": {MODE_IMP: 0x08},
	"pla": {MODE_IMP: 0x68},
	"plp": {MODE_IMP: 0x28},
	"rol": {MODE_ACC: 0x2a, MODE_ZPG: 0x26, MODE_ZPX: 0x36, MODE_ABS: 0x2e, MODE_ABX: 0x3e},
	"ror": {MODE_ACC: 0x6a, MODE_ZPG: 0x66, MODE_ZPX: 0x76, MODE_ABS: 0x6e, MODE_ABX: 0x7e},
	"rti": {MODE_IMP: 0x40},
	"rts": {MODE_IMP: 0x60},
	"sbc": {MODE_IMM: 0xe9, MODE_ZPG: 0xe5, MODE_ZPX: 0xf5, MODE_ABS: 0xed, MODE_ABX: 0xfd, MODE_ABY: 0xf9, MODE_IDX: 0xe1, MODE_IDY: 0xf1},
	"sec": {MODE_IMP: 0x38},
	"sed": {MODE_IMP: 0xf8},
	"sei": {MODE_IMP: 0x78},
	"sta": {MODE_ZPG: 0x85, MODE_ZPX: 0x95, MODE_ABS: 0x8d, MODE_ABX: 0x9d, MODE_ABY: 0x99, MODE_IDX: 0x81, MODE_IDY: 0x91},
	"stx": {MODE_ZPG: 0x86, MODE_ZPY: 0x96, MODE_ABS: 0x8e},
	"sty": {MODE_ZPG: 0x84, MODE_ZPX: 0x94, MODE_ABS: 0x8c},
	"tax": {MODE_IMP: 0xaa},
	"tay": {MODE_IMP: 0xa8},
	"tsx": {MODE_IMP: 0xba},
	"txa": {MODE_IMP: 0x8a},
	"txs": {MODE_IMP: 0x9a},
	"tya": {MODE_IMP: 0x98},
}
