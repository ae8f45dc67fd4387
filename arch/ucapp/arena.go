package ucapp

import (
	"github.com/ezrec/retroasm/symbol"
)

const (
	ARENA_MASK = 0xc_000_0000 // Mask of the arena CAPP data bits.
	ARENA_IO   = 0x0_000_0000 // Input/Output.
	ARENA_TMP  = 0x4_000_0000 // Temporary.
	ARENA_CODE = 0x8_000_0000 // User code.
	ARENA_FREE = 0xc_000_0000 // Unused memory.

	CAPP_SIZE = 8192 // CAPP cells: program text, compiled code and work space.
)

// Predefines returns the arena constants and the CAPP size.
func (t *Target) Predefines() map[string]symbol.Value {
	return map[string]symbol.Value{
		"ARENA_MASK": int64(ARENA_MASK),
		"ARENA_IO":   int64(ARENA_IO),
		"ARENA_TMP":  int64(ARENA_TMP),
		"ARENA_CODE": int64(ARENA_CODE),
		"ARENA_FREE": int64(ARENA_FREE),
		"CAPP_SIZE":  int64(CAPP_SIZE),
	}
}
