package asm

import (
	"fmt"

	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

// Block is the state of an open block.
type Block struct {
	Kind  Kind
	Index int          // Arena index of the opening line, the rewind target.
	Line  *source.Line // Opening line.

	scopes int // Scopes pushed by the block, innermost last.

	// .if chains and .switch
	branches []int // Continuation lines of the chain.
	end      int   // Index of the closing line.
	taken    bool  // A branch of the chain has run.

	// Loops
	remaining  int64          // .repeat count left.
	iterations int            // Completed iterations.
	cond       string         // Guard expression.
	step       string         // .for step assignment.
	name       string         // .foreach variable.
	items      []symbol.Value // .foreach collection.
	item       int            // .foreach position.

	// .page
	pageStart int64
	pageSize  int64

	// .enum
	enumNext    int64
	enumDefined bool
	enumSeen    map[int64]bool
}

func (block *Block) String() string {
	return fmt.Sprintf("%v@%v", block.Kind, block.Line.Position)
}

// iteration returns the scope name of the current loop iteration.
func (block *Block) iteration() string {
	return fmt.Sprintf("@%d#%d", block.Index, block.iterations)
}
