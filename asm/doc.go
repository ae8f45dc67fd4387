// Package asm is the pass driver of the assembler.
//
// A pass runs a cursor over the parsed lines from the top. Block
// directives (.if, the loops, .switch, .block, .function, .enum and
// .page) are executed by moving the cursor: a false branch is skipped,
// and a loop rewinds to its opening line at its closing line. Every
// other line goes to the code generator of the target.
//
// Symbol values are kept from one pass to the next, so that forward
// references resolve. Assemble runs passes until no symbol is undefined
// or changing, or until the pass limit.
package asm
