// Package source holds the parsed statement model consumed by the assembler.
//
// Source text is parsed into a Lines arena of Line records, one per logical
// statement, after macro expansion. A Line keeps its arena index for the
// whole assembly, so a Cursor over the arena can rewind to re-execute loop
// bodies or skip forward over false branches using plain integer moves.
package source
