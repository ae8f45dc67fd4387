package asm

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/retroasm/arch"
	"github.com/ezrec/retroasm/source"
)

// Record is the code emitted by one executed line. A line run by a loop
// has a record per iteration.
type Record struct {
	Index    int             // Arena index of the line.
	Position source.Position // Source position of the line.
	Addr     int64           // Address of the code, in target units.
	Code     []byte          // Emitted bytes.
	Text     string          // Source text of the line.
}

// Listing is the code emitted by a pass, in execution order.
type Listing []Record

// Disassembler is implemented by targets that can decode their code for
// a listing.
type Disassembler interface {
	Disassemble(code []byte) []string
}

// Write prints the listing: address, code and source text of every
// record. If the target is a Disassembler, the decoded code follows.
func (listing Listing) Write(w io.Writer, target arch.Target) (err error) {
	dis, _ := target.(Disassembler)

	for _, rec := range listing {
		text := rec.Text
		if dis != nil && len(rec.Code) > 0 {
			if decoded := dis.Disassemble(rec.Code); len(decoded) > 0 {
				text = fmt.Sprintf("%-32s ; %s", text, strings.Join(decoded, "; "))
			}
		}
		_, err = fmt.Fprintf(w, "%-16v %06x  %-24s %s\n", rec.Position, rec.Addr, fmt.Sprintf("% x", rec.Code), text)
		if err != nil {
			return
		}
	}
	return
}
