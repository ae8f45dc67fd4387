package asm

import (
	"slices"
)

// Kind is the kind of a block.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	BLOCK_SCOPE            = Kind(0)  // .block
	BLOCK_CONDITIONAL      = Kind(1)  // .if
	BLOCK_CONDITIONAL_DEF  = Kind(2)  // .ifdef
	BLOCK_CONDITIONAL_NDEF = Kind(3)  // .ifndef
	BLOCK_FOR_NEXT         = Kind(4)  // .for
	BLOCK_FOR_EACH         = Kind(5)  // .foreach
	BLOCK_FUNCTIONAL       = Kind(6)  // .function
	BLOCK_REPEAT           = Kind(7)  // .repeat
	BLOCK_SWITCH           = Kind(8)  // .switch
	BLOCK_WHILE            = Kind(9)  // .while
	BLOCK_DO_WHILE         = Kind(10) // .do
	BLOCK_PAGE             = Kind(11) // .page
	BLOCK_ENUM             = Kind(12) // .enum
)

// directive describes the keywords and capabilities of a block kind.
type directive struct {
	close         string
	continues     []string
	allowBreak    bool
	allowContinue bool
}

var directives = map[Kind]directive{
	BLOCK_SCOPE:            {close: ".endblock"},
	BLOCK_CONDITIONAL:      {close: ".endif", continues: conditionalContinues},
	BLOCK_CONDITIONAL_DEF:  {close: ".endif", continues: conditionalContinues},
	BLOCK_CONDITIONAL_NDEF: {close: ".endif", continues: conditionalContinues},
	BLOCK_FOR_NEXT:         {close: ".next", allowBreak: true, allowContinue: true},
	BLOCK_FOR_EACH:         {close: ".next", allowBreak: true, allowContinue: true},
	BLOCK_FUNCTIONAL:       {close: ".endfunction"},
	BLOCK_REPEAT:           {close: ".endrepeat", allowBreak: true, allowContinue: true},
	BLOCK_SWITCH:           {close: ".endswitch", continues: []string{".case", ".default"}, allowBreak: true},
	BLOCK_WHILE:            {close: ".endwhile", allowBreak: true, allowContinue: true},
	BLOCK_DO_WHILE:         {close: ".whiletrue", allowBreak: true, allowContinue: true},
	BLOCK_PAGE:             {close: ".endpage"},
	BLOCK_ENUM:             {close: ".endenum"},
}

var conditionalContinues = []string{".elseif", ".elseifdef", ".elseifndef", ".else"}

var (
	openers   = map[string]Kind{}     // Opening keyword to kind.
	keywords  = map[string]bool{}     // Every continuation and closing keyword.
	openerSet = map[string][]string{} // Closing keyword to the opening keywords it closes.
)

func init() {
	for kind := BLOCK_SCOPE; kind <= BLOCK_ENUM; kind++ {
		dir := directives[kind]
		openers[kind.Open()] = kind
		keywords[dir.close] = true
		for _, word := range dir.continues {
			keywords[word] = true
		}
		openerSet[dir.close] = append(openerSet[dir.close], kind.Open())
	}
}

// Open returns the opening keyword of the kind.
func (kind Kind) Open() string {
	return kind.String()
}

// Close returns the closing keyword of the kind.
func (kind Kind) Close() string {
	return directives[kind].close
}

// Openers returns every opening keyword closed by the closing keyword of
// the kind. Nesting is counted over all of them.
func (kind Kind) Openers() []string {
	return openerSet[kind.Close()]
}

// Continues returns true if word is a continuation keyword of the kind.
func (kind Kind) Continues(word string) bool {
	return slices.Contains(directives[kind].continues, word)
}

// AllowBreak returns true if .break may leave a block of the kind.
func (kind Kind) AllowBreak() bool {
	return directives[kind].allowBreak
}

// AllowContinue returns true if .continue may restart a block of the kind.
func (kind Kind) AllowContinue() bool {
	return directives[kind].allowContinue
}
