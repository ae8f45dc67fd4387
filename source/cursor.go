package source

import (
	"slices"
)

// Cursor is a rewindable position in a Lines arena.
//
// A fresh cursor sits before the first line; Advance moves onto it.
type Cursor struct {
	Lines *Lines
	index int
}

// NewCursor creates a cursor before the first line of the arena.
func NewCursor(lines *Lines) *Cursor {
	return &Cursor{Lines: lines, index: -1}
}

// Index returns the arena index of the current line.
func (c *Cursor) Index() int {
	return c.index
}

// Current returns the line at the cursor, or nil if the cursor is
// before the first or past the last line.
func (c *Cursor) Current() *Line {
	if c.index < 0 || c.index >= c.Lines.Len() {
		return nil
	}
	return c.Lines.At(c.index)
}

// Advance moves to the next line, returning false at the end of the arena.
func (c *Cursor) Advance() bool {
	if c.index+1 >= c.Lines.Len() {
		c.index = c.Lines.Len()
		return false
	}
	c.index++
	return true
}

// RewindTo repositions the cursor so that the next Advance yields the
// line immediately after index. Use -1 to restart from the top.
func (c *Cursor) RewindTo(index int) {
	if index < -1 {
		index = -1
	}
	if index > c.Lines.Len() {
		index = c.Lines.Len()
	}
	c.index = index
}

// SkipTo scans forward from the current line for the first line at
// nesting depth 1 that satisfies match. Every occurrence of an open
// keyword increments the depth, and every occurrence of close
// decrements it. A close keyword at depth 1 ends the scan if it
// matches; if it does not, the block is left and the scan fails.
//
// On success the cursor is left on the matching line.
func (c *Cursor) SkipTo(match func(line *Line) bool, open []string, close string) (line *Line, err error) {
	start := c.Current()
	depth := 1
scan:
	for n := c.index + 1; n < c.Lines.Len(); n++ {
		here := c.Lines.At(n)
		switch {
		case here.Instruction == close:
			if depth == 1 {
				if match(here) {
					c.index = n
					line = here
					return
				}
				break scan
			}
			depth--
		case slices.Contains(open, here.Instruction):
			depth++
		case depth == 1 && match(here):
			c.index = n
			line = here
			return
		}
	}

	err = &ErrUnterminated{Close: close}
	if start != nil {
		err = &ErrUnterminated{Open: start.Instruction, Close: close, Start: start.Position}
	}
	return
}
