package source

import (
	"fmt"
	"iter"
	"strings"
)

// Position locates a statement in its source file.
type Position struct {
	File   string
	Line   int
	Column int
}

func (pos Position) String() string {
	file := pos.File
	if len(file) == 0 {
		file = "-"
	}
	if pos.Column > 0 {
		return fmt.Sprintf("%v:%v:%v", file, pos.Line, pos.Column)
	}
	return fmt.Sprintf("%v:%v", file, pos.Line)
}

// Line is a single parsed statement.
type Line struct {
	Position    Position
	Label       string // Optional label, "+"/"-" runs are anonymous labels.
	Instruction string // Instruction or directive; directives are lower case.
	Operand     string // Operand text, trimmed.
	Text        string // Original text, for diagnostics and listings.
}

// IsDirective returns true if the instruction is a dot directive.
func (line *Line) IsDirective() bool {
	return strings.HasPrefix(line.Instruction, ".")
}

// Empty returns true if the line carries no label and no instruction.
func (line *Line) Empty() bool {
	return len(line.Label) == 0 && len(line.Instruction) == 0
}

// AnonymousLabel reports whether the label is an anonymous '+' or '-' label.
func (line *Line) AnonymousLabel() (forward bool, ok bool) {
	if len(line.Label) == 0 {
		return
	}
	if strings.Trim(line.Label, "+") == "" {
		return true, true
	}
	if strings.Trim(line.Label, "-") == "" {
		return false, true
	}
	return
}

func (line Line) String() string {
	var sb strings.Builder
	if len(line.Label) > 0 {
		sb.WriteString(line.Label)
	}
	if len(line.Instruction) > 0 {
		sb.WriteString(" ")
		sb.WriteString(line.Instruction)
	}
	if len(line.Operand) > 0 {
		sb.WriteString(" ")
		sb.WriteString(line.Operand)
	}
	return strings.TrimSpace(sb.String())
}

// Lines is an arena of statements indexed by a stable integer.
type Lines struct {
	lines []Line
}

// NewLines creates an arena from a list of statements.
func NewLines(lines ...Line) *Lines {
	return &Lines{lines: lines}
}

// Len returns the number of statements.
func (ls *Lines) Len() int {
	return len(ls.lines)
}

// At returns the statement at index.
func (ls *Lines) At(index int) *Line {
	return &ls.lines[index]
}

// Append adds a statement to the end of the arena, returning its index.
func (ls *Lines) Append(line Line) int {
	ls.lines = append(ls.lines, line)
	return len(ls.lines) - 1
}

// Replace rewrites the statement at index. The position of the
// original statement is kept.
func (ls *Lines) Replace(index int, line Line) {
	line.Position = ls.lines[index].Position
	if len(line.Text) == 0 {
		line.Text = ls.lines[index].Text
	}
	ls.lines[index] = line
}

// All iterates all statements with their index.
func (ls *Lines) All() iter.Seq2[int, *Line] {
	return func(yield func(int, *Line) bool) {
		for n := range ls.lines {
			if !yield(n, &ls.lines[n]) {
				return
			}
		}
	}
}
