package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; comment only",
		"start:  lda #$10   ; load",
		"        .BYTE \"a;b\", 2",
		"COUNT = 3",
		"WIDTH .equ 40",
		"colors .enum",
		"+       bne -",
		"*=$c000",
		"R0: R1: nop",
		"        .let x=1",
		"  ",
	}

	lines, err := ParseString(strings.Join(program, "\n"), "test.s")
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Line{
		{Label: "start", Instruction: "lda", Operand: "#$10"},
		{Instruction: ".byte", Operand: "\"a;b\", 2"},
		{Label: "COUNT", Instruction: "=", Operand: "3"},
		{Label: "WIDTH", Instruction: ".equ", Operand: "40"},
		{Label: "colors", Instruction: ".enum"},
		{Label: "+", Instruction: "bne", Operand: "-"},
		{Instruction: ".org", Operand: "$c000"},
		{Label: "R0"},
		{Label: "R1", Instruction: "nop"},
		{Instruction: ".let", Operand: "x=1"},
	}

	assert.Equal(len(expected), lines.Len())
	for n, line := range lines.All() {
		if n >= len(expected) {
			break
		}
		assert.Equal(expected[n].Label, line.Label, line.Text)
		assert.Equal(expected[n].Instruction, line.Instruction, line.Text)
		assert.Equal(expected[n].Operand, line.Operand, line.Text)
	}

	assert.Equal(2, lines.At(0).Position.Line)
	assert.Equal(1, lines.At(0).Position.Column)
	assert.Equal(9, lines.At(1).Position.Column)
	assert.Equal("test.s:2:1", lines.At(0).Position.String())

	forward, ok := lines.At(5).AnonymousLabel()
	assert.True(ok)
	assert.True(forward)
	_, ok = lines.At(0).AnonymousLabel()
	assert.False(ok)
}

func TestParseFields(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		line Line
	}){
		{".for i = 0; i < 3; i += 1 ; count", Line{Instruction: ".for", Operand: "i = 0; i < 3; i += 1"}},
		{"loop: .FOR i = 0; i < 2; i += 1", Line{Label: "loop", Instruction: ".for", Operand: "i = 0; i < 2; i += 1"}},
		{".for c in \";\"; c; c", Line{Instruction: ".for", Operand: "c in \";\"; c; c"}},
		{"\t.byte 1 ; .for x; y", Line{Instruction: ".byte", Operand: "1"}},
		{"lbl:\temit lbl", Line{Label: "lbl", Instruction: "emit", Operand: "lbl"}},
		{"lbl\tnop", Line{Instruction: "lbl", Operand: "nop"}},
		{"alu set r0 1", Line{Instruction: "alu", Operand: "set r0 1"}},
	}

	for _, entry := range table {
		lines, err := ParseString(entry.text, "test.s")
		if !assert.NoError(err, entry.text) || !assert.Equal(1, lines.Len(), entry.text) {
			continue
		}
		line := lines.At(0)
		assert.Equal(entry.line.Label, line.Label, entry.text)
		assert.Equal(entry.line.Instruction, line.Instruction, entry.text)
		assert.Equal(entry.line.Operand, line.Operand, entry.text)
	}
}

func TestParseMacro(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".macro SETADD rn, a",
		"  lda \\a",
		"@loop: sta rn",
		".endmacro",
		"SETADD $10, #1",
		"SETADD $20, #2",
	}

	lines, err := ParseString(strings.Join(program, "\n"), "m.s")
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(4, lines.Len())
	assert.Equal("#1", lines.At(0).Operand)
	assert.Equal("SETADD_1_loop", lines.At(1).Label)
	assert.Equal("$10", lines.At(1).Operand)
	assert.Equal("SETADD_2_loop", lines.At(3).Label)
	assert.Equal(2, lines.At(0).Position.Line)
	assert.Equal(3, lines.At(3).Position.Line)
}

func TestParseErrSyntax(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		prog string
		line int
		err  error
	}){
		{".macro A\n.macro B\n.endmacro\n.endmacro", 2, ErrMacroNesting},
		{".macro A\n.endmacro\n.macro A\n.endmacro\n", 3, ErrMacroDuplicate},
		{".endmacro\n", 1, ErrMacroLonelyEndm},
		{"nop\n.macro A\nnop\n", 3, ErrMacroLonely},
		{".macro A x\n.endmacro\nA 1, 2\n", 3, ErrMacroArguments},
		{".macro\n", 1, ErrMacroSyntax},
		{".macro 9bad\n", 1, ErrMacroSyntax},
		{".macro A\nA\n.endmacro\nA\n", 4, ErrMacroRecursion},
		{"nop\n.text \"abc\n", 2, ErrQuote},
	}

	for _, entry := range table {
		_, err := ParseString(entry.prog, "")
		var se *ErrSyntax
		assert.Error(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.Position.Line, entry.prog)
			assert.ErrorIs(err, entry.err, entry.prog)
		}
	}
}

func TestSplitOperand(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		operand string
		sep     rune
		fields  []string
	}){
		{"", ',', nil},
		{"1", ',', []string{"1"}},
		{"1, 2 ,3", ',', []string{"1", "2", "3"}},
		{"\"a,b\", f(1, 2), [3, 4]", ',', []string{"\"a,b\"", "f(1, 2)", "[3, 4]"}},
		{"i = 0; i < 3; i = i + 1", ';', []string{"i = 0", "i < 3", "i = i + 1"}},
		{"'\\'', 1", ',', []string{"'\\''", "1"}},
	}

	for _, entry := range table {
		assert.Equal(entry.fields, SplitOperand(entry.operand, entry.sep), entry.operand)
	}
}

func TestLinesReplace(t *testing.T) {
	assert := assert.New(t)

	lines := NewLines(
		Line{Position: Position{File: "a", Line: 1}, Instruction: ".ifdef", Operand: "X", Text: ".ifdef X"},
	)
	lines.Replace(0, Line{Instruction: ".if", Operand: "defined(\"X\")"})

	line := lines.At(0)
	assert.Equal(".if", line.Instruction)
	assert.Equal(1, line.Position.Line)
	assert.Equal(".ifdef X", line.Text)
}

func makeLines(text ...string) *Lines {
	lines := &Lines{}
	for n, instr := range text {
		word, operand := nextWord(instr)
		lines.Append(Line{Position: Position{Line: n + 1}, Instruction: word, Operand: operand})
	}
	return lines
}

func TestCursor(t *testing.T) {
	assert := assert.New(t)

	lines := makeLines("a", "b", "c")
	c := NewCursor(lines)
	assert.Nil(c.Current())

	var seen []string
	for c.Advance() {
		seen = append(seen, c.Current().Instruction)
	}
	assert.Equal([]string{"a", "b", "c"}, seen)
	assert.False(c.Advance())
	assert.Nil(c.Current())

	c.RewindTo(0)
	assert.True(c.Advance())
	assert.Equal("b", c.Current().Instruction)

	c.RewindTo(-5)
	assert.True(c.Advance())
	assert.Equal(0, c.Index())
}

func TestCursorSkipToNested(t *testing.T) {
	assert := assert.New(t)

	lines := makeLines(
		".if 1",     // 0
		".ifdef X",  // 1
		"nop",       // 2
		".else",     // 3
		"nop",       // 4
		".endif",    // 5
		".else",     // 6
		"nop",       // 7
		".endif",    // 8
		"after",     // 9
	)

	opens := []string{".if", ".ifdef", ".ifndef"}
	control := func(line *Line) bool {
		return line.Instruction == ".else" || line.Instruction == ".endif"
	}

	c := NewCursor(lines)
	c.Advance()
	line, err := c.SkipTo(control, opens, ".endif")
	assert.NoError(err)
	assert.Equal(6, c.Index())
	assert.Equal(".else", line.Instruction)

	line, err = c.SkipTo(control, opens, ".endif")
	assert.NoError(err)
	assert.Equal(8, c.Index())
	assert.Equal(".endif", line.Instruction)

	// Inner block from its own opener.
	c.RewindTo(0)
	c.Advance()
	_, err = c.SkipTo(func(line *Line) bool { return line.Instruction == ".endif" }, opens, ".endif")
	assert.NoError(err)
	assert.Equal(5, c.Index())
}

func TestCursorSkipToUnterminated(t *testing.T) {
	assert := assert.New(t)

	lines := makeLines(".repeat 3", ".repeat 2", "nop", ".endrepeat", "nop")
	c := NewCursor(lines)
	c.Advance()

	_, err := c.SkipTo(func(line *Line) bool { return true }, []string{".repeat"}, ".endrepeat")
	// "nop" at depth 1 after the inner block matches first.
	assert.NoError(err)
	assert.Equal(4, c.Index())

	c.RewindTo(-1)
	c.Advance()
	_, err = c.SkipTo(func(line *Line) bool { return line.Instruction == ".endrepeat" }, []string{".repeat"}, ".endrepeat")
	var eu *ErrUnterminated
	assert.True(errors.As(err, &eu))
	if eu != nil {
		assert.Equal(".repeat", eu.Open)
		assert.Equal(".endrepeat", eu.Close)
		assert.Equal(1, eu.Start.Line)
	}
	assert.Equal(0, c.Index())
}
