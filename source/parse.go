package source

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"unicode"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	Position Position // Position of the first body line.
	Args     []string // Arguments for the macro.
	Lines    []string // Lines of macro text to expand.
}

const (
	MACRO_DEPTH_LIMIT = 16 // Maximum nesting of macro expansions.
)

// Parser turns source text into a Lines arena, expanding macros.
type Parser struct {
	Verbose bool              // If set, verbosely logs each parsed line.
	Macro   map[string]*Macro // Map of macros.

	lines     *Lines
	expansion int
	depth     int
}

// Parse parses an input stream into a Lines arena.
func Parse(input io.Reader, file string) (lines *Lines, err error) {
	p := &Parser{}
	return p.Parse(input, file)
}

// ParseString parses source text into a Lines arena.
func ParseString(text string, file string) (lines *Lines, err error) {
	return Parse(strings.NewReader(text), file)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse parses an input stream into a Lines arena.
func (p *Parser) Parse(input io.Reader, file string) (lines *Lines, err error) {
	scanner := bufio.NewScanner(input)

	var text string
	var pos Position
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{Position: pos, Line: strings.TrimSpace(text), Err: err}
		}
	}()

	p.lines = &Lines{}
	if p.Macro == nil {
		p.Macro = make(map[string]*Macro)
	}

	lineno := 0
	for scanner.Scan() {
		text = scanner.Text()
		lineno++
		pos = Position{File: file, Line: lineno}

		if p.Verbose {
			log.Printf("%v: %v\n", pos, text)
		}

		var stmts []Line
		stmts, err = parseText(text, pos)
		if err != nil {
			return
		}

		if macro != nil {
			var inner string
			if len(stmts) > 0 {
				inner = stmts[0].Instruction
			}
			switch inner {
			case ".macro":
				err = ErrMacroNesting
				return
			case ".endmacro", ".endm":
				macro = nil
			default:
				macro.Lines = append(macro.Lines, text)
			}
			continue
		}

		for _, stmt := range stmts {
			switch stmt.Instruction {
			case ".macro":
				macro, err = p.defineMacro(stmt)
				if err != nil {
					return
				}
				macro.Position = Position{File: file, Line: lineno + 1}
			case ".endmacro", ".endm":
				err = ErrMacroLonelyEndm
				return
			default:
				err = p.statement(stmt)
				if err != nil {
					return
				}
			}

			// A macro body takes the remainder of the text line.
			if macro != nil {
				break
			}
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	lines = p.lines
	return
}

// defineMacro handles `.macro NAME args...` and `NAME .macro args...`.
func (p *Parser) defineMacro(stmt Line) (macro *Macro, err error) {
	name := stmt.Label
	operand := stmt.Operand
	if len(name) == 0 {
		fields := strings.Fields(operand)
		if len(fields) == 0 {
			err = ErrMacroSyntax
			return
		}
		name = fields[0]
		operand = strings.TrimSpace(operand[len(fields[0]):])
	}

	if !identRe.MatchString(name) {
		err = ErrMacroSyntax
		return
	}

	_, ok := p.Macro[name]
	if ok {
		err = ErrMacroDuplicate
		return
	}

	macro = &Macro{}
	for _, arg := range strings.FieldsFunc(operand, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
		if !identRe.MatchString(arg) {
			err = ErrMacroSyntax
			return
		}
		macro.Args = append(macro.Args, arg)
	}

	p.Macro[name] = macro
	return
}

// statement appends a statement, expanding it if it invokes a macro.
func (p *Parser) statement(stmt Line) (err error) {
	macro, ok := p.Macro[stmt.Instruction]
	if !ok {
		p.lines.Append(stmt)
		return
	}

	if p.depth >= MACRO_DEPTH_LIMIT {
		err = ErrMacroRecursion
		return
	}

	args := SplitOperand(stmt.Operand, ',')
	if len(args) != len(macro.Args) {
		err = ErrMacroArguments
		return
	}

	if len(stmt.Label) > 0 {
		p.lines.Append(Line{Position: stmt.Position, Label: stmt.Label, Text: stmt.Text})
	}

	p.expansion++
	unique := fmt.Sprintf("%v_%v_", stmt.Instruction, p.expansion)

	var argRe *regexp.Regexp
	if len(macro.Args) > 0 {
		argRe = regexp.MustCompile(`\\?\b(` + strings.Join(macro.Args, "|") + `)\b`)
	}
	index := make(map[string]string, len(macro.Args))
	for n, name := range macro.Args {
		index[name] = args[n]
	}

	p.depth++
	defer func() { p.depth-- }()

	for n, text := range macro.Lines {
		pos := macro.Position
		pos.Line += n
		if argRe != nil {
			text = argRe.ReplaceAllStringFunc(text, func(word string) string {
				return index[strings.TrimPrefix(word, `\`)]
			})
		}
		text = strings.ReplaceAll(text, "@", unique)

		var stmts []Line
		stmts, err = parseText(text, pos)
		if err != nil {
			err = &ErrSyntax{Position: pos, Line: strings.TrimSpace(text), Err: err}
			return
		}
		for _, inner := range stmts {
			err = p.statement(inner)
			if err != nil {
				return
			}
		}
	}

	return
}

// stripComment removes a trailing `;` comment, honoring quotes. The
// first two `;` of a `.for` header separate its clauses.
func stripComment(text string) (code string, err error) {
	keep := 0
	if isForHeader(text) {
		keep = 2
	}

	var quote rune
	escaped := false
	for n, r := range text {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
		case r == '"' || r == '\'':
			quote = r
		case r == ';' && keep > 0:
			keep--
		case r == ';':
			return text[:n], nil
		}
	}
	if quote != 0 {
		err = ErrQuote
		return
	}
	return text, nil
}

// isForHeader returns true if the text is a `.for` line, with or without
// a label.
func isForHeader(text string) bool {
	word, rest := nextWord(text)
	if strings.EqualFold(word, ".for") {
		return true
	}
	if strings.HasPrefix(word, ".") || strings.HasPrefix(word, ";") {
		return false
	}
	next, _ := nextWord(rest)
	return strings.EqualFold(next, ".for")
}

// isLabelWord returns true if the word is a `name:` or anonymous label.
func isLabelWord(word string) bool {
	if strings.HasSuffix(word, ":") && len(word) > 1 {
		return true
	}
	return strings.Trim(word, "+") == "" || strings.Trim(word, "-") == ""
}

// nextWord splits off the first whitespace delimited word.
func nextWord(text string) (word, rest string) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		return text, ""
	}
	return text[:end], strings.TrimSpace(text[end:])
}

// parseText parses one line of text into zero or more statements.
func parseText(text string, pos Position) (stmts []Line, err error) {
	code, err := stripComment(text)
	if err != nil {
		return
	}

	trimmed := strings.TrimSpace(code)
	if len(trimmed) == 0 {
		return
	}
	pos.Column = strings.Index(code, trimmed) + 1

	rest := trimmed
	for len(rest) > 0 {
		var stmt Line
		stmt.Position = pos
		stmt.Text = strings.TrimSpace(text)

		// NAME=expr and *=expr without spaces.
		if eq := strings.Index(rest, "="); eq > 0 && !strings.ContainsAny(rest[:eq], " \t\"'") &&
			!strings.HasPrefix(rest[eq:], "==") && !strings.ContainsAny(rest[eq-1:eq], "!<>") {
			stmt.Label = rest[:eq]
			stmt.Instruction = "="
			stmt.Operand = strings.TrimSpace(rest[eq+1:])
			rest = ""
		} else {
			word, remain := nextWord(rest)
			next, _ := nextWord(remain)
			switch {
			case isLabelWord(word):
				stmt.Label = strings.TrimSuffix(word, ":")
				rest = remain
				if isLabelWord(next) && strings.HasSuffix(next, ":") {
					stmts = append(stmts, stmt)
					continue
				}
			case !strings.HasPrefix(word, ".") && (next == "=" || strings.HasPrefix(next, ".")):
				stmt.Label = word
				rest = remain
			}
			if len(rest) > 0 {
				if eq := strings.Index(rest, "="); eq == 0 && !strings.HasPrefix(rest, "==") {
					stmt.Instruction = "="
					stmt.Operand = strings.TrimSpace(rest[1:])
				} else {
					stmt.Instruction, stmt.Operand = nextWord(rest)
				}
			}
			rest = ""
		}

		if strings.HasPrefix(stmt.Instruction, ".") {
			stmt.Instruction = strings.ToLower(stmt.Instruction)
		}
		if stmt.Label == "*" && (stmt.Instruction == "=" || stmt.Instruction == ".equ") {
			stmt.Label = ""
			stmt.Instruction = ".org"
		}
		stmts = append(stmts, stmt)
	}

	return
}

// SplitOperand splits an operand at top level occurrences of sep,
// honoring quotes, parentheses and brackets. Fields are trimmed.
func SplitOperand(operand string, sep rune) (fields []string) {
	operand = strings.TrimSpace(operand)
	if len(operand) == 0 {
		return
	}

	var quote rune
	escaped := false
	depth := 0
	start := 0
	for n, r := range operand {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == sep && depth == 0:
			fields = append(fields, strings.TrimSpace(operand[start:n]))
			start = n + len(string(r))
		}
	}
	fields = append(fields, strings.TrimSpace(operand[start:]))
	return
}
