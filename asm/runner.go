package asm

import (
	"log"
	"regexp"
	"strings"

	"github.com/golang/glog"

	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

// runner executes lines from a cursor: either a whole pass, or the body
// of a function call.
type runner struct {
	asm    *Assembler
	cursor *source.Cursor
	stack  Stack
	fn     *symbol.Function // Function being called, nil for a pass.

	gotos   int          // .goto jumps taken.
	landing int          // Line reached by .goto.
	done    bool         // .return executed.
	result  symbol.Value // .return value.
	defined bool         // .return value is known.
}

func (asm *Assembler) newRunner(fn *symbol.Function) (r *runner) {
	r = &runner{
		asm:     asm,
		cursor:  source.NewCursor(asm.lines),
		fn:      fn,
		landing: -1,
		defined: true,
	}
	if fn != nil {
		r.cursor.RewindTo(fn.Start)
	}
	return
}

// run executes lines until the end of the source, the end of the
// function body, .return or .end.
func (r *runner) run() (err error) {
	for !r.done && !r.asm.halted && r.cursor.Advance() {
		index := r.cursor.Index()
		if r.fn != nil && index >= r.fn.End {
			break
		}
		err = r.step(index, r.cursor.Current())
		if err != nil {
			return
		}
	}

	if r.done || r.asm.halted {
		return
	}

	block, ok := r.stack.Peek()
	if ok {
		err = r.fatal(block.Line, &source.ErrUnterminated{
			Open:  block.Line.Instruction,
			Close: block.Kind.Close(),
			Start: block.Line.Position,
		})
	}
	return
}

// step executes one line.
func (r *runner) step(index int, line *source.Line) (err error) {
	r.asm.env.Line = index
	glog.V(3).Infof("%v: %v", line.Position, line)

	if block, ok := r.stack.Peek(); ok && block.Kind == BLOCK_ENUM && line.Instruction != BLOCK_ENUM.Close() {
		r.member(block, index, line)
		return
	}

	landed := r.landing == index
	r.landing = -1
	if !landed || !r.labeled(line) {
		r.label(index, line)
	}

	instr := line.Instruction
	if kind, ok := openers[instr]; ok {
		return r.open(kind, index, line)
	}

	if keywords[instr] {
		block, ok := r.stack.Peek()
		switch {
		case ok && instr == block.Kind.Close():
			return r.close(block, index, line)
		case ok && block.Kind.Continues(instr):
			return r.next(block, index, line)
		}
		return r.fatal(line, ErrUnexpected(instr))
	}

	handled, err := r.directive(index, line)
	if handled || err != nil {
		return
	}

	r.emit(index, line)
	return
}

// open dispatches the opening line of a block.
func (r *runner) open(kind Kind, index int, line *source.Line) (err error) {
	switch kind {
	case BLOCK_SCOPE:
		err = r.openScope(index, line)
	case BLOCK_CONDITIONAL, BLOCK_CONDITIONAL_DEF, BLOCK_CONDITIONAL_NDEF:
		err = r.openConditional(kind, index, line)
	case BLOCK_FOR_NEXT:
		err = r.openFor(index, line)
	case BLOCK_FOR_EACH:
		err = r.openForEach(index, line)
	case BLOCK_FUNCTIONAL:
		err = r.openFunction(index, line)
	case BLOCK_REPEAT:
		err = r.openRepeat(index, line)
	case BLOCK_SWITCH:
		err = r.openSwitch(index, line)
	case BLOCK_WHILE:
		err = r.openWhile(index, line)
	case BLOCK_DO_WHILE:
		err = r.openDo(index, line)
	case BLOCK_PAGE:
		err = r.openPage(index, line)
	case BLOCK_ENUM:
		err = r.openEnum(index, line)
	}
	return
}

// next dispatches a continuation line of the innermost block.
func (r *runner) next(block *Block, index int, line *source.Line) (err error) {
	switch block.Kind {
	case BLOCK_CONDITIONAL, BLOCK_CONDITIONAL_DEF, BLOCK_CONDITIONAL_NDEF:
		err = r.nextConditional(block, index, line)
	case BLOCK_SWITCH:
		// Stacked cases share the body that follows them.
	}
	return
}

// close dispatches the closing line of the innermost block.
func (r *runner) close(block *Block, index int, line *source.Line) (err error) {
	switch block.Kind {
	case BLOCK_SCOPE, BLOCK_CONDITIONAL, BLOCK_CONDITIONAL_DEF, BLOCK_CONDITIONAL_NDEF, BLOCK_SWITCH, BLOCK_ENUM, BLOCK_FUNCTIONAL:
		err = r.pop(block, line)
	case BLOCK_FOR_NEXT:
		err = r.closeFor(block, line)
	case BLOCK_FOR_EACH:
		err = r.closeForEach(block, line)
	case BLOCK_REPEAT:
		err = r.closeRepeat(block, line)
	case BLOCK_WHILE:
		err = r.closeWhile(block, line)
	case BLOCK_DO_WHILE:
		err = r.closeDo(block, line)
	case BLOCK_PAGE:
		err = r.closePage(block, line)
	}
	return
}

// push opens a block.
func (r *runner) push(block *Block) (err error) {
	err = r.stack.Push(block)
	if err != nil {
		return r.fatal(block.Line, err)
	}
	glog.V(2).Infof("open %v", block)
	return
}

// pop closes the innermost block, leaving the scopes it entered.
func (r *runner) pop(block *Block, line *source.Line) (err error) {
	for block.scopes > 0 {
		err = r.leave(block)
		if err != nil {
			return r.fatal(line, err)
		}
	}
	r.stack.Pop()
	glog.V(2).Infof("close %v at %v", block, line.Position)
	return
}

// enter pushes a scope owned by block. An empty name is an anonymous
// scope named by the opening line.
func (r *runner) enter(block *Block, name string) {
	if len(name) == 0 {
		r.asm.Table.PushAnonymous(block.Index)
	} else {
		r.asm.Table.Push(name)
	}
	block.scopes++
}

// leave pops the innermost scope owned by block.
func (r *runner) leave(block *Block) (err error) {
	if block.scopes == 0 {
		return
	}
	block.scopes--
	return r.asm.Table.Pop()
}

// skip moves the cursor onto the closing line of a block opened by line.
func (r *runner) skip(kind Kind, line *source.Line) (err error) {
	isClose := func(here *source.Line) bool { return here.Instruction == kind.Close() }
	_, err = r.cursor.SkipTo(isClose, kind.Openers(), kind.Close())
	if err != nil {
		return r.fatal(line, err)
	}
	glog.V(2).Infof("skip %v at %v", kind, line.Position)
	return
}

// label defines the label of a line at the current address. Blocks and
// assignments use the label as a name instead.
func (r *runner) label(index int, line *source.Line) {
	if len(line.Label) == 0 {
		return
	}
	switch line.Instruction {
	case "=", ".equ", ".block", ".enum", ".function":
		return
	}

	table := r.asm.Table
	pc := r.asm.Target.PC()
	if forward, ok := line.AnonymousLabel(); ok {
		table.DefineAnonymous(index, forward, pc)
		return
	}

	_, err := table.Define(line.Label, symbol.KIND_LABEL, pc, index)
	if err != nil {
		r.report(line, err)
	}
}

// labeled returns true if the label of line was defined earlier in
// this pass, in the current scope.
func (r *runner) labeled(line *source.Line) bool {
	table := r.asm.Table
	sym, ok := table.Lookup(table.Current(), line.Label)
	return ok && sym.Pass() == table.Pass()
}

// directive executes the directives that are not blocks and emit
// no code.
func (r *runner) directive(index int, line *source.Line) (handled bool, err error) {
	handled = true
	switch line.Instruction {
	case "":
	case "=", ".equ":
		r.constant(index, line)
	case ".let":
		r.assign(index, line, line.Operand)
	case ".break":
		err = r.doBreak(line)
	case ".continue":
		err = r.doContinue(line)
	case ".return":
		err = r.doReturn(line)
	case ".goto":
		err = r.doGoto(index, line)
	case ".end":
		r.asm.halted = true
	case ".error":
		r.report(line, r.message(line))
	case ".warn":
		r.warn(line, r.message(line))
	case ".echo":
		r.info(line, r.message(line))
	default:
		handled = false
	}
	return
}

// emit hands a line to the code generator. Code is not generated
// inside a function body.
func (r *runner) emit(index int, line *source.Line) {
	if r.fn != nil {
		r.warn(line, ErrFunctionCode)
		return
	}

	asm := r.asm
	addr := asm.Target.PC()
	code, err := asm.Target.Emit(line, asm.ctx)
	if err != nil {
		r.report(line, err)
		return
	}

	if asm.Verbose {
		log.Printf("%v: %#x: % x\n", line.Position, addr, code)
	}

	asm.listing = append(asm.listing, Record{
		Index:    index,
		Position: line.Position,
		Addr:     addr,
		Code:     code,
		Text:     line.Text,
	})
}

// constant executes `NAME = expr` and `NAME .equ expr`.
func (r *runner) constant(index int, line *source.Line) {
	if len(line.Label) == 0 {
		r.report(line, ErrOperandSyntax)
		return
	}

	value, defined, err := r.asm.ctx.Value(line.Operand)
	if err != nil {
		r.report(line, err)
		return
	}
	if !defined {
		return
	}

	_, err = r.asm.Table.Define(line.Label, symbol.KIND_CONSTANT, value, index)
	if err != nil {
		r.report(line, err)
	}
}

var assignRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\s*(<<|>>|[-+*/%&|^])?=\s*(.*)$`)

// assign executes a variable assignment `name = expr`, or `name op= expr`.
func (r *runner) assign(index int, line *source.Line, text string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	m := assignRe.FindStringSubmatch(text)
	if m == nil || strings.HasPrefix(m[3], "=") {
		r.report(line, ErrOperandSyntax)
		return
	}

	name, op, value := m[1], m[2], m[3]
	if len(op) > 0 {
		value = name + " " + op + " (" + value + ")"
	}

	v, defined, err := r.asm.ctx.Value(value)
	if err != nil {
		r.report(line, err)
		return
	}
	if !defined {
		v = nil
	}

	_, err = r.asm.Table.Assign(name, v, index)
	if err != nil {
		r.report(line, err)
	}
}

// message is the text of an .error, .warn or .echo directive. A quoted
// operand is evaluated.
func (r *runner) message(line *source.Line) error {
	text := strings.TrimSpace(line.Operand)
	if strings.HasPrefix(text, `"`) || strings.HasPrefix(text, `'`) {
		value, defined, err := r.asm.ctx.Value(text)
		if err == nil && defined {
			if str, ok := value.(string); ok {
				text = str
			}
		}
	}
	return ErrUser(text)
}

// fatal builds the diagnostic of an error that aborts the pass.
func (r *runner) fatal(line *source.Line, err error) error {
	return &Diagnostic{Severity: SEVERITY_ERROR, Position: line.Position, Err: err}
}

// report records an error and continues.
func (r *runner) report(line *source.Line, err error) {
	r.asm.diags.Add(SEVERITY_ERROR, line.Position, err)
}

// warn records a warning, once per line and message.
func (r *runner) warn(line *source.Line, err error) {
	r.once(SEVERITY_WARNING, line, err)
}

// info records an informational message, once per line and message.
func (r *runner) info(line *source.Line, err error) {
	r.once(SEVERITY_INFO, line, err)
}

func (r *runner) once(severity Severity, line *source.Line, err error) {
	for _, diag := range r.asm.diags {
		if diag.Severity == severity && diag.Position == line.Position && diag.Err.Error() == err.Error() {
			return
		}
	}
	r.asm.diags.Add(severity, line.Position, err)
}
