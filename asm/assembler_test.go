package asm

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/retroasm/arch"
	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
)

// recorder is a target whose only instruction, `emit expr`, records the
// value of its operand and emits one byte.
type recorder struct {
	*arch.Output
	values []symbol.Value
}

func newRecorder() *recorder {
	return &recorder{Output: arch.NewOutput(binary.LittleEndian, 1)}
}

func (rec *recorder) Name() string { return "recorder" }

func (rec *recorder) Reset() {
	rec.Output.Reset()
	rec.values = nil
}

func (rec *recorder) Emit(line *source.Line, ctx *arch.Context) (code []byte, err error) {
	code, ok, err := rec.Directive(line, ctx)
	if ok {
		return
	}

	if line.Instruction != "emit" {
		err = arch.ErrInstruction(line.Instruction)
		return
	}

	value, defined, err := ctx.Value(line.Operand)
	if err != nil {
		return
	}
	if !defined {
		value = nil
	}
	rec.values = append(rec.values, value)

	code = rec.Write([]byte{byte(len(rec.values))})
	return
}

func parse(t *testing.T, text string) *source.Lines {
	lines, err := source.ParseString(text, "test.s")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return lines
}

// assemble runs a complete assembly of text with the default options.
func assemble(t *testing.T, text string) (rec *recorder, result *Result, err error) {
	return assembleWith(t, DefaultOptions(), text)
}

func assembleWith(t *testing.T, opts Options, text string) (rec *recorder, result *Result, err error) {
	rec = newRecorder()
	asm := New(rec, opts)
	result, err = asm.Assemble(parse(t, text))
	return
}

func values(vals ...any) (list []symbol.Value) {
	for _, val := range vals {
		if n, ok := val.(int); ok {
			val = int64(n)
		}
		list = append(list, val)
	}
	return
}

func TestEmpty(t *testing.T) {
	assert := assert.New(t)

	rec, result, err := assemble(t, "")
	assert.NoError(err)
	assert.Equal(1, result.Passes)
	assert.False(result.NeedsPass)
	assert.Empty(result.Diagnostics)
	assert.Empty(rec.values)
	assert.True(result.Program.Empty())
}

func TestControlFlow(t *testing.T) {
	table := [](struct {
		name   string
		text   string
		values []symbol.Value
	}){
		{"repeat", `
.repeat 3
	emit 1
.endrepeat
`, values(1, 1, 1)},
		{"repeat-zero", `
.repeat 0
	emit 1
.endrepeat
	emit 2
`, values(2)},
		{"if-elseif-else", `
x = 2
.if x == 1
	emit "a"
.elseif x == 2
	emit "b"
.else
	emit "c"
.endif
`, values("b")},
		{"if-nested", `
.if 1
	.if 0
		emit 1
	.else
		emit 2
	.endif
	emit 3
.endif
`, values(2, 3)},
		{"if-undefined", `
.ifndef FOO
	emit 1
.elseifdef FOO
	emit 2
.endif
`, values(1)},
		{"switch", `
.switch 2
.case 1
	emit "a"
	.break
.case 2, 3
	emit "b"
	.break
.default
	emit "c"
.endswitch
`, values("b")},
		{"switch-default", `
.switch "z"
.case "x"
	emit 1
	.break
.default
	emit 2
.endswitch
`, values(2)},
		{"switch-stacked", `
.switch 3
.case 1
.case 3
	emit 13
	.break
.case 2
	emit 2
.endswitch
`, values(13)},
		{"while", `
.let n = 0
.while n < 3
	emit n
	.let n += 1
.endwhile
`, values(0, 1, 2)},
		{"do-whiletrue", `
.let n = 5
.do
	emit n
	.let n += 1
.whiletrue n < 3
`, values(5)},
		{"for", `
.for i = 0; i < 3; i += 1
	emit i
.next
`, values(0, 1, 2)},
		{"foreach", `
.foreach c in "ab"
	emit c
.next
.foreach v in [1, 2]
	emit v * 10
.next
`, values("a", "b", 10, 20)},
		{"break", `
.let n = 0
.repeat 10
	.let n += 1
	.if n == 3
		.break
	.endif
	emit n
.endrepeat
`, values(1, 2)},
		{"continue", `
.for i = 0; i < 5; i += 1
	.if i % 2 == 1
		.continue
	.endif
	emit i
.next
`, values(0, 2, 4)},
		{"for-comma", `
.for i = 0, i < 3, i += 1
	emit i
.next
`, values(0, 1, 2)},
		{"for-comment", `
.for i = 0; i < 2; i += 1 ; count up
	emit i ; value
.next
`, values(0, 1)},
		{"anonymous-forward-loop", `
.repeat 2
	emit +
+	emit 0
.endrepeat
`, values(1, 0, 3, 0)},
		{"anonymous-backward-loop", `
.repeat 2
-	emit -
.endrepeat
`, values(0, 1)},
		{"continue-do", `
.let n = 0
.do
	.let n += 1
	.if n == 2
		.continue
	.endif
	emit n
.whiletrue n < 3
`, values(1, 3)},
		{"goto", `
	emit 1
	.goto skip
	emit 2
skip:
	emit 3
`, values(1, 3)},
		{"function", `
double .function (x)
	.return x * 2
.endfunction
.function add(a, b)
	.return a + b
.endfunction
	emit double(21)
	emit add(1, double(2))
`, values(42, 5)},
		{"enum", `
color .enum
RED
GREEN = 5
BLUE
.endenum
	emit color.RED
	emit color.BLUE
	emit color.GREEN
`, values(0, 6, 5)},
		{"end", `
	emit 1
	.end
	emit 2
`, values(1)},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			rec, result, err := assemble(t, entry.text)
			if !assert.NoError(err) {
				return
			}
			assert.Empty(result.Diagnostics.Errors())
			assert.Equal(entry.values, rec.values)
		})
	}
}

func TestScope(t *testing.T) {
	assert := assert.New(t)

	rec, result, err := assemble(t, `
.block inner
local = 1
	emit defined("local")
.endblock
	emit defined("local")
	emit inner.local
`)
	assert.NoError(err)
	assert.Empty(result.Diagnostics)
	assert.Equal(values(true, false, 1), rec.values)
}

func TestLoopLabels(t *testing.T) {
	assert := assert.New(t)

	// Every iteration has a scope of its own, so the label is not
	// redefined.
	rec, result, err := assemble(t, `
.repeat 2
here:
	emit here
.endrepeat
`)
	assert.NoError(err)
	assert.Empty(result.Diagnostics)
	assert.Equal(values(0, 1), rec.values)
}

func TestPredefine(t *testing.T) {
	assert := assert.New(t)

	text := `
.ifdef FOO
	emit FOO
.else
	emit 0
.endif
`
	rec := newRecorder()
	asm := New(rec, DefaultOptions())
	assert.NoError(asm.Predefine("FOO", int64(7)))

	_, err := asm.Assemble(parse(t, text))
	assert.NoError(err)
	assert.Equal(values(7), rec.values)

	rec, _, err = assemble(t, text)
	assert.NoError(err)
	assert.Equal(values(0), rec.values)
}

func TestCaseInsensitive(t *testing.T) {
	assert := assert.New(t)

	opts := DefaultOptions()
	opts.CaseSensitive = false

	rec, _, err := assembleWith(t, opts, `
Value = 3
	emit VALUE
`)
	assert.NoError(err)
	assert.Equal(values(3), rec.values)
}

func TestForwardReference(t *testing.T) {
	assert := assert.New(t)

	lines := parse(t, `
	emit target
	emit 2
target:
	emit 3
`)

	rec := newRecorder()
	asm := New(rec, DefaultOptions())

	result, err := asm.Assemble(lines)
	assert.NoError(err)
	assert.Equal(2, result.Passes)
	assert.False(result.NeedsPass)
	assert.Equal(values(2, 2, 3), rec.values)
	image := result.Program.Binary(0)

	// Once converged, another pass changes nothing.
	again, err := asm.RunPass(lines)
	assert.NoError(err)
	assert.False(again.NeedsPass)
	assert.Equal(values(2, 2, 3), rec.values)
	assert.Equal(image, again.Program.Binary(0))
}

func TestNonConvergence(t *testing.T) {
	assert := assert.New(t)

	opts := DefaultOptions()
	opts.PassLimit = 3

	_, result, err := assembleWith(t, opts, `
	emit nothing
`)
	var nc *ErrNonConvergence
	if assert.True(errors.As(err, &nc)) {
		assert.Equal(3, nc.Passes)
		assert.Equal([]string{"nothing"}, nc.Undefined)
	}
	assert.Equal(3, result.Passes)
	assert.True(result.NeedsPass)
}

func TestStructuralErrors(t *testing.T) {
	table := [](struct {
		name string
		text string
		err  error
		line int
	}){
		{"if-no-condition", ".if\n\temit 1\n.endif\n", ErrConditionMissing, 1},
		{"if-empty", ".if 1\n.endif\n", ErrBranchEmpty, 2},
		{"else-empty", ".if 1\n\temit 1\n.else\n.endif\n", ErrBranchEmpty, 4},
		{"else-duplicate", ".if 0\n\temit 1\n.else\n\temit 2\n.else\n\temit 3\n.endif\n", ErrElseDuplicate, 5},
		{"elseif-after-else", ".if 0\n\temit 1\n.else\n\temit 2\n.elseif 1\n\temit 3\n.endif\n", ErrElseIfAfterElse, 5},
		{"unexpected", "\temit 1\n.endif\n", ErrUnexpected(".endif"), 2},
		{"case-fallthrough", ".switch 1\n.case 1\n\temit 1\n.case 2\n\temit 2\n.endswitch\n", ErrCaseFallthrough, 4},
		{"case-fallthrough-break", ".switch 1\n.case 1\n\temit \"x\"\n.case 2\n\temit \"y\"\n\t.break\n.endswitch\n", ErrCaseFallthrough, 4},
		{"case-missing", ".switch 1\n\temit 0\n.case 1\n\temit 1\n.endswitch\n", ErrCaseMissing, 2},
		{"case-duplicate", ".switch 1\n.case 1\n\t.break\n.case 1\n\t.break\n.endswitch\n", ErrCaseDuplicate, 4},
		{"default-duplicate", ".switch 1\n.default\n\t.break\n.default\n\t.break\n.endswitch\n", ErrDefaultDuplicate, 4},
		{"for-syntax", ".for i = 0; i < 3\n\temit i\n.next\n", ErrOperandSyntax, 1},
		{"goto-empty", "\t.goto\n", ErrOperandSyntax, 1},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			_, result, err := assemble(t, entry.text)
			assert.ErrorIs(err, entry.err)

			var diag *Diagnostic
			if assert.True(errors.As(err, &diag)) {
				assert.Equal(SEVERITY_ERROR, diag.Severity)
				assert.Equal(entry.line, diag.Position.Line)
			}
			if assert.NotNil(result) {
				assert.Contains(result.Diagnostics, diag)
			}
		})
	}
}

func TestUnterminated(t *testing.T) {
	table := []string{
		".if 1\n\temit 1\n",
		".repeat 2\n\temit 1\n",
		".switch 1\n.case 1\n\temit 1\n",
		".block\n\temit 1\n",
		".function f()\n\t.return 1\n",
	}

	for _, text := range table {
		assert := assert.New(t)

		_, _, err := assemble(t, text)
		var unterminated *source.ErrUnterminated
		if assert.True(errors.As(err, &unterminated), text) {
			assert.Equal(1, unterminated.Start.Line, text)
		}
	}
}

func TestLimits(t *testing.T) {
	assert := assert.New(t)

	opts := DefaultOptions()
	opts.IterationLimit = 10

	_, _, err := assembleWith(t, opts, `
.while 1
	emit 1
.endwhile
`)
	assert.ErrorIs(err, ErrIterationLimit)

	_, _, err = assembleWith(t, opts, `
top:
	.goto top
`)
	assert.ErrorIs(err, ErrGotoLimit)

	var nested strings.Builder
	for range STACK_LIMIT + 1 {
		nested.WriteString(".block\n")
	}
	nested.WriteString("\temit 1\n")
	for range STACK_LIMIT + 1 {
		nested.WriteString(".endblock\n")
	}
	_, _, err = assemble(t, nested.String())
	assert.ErrorIs(err, ErrStackFull)
}

func TestStatementErrors(t *testing.T) {
	table := [](struct {
		name   string
		text   string
		err    error
		values []symbol.Value
	}){
		{"break-outside", "\t.break\n\temit 1\n", ErrBreakOutside, values(1)},
		{"continue-outside", ".switch 1\n.case 1\n\t.continue\n\t.break\n.endswitch\n\temit 1\n", ErrContinueOutside, values(1)},
		{"return-outside", "\t.return 1\n\temit 1\n", ErrReturnOutside, values(1)},
		{"goto-missing", "\t.goto nowhere\n\temit 1\n", ErrLabelMissing("nowhere"), values(1)},
		{"goto-scope", ".block\n\t.goto out\n.endblock\nout:\n\temit 1\n", ErrGotoScope, values(1)},
		{"repeat-count", ".repeat \"x\"\n\temit 0\n.endrepeat\n\temit 1\n", ErrRepeatCount, values(1)},
		{"case-type", ".switch 1\n.case 1\n\t.break\n.case \"a\"\n\t.break\n.endswitch\n\temit 1\n", ErrCaseType, values(1)},
		{"enum-duplicate", ".enum\nA = 1\nB = 1\n.endenum\n\temit A\n", ErrEnumDuplicate(1), values(1)},
		{"enum-member", ".enum\n\temit 2\n.endenum\n\temit 1\n", ErrEnumMember, values(1)},
		{"user-error", "\t.error \"bad\"\n\temit 1\n", ErrUser("bad"), values(1)},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			rec, result, err := assemble(t, entry.text)
			if !assert.NoError(err) {
				return
			}
			errs := result.Diagnostics.Errors()
			if assert.Equal(1, len(errs)) {
				assert.ErrorIs(errs[0], entry.err)
			}
			assert.Equal(entry.values, rec.values)
		})
	}
}

func TestFunctionCode(t *testing.T) {
	assert := assert.New(t)

	rec, result, err := assemble(t, `
.function f()
	emit 2
	.return 1
.endfunction
	emit f()
	emit f()
`)
	assert.NoError(err)
	assert.Empty(result.Diagnostics.Errors())
	assert.Equal(values(1, 1), rec.values)
	assert.Equal([]byte{1, 2}, result.Program.Binary(0))

	warns := result.Diagnostics.Warnings()
	if assert.Equal(1, len(warns)) {
		assert.ErrorIs(warns[0], ErrFunctionCode)
		assert.Equal(3, warns[0].Position.Line)
	}
}

func TestWarnings(t *testing.T) {
	assert := assert.New(t)

	_, result, err := assemble(t, `
.switch 5
.case 1
	emit 1
.endswitch
.repeat 3
	.warn "again"
.endrepeat
	.echo "hello"
`)
	assert.NoError(err)
	assert.Empty(result.Diagnostics.Errors())

	warns := result.Diagnostics.Warnings()
	if assert.Equal(2, len(warns)) {
		assert.ErrorIs(warns[0], ErrDefaultMissing)
		assert.Equal(ErrUser("again"), warns[1].Err)
	}
	assert.Equal(3, len(result.Diagnostics))
	assert.Equal(SEVERITY_INFO, result.Diagnostics[2].Severity)
	assert.Equal(ErrUser("hello"), result.Diagnostics[2].Err)
}

func TestPage(t *testing.T) {
	assert := assert.New(t)

	_, result, err := assemble(t, `
	.org $fe
.page
	emit 1
	emit 2
	emit 3
.endpage
.page 4
	emit 4
.endpage
`)
	assert.NoError(err)

	warns := result.Diagnostics.Warnings()
	if assert.Equal(1, len(warns)) {
		var crossed *ErrPageCrossed
		if assert.True(errors.As(warns[0], &crossed)) {
			assert.Equal(&ErrPageCrossed{Start: 0xfe, End: 0x101, Size: PAGE_SIZE}, crossed)
		}
		assert.Equal(7, warns[0].Position.Line)
	}
}

func TestListing(t *testing.T) {
	assert := assert.New(t)

	rec, result, err := assemble(t, `
.repeat 2
	emit 1
.endrepeat
	.byte 9
`)
	assert.NoError(err)
	if !assert.Equal(3, len(result.Listing)) {
		return
	}

	assert.Equal(int64(0), result.Listing[0].Addr)
	assert.Equal(int64(1), result.Listing[1].Addr)
	assert.Equal(result.Listing[0].Index, result.Listing[1].Index)
	assert.Equal([]byte{9}, result.Listing[2].Code)

	var sb strings.Builder
	assert.NoError(result.Listing.Write(&sb, rec))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	assert.Equal(3, len(lines))
	assert.Contains(lines[2], ".byte 9")
	assert.Contains(lines[2], "000002")
}
