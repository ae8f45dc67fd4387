package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/retroasm/symbol"
)

func newEnv() *Env {
	table := symbol.NewTable(true)
	table.StartPass()
	return &Env{Table: table}
}

func TestRewrite(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		in  string
		out string
	}){
		{"$ff", "0xff"},
		{"%0101 + 1", "0b0101 + 1"},
		{"a % 2", "a % 2"},
		{"(%11)", "(0b11)"},
		{"10 / 3", "10 // 3"},
		{"10 // 3", "10 // 3"},
		{"!x", " not x"},
		{"a != b", "a != b"},
		{"a && b || c", "a  and  b  or  c"},
		{`"$ff / %1"`, `"$ff / %1"`},
		{`'\'' + "$10"`, `'\'' + "$10"`},
	}

	for _, entry := range table {
		assert.Equal(entry.out, rewrite(entry.in), entry.in)
	}
}

func TestEvaluate(t *testing.T) {
	assert := assert.New(t)

	env := newEnv()
	_, err := env.Table.Define("COUNT", symbol.KIND_CONSTANT, int64(3), 0)
	assert.NoError(err)
	_, err = env.Table.Define("name", symbol.KIND_VARIABLE, "abc", 0)
	assert.NoError(err)
	_, err = env.Table.Define("items", symbol.KIND_VARIABLE, []symbol.Value{int64(1), int64(2)}, 0)
	assert.NoError(err)

	sl := NewStarlark()

	table := [](struct {
		expr  string
		value symbol.Value
	}){
		{"1 + 2", int64(3)},
		{"$10 * COUNT", int64(0x30)},
		{"%10000000", int64(128)},
		{"7 / 2", int64(3)},
		{"name + \"d\"", "abcd"},
		{"len(name)", int64(3)},
		{"items[1]", int64(2)},
		{"[x * 2 for x in items]", []symbol.Value{int64(2), int64(4)}},
		{"lo($1234)", int64(0x34)},
		{"hi($1234)", int64(0x12)},
		{"hex(255)", "0xff"},
		{"1 > 2", false},
		{"true && !false", true},
		{"COUNT if COUNT > 2 else 0", int64(3)},
		{"(lambda a: a + COUNT)(1)", int64(4)},
	}

	for _, entry := range table {
		value, defined, err := sl.Evaluate(entry.expr, env)
		assert.NoError(err, entry.expr)
		assert.True(defined, entry.expr)
		assert.Equal(entry.value, value, entry.expr)
	}

	assert.False(env.Table.NeedsPass())
}

func TestEvaluateUndefined(t *testing.T) {
	assert := assert.New(t)

	env := newEnv()
	sl := NewStarlark()

	value, defined, err := sl.Evaluate("FORWARD + 1", env)
	assert.NoError(err)
	assert.False(defined)
	assert.Nil(value)
	assert.True(env.Table.NeedsPass())
	assert.Equal([]string{"FORWARD"}, env.Table.Undefined())

	// An error caused by a placeholder is not reported.
	_, defined, err = sl.Evaluate("1 // LATER", env)
	assert.NoError(err)
	assert.False(defined)

	cond, defined, err := sl.EvaluateCondition("LATER > 2", env)
	assert.NoError(err)
	assert.False(defined)
	assert.False(cond)
}

func TestEvaluateErrors(t *testing.T) {
	assert := assert.New(t)

	env := newEnv()
	sl := NewStarlark()

	table := []string{
		"1 +",
		"\"a\" + 1",
		"1 // 0",
		"{1: 2}",
		"1.5",
	}
	for _, text := range table {
		_, _, err := sl.Evaluate(text, env)
		var ee *ErrExpression
		assert.True(errors.As(err, &ee), text)
	}

	_, _, err := sl.Evaluate("   ", env)
	assert.ErrorIs(err, ErrExpressionEmpty)

	_, _, err = sl.EvaluateCondition("\"yes\"", env)
	var et *ErrType
	assert.True(errors.As(err, &et))

	_, _, err = Int(sl, "\"str\"", env)
	assert.True(errors.As(err, &et))

	assert.False(env.Table.NeedsPass())
}

func TestEvaluateDefined(t *testing.T) {
	assert := assert.New(t)

	env := newEnv()
	sl := NewStarlark()

	cond, defined, err := sl.EvaluateCondition("defined(\"X\")", env)
	assert.NoError(err)
	assert.True(defined)
	assert.False(cond)

	_, err = env.Table.Define("X", symbol.KIND_CONSTANT, int64(1), 0)
	assert.NoError(err)
	cond, _, err = sl.EvaluateCondition("not defined(\"X\")", env)
	assert.NoError(err)
	assert.False(cond)

	assert.False(env.Table.NeedsPass())
}

func TestEvaluateScopes(t *testing.T) {
	assert := assert.New(t)

	env := newEnv()
	sl := NewStarlark()

	env.Table.Push("colors")
	_, err := env.Table.Define("red", symbol.KIND_LABEL, int64(0), 0)
	assert.NoError(err)
	env.Table.Push("inner")
	_, err = env.Table.Define("deep", symbol.KIND_LABEL, int64(7), 0)
	assert.NoError(err)
	assert.NoError(env.Table.Pop())
	assert.NoError(env.Table.Pop())

	// A label with the same name as the scope.
	_, err = env.Table.Define("colors", symbol.KIND_LABEL, int64(0x100), 0)
	assert.NoError(err)

	value, defined, err := sl.Evaluate("colors.red + colors.inner.deep", env)
	assert.NoError(err)
	assert.True(defined)
	assert.Equal(int64(7), value)

	value, _, err = sl.Evaluate("colors", env)
	assert.NoError(err)
	assert.Equal(int64(0x100), value)

	_, defined, err = sl.Evaluate("colors.blue", env)
	assert.NoError(err)
	assert.False(defined)
	assert.Equal([]string{"colors.blue"}, env.Table.Undefined())
}

func TestEvaluateAnonymous(t *testing.T) {
	assert := assert.New(t)

	env := newEnv()
	sl := NewStarlark()

	env.Table.DefineAnonymous(0, false, int64(0x1000))
	env.Table.DefineAnonymous(2, true, int64(0x1010))

	env.Line = 1
	value, defined, err := sl.Evaluate("-", env)
	assert.NoError(err)
	assert.True(defined)
	assert.Equal(int64(0x1000), value)

	value, _, err = sl.Evaluate("+", env)
	assert.NoError(err)
	assert.Equal(int64(0x1010), value)

	_, defined, err = sl.Evaluate("++", env)
	assert.NoError(err)
	assert.False(defined)
	assert.True(env.Table.NeedsPass())
}

type fakeCaller struct {
	calls int
}

func (fc *fakeCaller) Call(fn *symbol.Function, args []symbol.Value) (value symbol.Value, defined bool, err error) {
	fc.calls++
	sum := int64(0)
	for _, arg := range args {
		v, _ := symbol.AsInt(arg)
		sum += v
	}
	return sum, true, nil
}

func TestEvaluateFunction(t *testing.T) {
	assert := assert.New(t)

	env := newEnv()
	sl := NewStarlark()

	fn := &symbol.Function{Name: "sum", Args: []string{"a", "b"}, Start: 1, End: 4}
	_, err := env.Table.Define("sum", symbol.KIND_FUNCTION, fn, 1)
	assert.NoError(err)

	_, _, err = sl.Evaluate("sum(1, 2)", env)
	assert.ErrorIs(err, ErrNoCaller)

	caller := &fakeCaller{}
	env.Caller = caller
	value, defined, err := sl.Evaluate("sum(1, 2) * 2", env)
	assert.NoError(err)
	assert.True(defined)
	assert.Equal(int64(6), value)
	assert.Equal(1, caller.calls)

	_, _, err = sl.Evaluate("sum(a=1)", env)
	assert.ErrorIs(err, ErrKeywordArgs)
}
