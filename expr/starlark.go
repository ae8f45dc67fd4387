package expr

import (
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/retroasm/symbol"
)

// Starlark evaluates expressions with the starlark interpreter.
//
// On top of starlark syntax it accepts `$ff` hex and `%0101` binary
// literals, `!`, `&&` and `||`, and `/` as integer division. A bare run
// of `+` or `-` refers to an anonymous label.
type Starlark struct {
	opts syntax.FileOptions
}

var _ Evaluator = (*Starlark)(nil)

// NewStarlark creates a starlark backed evaluator.
func NewStarlark() *Starlark {
	return &Starlark{
		opts: syntax.FileOptions{
			Set:       true,
			Recursion: true,
		},
	}
}

var anonRe = regexp.MustCompile(`^(\++|-+)$`)

// evaluation is the state of a single Evaluate call.
type evaluation struct {
	env       *Env
	undefined bool
}

func (ev *evaluation) markUndefined(name string) starlark.Value {
	ev.undefined = true
	ev.env.Table.MarkUndefined(name)
	return starlark.MakeInt(0)
}

// Evaluate computes the value of an expression.
func (sl *Starlark) Evaluate(text string, env *Env) (value symbol.Value, defined bool, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrExpressionEmpty
		return
	}

	defer func() {
		if err != nil {
			err = &ErrExpression{Expr: text, Err: err}
		}
	}()

	if anonRe.MatchString(text) {
		sym, ok := env.Table.ResolveAnonymous(env.Line, text[0] == '+', len(text))
		if !ok {
			env.Table.MarkUndefined(text)
			return
		}
		return sym.Value, true, nil
	}

	ast, err := sl.opts.ParseExpr("expr", rewrite(text), 0)
	if err != nil {
		return
	}

	ev := &evaluation{env: env}
	predeclared := ev.bind(ast)

	thread := &starlark.Thread{Name: "expr"}
	result, err := starlark.EvalExprOptions(&sl.opts, thread, ast, predeclared)
	if ev.undefined {
		// Placeholder values make errors meaningless.
		err = nil
		return
	}
	if err != nil {
		return
	}

	value, err = fromStarlark(result)
	if err != nil {
		return
	}

	defined = true
	return
}

// EvaluateCondition computes the truth of an expression.
func (sl *Starlark) EvaluateCondition(text string, env *Env) (cond bool, defined bool, err error) {
	value, defined, err := sl.Evaluate(text, env)
	if err != nil || !defined {
		return
	}

	cond, err = Truth(value)
	if err != nil {
		err = &ErrExpression{Expr: text, Err: err}
	}
	return
}

// bind builds the predeclared environment for the free identifiers of ast.
func (ev *evaluation) bind(ast syntax.Expr) (predeclared starlark.StringDict) {
	predeclared = starlark.StringDict{}

	// Names bound by comprehensions and lambdas are local.
	bound := map[string]bool{}
	syntax.Walk(ast, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.ForClause:
			bindTargets(n.Vars, bound)
		case *syntax.LambdaExpr:
			for _, param := range n.Params {
				switch param := param.(type) {
				case *syntax.Ident:
					bound[param.Name] = true
				case *syntax.BinaryExpr:
					bindTargets(param.X, bound)
				case *syntax.UnaryExpr:
					if param.X != nil {
						bindTargets(param.X, bound)
					}
				}
			}
		}
		return true
	})

	var visit func(n syntax.Node) bool
	visit = func(n syntax.Node) bool {
		switch n := n.(type) {
		case nil:
			return false
		case *syntax.DotExpr:
			// Scopes win over symbols of the same name in dotted lookups.
			if id, ok := n.X.(*syntax.Ident); ok && !bound[id.Name] {
				if scope, ok := ev.env.Table.ResolveScope(id.Name); ok {
					predeclared[id.Name] = &scopeValue{scope: scope, ev: ev}
					return false
				}
			}
			syntax.Walk(n.X, visit)
			return false
		case *syntax.CallExpr:
			syntax.Walk(n.Fn, visit)
			for _, arg := range n.Args {
				if kw, ok := arg.(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
					syntax.Walk(kw.Y, visit)
					continue
				}
				syntax.Walk(arg, visit)
			}
			return false
		case *syntax.Ident:
			name := n.Name
			_, seen := predeclared[name]
			if !bound[name] && !seen {
				if value, ok := ev.lookup(name); ok {
					predeclared[name] = value
				}
			}
		}
		return true
	}
	syntax.Walk(ast, visit)

	return
}

func bindTargets(target syntax.Expr, bound map[string]bool) {
	switch target := target.(type) {
	case *syntax.Ident:
		bound[target.Name] = true
	case *syntax.TupleExpr:
		for _, elem := range target.List {
			bindTargets(elem, bound)
		}
	case *syntax.ParenExpr:
		bindTargets(target.X, bound)
	case *syntax.ListExpr:
		for _, elem := range target.List {
			bindTargets(elem, bound)
		}
	}
}

// lookup resolves a free identifier to a starlark value. Names left
// unbound are the starlark universe.
func (ev *evaluation) lookup(name string) (value starlark.Value, ok bool) {
	table := ev.env.Table

	sym, found := table.Resolve(name)
	if found {
		return ev.symbolValue(sym), true
	}

	builtin, found := ev.builtins()[name]
	if found {
		return builtin, true
	}

	if _, found = starlark.Universe[name]; found {
		return
	}

	scope, found := table.ResolveScope(name)
	if found {
		return &scopeValue{scope: scope, ev: ev}, true
	}

	return ev.markUndefined(name), true
}

// symbolValue converts a symbol to a starlark value.
func (ev *evaluation) symbolValue(sym *symbol.Symbol) starlark.Value {
	if fn, ok := sym.Value.(*symbol.Function); ok {
		return ev.function(fn)
	}
	if sym.Value == nil {
		return ev.markUndefined(sym.Name)
	}
	value, err := toStarlark(sym.Value)
	if err != nil {
		return ev.markUndefined(sym.Name)
	}
	return value
}

// function wraps a user function as a starlark builtin.
func (ev *evaluation) function(fn *symbol.Function) starlark.Value {
	return starlark.NewBuiltin(fn.Name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (result starlark.Value, err error) {
		if len(kwargs) > 0 {
			err = ErrKeywordArgs
			return
		}
		if ev.env.Caller == nil {
			err = ErrNoCaller
			return
		}

		values := make([]symbol.Value, len(args))
		for n, arg := range args {
			values[n], err = fromStarlark(arg)
			if err != nil {
				return
			}
		}

		value, defined, err := ev.env.Caller.Call(fn, values)
		if err != nil {
			return
		}
		if !defined {
			result = ev.markUndefined(fn.Name + "()")
			return
		}
		if value == nil {
			result = starlark.None
			return
		}
		return toStarlark(value)
	})
}

// builtins are the assembler specific functions and constants.
func (ev *evaluation) builtins() starlark.StringDict {
	return starlark.StringDict{
		"true":  starlark.True,
		"false": starlark.False,
		"defined": starlark.NewBuiltin("defined", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var name string
			err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name)
			if err != nil {
				return nil, err
			}
			return starlark.Bool(ev.env.Table.DefinedThisPass(name)), nil
		}),
		"lo": intBuiltin("lo", func(v int64) int64 { return v & 0xff }),
		"hi": intBuiltin("hi", func(v int64) int64 { return (v >> 8) & 0xff }),
		"hex": starlark.NewBuiltin("hex", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			v, err := intArg(b, args, kwargs)
			if err != nil {
				return nil, err
			}
			return starlark.String(fmt.Sprintf("%#x", v)), nil
		}),
	}
}

func intBuiltin(name string, op func(int64) int64) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		v, err := intArg(b, args, kwargs)
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt64(op(v)), nil
	})
}

// intArg unpacks the single integer argument of a builtin.
func intArg(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value int64, err error) {
	var arg starlark.Value
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &arg)
	if err != nil {
		return
	}
	v, err := fromStarlark(arg)
	if err != nil {
		return
	}
	value, ok := symbol.AsInt(v)
	if !ok {
		err = &ErrType{Want: "int", Got: symbol.TypeName(v)}
	}
	return
}

// scopeValue exposes a scope to dotted name lookups.
type scopeValue struct {
	scope *symbol.Scope
	ev    *evaluation
}

var _ starlark.HasAttrs = (*scopeValue)(nil)

func (sv *scopeValue) String() string        { return sv.scope.Path() }
func (sv *scopeValue) Type() string          { return "scope" }
func (sv *scopeValue) Freeze()               {}
func (sv *scopeValue) Truth() starlark.Bool  { return starlark.True }
func (sv *scopeValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: scope") }

func (sv *scopeValue) Attr(name string) (starlark.Value, error) {
	table := sv.ev.env.Table
	sym, ok := table.Lookup(sv.scope, name)
	if ok {
		return sv.ev.symbolValue(sym), nil
	}

	for _, child := range sv.scope.Children {
		if child.Name == name || (!table.CaseSensitive && strings.EqualFold(child.Name, name)) {
			return &scopeValue{scope: child, ev: sv.ev}, nil
		}
	}

	return sv.ev.markUndefined(sv.scope.Path() + "." + name), nil
}

func (sv *scopeValue) AttrNames() (names []string) {
	for name := range sv.scope.All() {
		names = append(names, name)
	}
	return
}
