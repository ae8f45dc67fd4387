package expr

import (
	"math"
	"strings"

	"go.starlark.net/starlark"

	"github.com/ezrec/retroasm/symbol"
)

// toStarlark converts a symbol value to a starlark value.
func toStarlark(v symbol.Value) (value starlark.Value, err error) {
	switch v := v.(type) {
	case int64:
		value = starlark.MakeInt64(v)
	case string:
		value = starlark.String(v)
	case bool:
		value = starlark.Bool(v)
	case []symbol.Value:
		elems := make([]starlark.Value, len(v))
		for n, elem := range v {
			elems[n], err = toStarlark(elem)
			if err != nil {
				return
			}
		}
		value = starlark.NewList(elems)
	default:
		err = &ErrType{Want: "value", Got: symbol.TypeName(v)}
	}
	return
}

// fromStarlark converts a starlark value to a symbol value.
func fromStarlark(v starlark.Value) (value symbol.Value, err error) {
	switch v := v.(type) {
	case starlark.Int:
		i64, ok := v.Int64()
		if !ok {
			err = ErrIntegerRange
			return
		}
		value = i64
	case starlark.Float:
		if float64(v) != math.Trunc(float64(v)) || math.Abs(float64(v)) > math.MaxInt64 {
			err = &ErrType{Want: "int", Got: "float"}
			return
		}
		value = int64(v)
	case starlark.String:
		value = string(v)
	case starlark.Bool:
		value = bool(v)
	case starlark.Indexable:
		elems := make([]symbol.Value, v.Len())
		for n := range v.Len() {
			elems[n], err = fromStarlark(v.Index(n))
			if err != nil {
				return
			}
		}
		value = elems
	default:
		err = &ErrType{Want: "value", Got: v.Type()}
	}
	return
}

// isOperator returns true for characters after which a `%` starts a
// binary literal.
func isOperator(c byte) bool {
	return strings.IndexByte("([{,+-*/%<>=!&|^~#", c) >= 0
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// rewrite translates assembler style operators and literals into
// starlark syntax. Text inside quotes is left alone.
func rewrite(text string) string {
	var sb strings.Builder
	var quote byte
	var prev byte // Last significant character written outside quotes.

	for n := 0; n < len(text); n++ {
		c := text[n]
		var next byte
		if n+1 < len(text) {
			next = text[n+1]
		}

		switch {
		case quote != 0:
			sb.WriteByte(c)
			if c == '\\' && n+1 < len(text) {
				n++
				sb.WriteByte(text[n])
			} else if c == quote {
				quote = 0
				prev = c
			}
			continue
		case c == '"' || c == '\'':
			quote = c
			sb.WriteByte(c)
			continue
		case c == '$' && isHex(next):
			sb.WriteString("0x")
		case c == '%' && (next == '0' || next == '1') && (prev == 0 || isOperator(prev)):
			sb.WriteString("0b")
		case c == '/' && next == '/':
			sb.WriteString("//")
			n++
		case c == '/':
			sb.WriteString("//")
		case c == '!' && next != '=':
			sb.WriteString(" not ")
		case c == '&' && next == '&':
			sb.WriteString(" and ")
			n++
		case c == '|' && next == '|':
			sb.WriteString(" or ")
			n++
		default:
			sb.WriteByte(c)
		}

		if c != ' ' && c != '\t' {
			prev = c
		}
	}

	return sb.String()
}
