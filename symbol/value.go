package symbol

import (
	"fmt"
	"strings"
)

// Value is a symbol value: an int64, string, bool, or []Value.
type Value any

// TypeName returns the assembler level type name of a value.
func TypeName(v Value) string {
	switch v.(type) {
	case int64:
		return "int"
	case string:
		return "string"
	case bool:
		return "bool"
	case []Value:
		return "list"
	case *Function:
		return "function"
	case nil:
		return "none"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// AsInt returns the integer value of v.
func AsInt(v Value) (value int64, ok bool) {
	value, ok = v.(int64)
	return
}

// Equal compares two values.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case []Value:
		b, ok := b.([]Value)
		if !ok || len(a) != len(b) {
			return false
		}
		for n := range a {
			if !Equal(a[n], b[n]) {
				return false
			}
		}
		return true
	case *Function:
		b, ok := b.(*Function)
		return ok && a.Start == b.Start && a.End == b.End && strings.Join(a.Args, ",") == strings.Join(b.Args, ",")
	default:
		return a == b
	}
}

// Elements returns the elements of a collection value: the characters
// of a string, or the members of a list.
func Elements(v Value) (elems []Value, ok bool) {
	switch v := v.(type) {
	case string:
		for _, r := range v {
			elems = append(elems, string(r))
		}
		ok = true
	case []Value:
		elems = v
		ok = true
	}
	return
}
