// Package value defines the two runtime value kinds TinyPie programs trade
// in — integers and immutable strings — and the handful of operations both
// the tree-walking interpreter and the bytecode VM need to agree on:
// truthiness, a display type name, and quoted formatting for trace output.
package value

import "fmt"

// TypeError reports an operation applied to operands of incompatible or
// unsupported dynamic type — e.g. multiplying two strings.
type TypeError struct{ Msg string }

func (e *TypeError) Error() string { return e.Msg }

// Add implements TinyPie's `+`: integer addition only. `+` is not defined
// on strings; either operand being a string is a TypeError.
func Add(a, b any) (any, error) {
	ai, aok := a.(int)
	bi, bok := b.(int)
	if aok && bok {
		return ai + bi, nil
	}
	return nil, &TypeError{Msg: fmt.Sprintf("unsupported operand types for +: %s and %s", TypeName(a), TypeName(b))}
}

// Sub implements TinyPie's `-`: integer subtraction only.
func Sub(a, b any) (any, error) {
	ai, aok := a.(int)
	bi, bok := b.(int)
	if aok && bok {
		return ai - bi, nil
	}
	return nil, &TypeError{Msg: fmt.Sprintf("unsupported operand types for -: %s and %s", TypeName(a), TypeName(b))}
}

// Mul implements TinyPie's `*`: integer multiplication only.
func Mul(a, b any) (any, error) {
	ai, aok := a.(int)
	bi, bok := b.(int)
	if aok && bok {
		return ai * bi, nil
	}
	return nil, &TypeError{Msg: fmt.Sprintf("unsupported operand types for *: %s and %s", TypeName(a), TypeName(b))}
}

// Less implements TinyPie's `<`: integer and lexicographic string
// comparison.
func Less(a, b any) (bool, error) {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as < bs, nil
		}
	}
	ai, aok := a.(int)
	bi, bok := b.(int)
	if aok && bok {
		return ai < bi, nil
	}
	return false, &TypeError{Msg: fmt.Sprintf("unsupported operand types for <: %s and %s", TypeName(a), TypeName(b))}
}

// Truthy implements TinyPie's truthiness rule: integers are truthy when
// non-zero, strings when non-empty. Anything else (a nil slot) is falsy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case int:
		return t != 0
	case string:
		return t != ""
	default:
		return false
	}
}

// TypeName is the name coredump output uses for a value's dynamic type.
func TypeName(v any) string {
	switch v.(type) {
	case int:
		return "int"
	case string:
		return "str"
	case nil:
		return "NoneType"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Quote renders v the way trace output and coredumps do: strings wrapped in
// single quotes, nil (an unset slot) as "?", everything else via its
// default formatting.
func Quote(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	if v == nil {
		return "?"
	}
	return fmt.Sprint(v)
}
