package vdom

import (
	"fmt"
	"strconv"
)

// Text creates a text node.
func Text[Msg any](content string) *Node[Msg] {
	return &Node[Msg]{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf[Msg any](format string, args ...any) *Node[Msg] {
	return Text[Msg](fmt.Sprintf(format, args...))
}

// Into converts an already-built value into a node so it can be spliced
// into a tree. Nodes pass through unchanged; nil becomes an empty text node;
// everything else is rendered as text.
func Into[Msg any](v any) *Node[Msg] {
	switch x := v.(type) {
	case nil:
		return Text[Msg]("")
	case *Node[Msg]:
		if x == nil {
			return Text[Msg]("")
		}
		return x
	default:
		return Text[Msg](Str(v))
	}
}

// Some returns a pointer to v. Generated code uses it to mark a key as
// present.
func Some[T any](v T) *T {
	return &v
}

// Str converts v to its string form. Attribute values embedded as
// expressions in templates are coerced through Str.
func Str(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case error:
		return x.Error()
	default:
		return fmt.Sprint(v)
	}
}

// HTML marks a markup template inside a roko source file.
//
// Calls are rewritten into node constructors by roko gen at build time;
// the generated code never calls HTML. Reaching it at runtime means the
// source file was compiled without being generated first.
func HTML[Msg any](markup string) *Node[Msg] {
	panic("vdom: HTML template reached at runtime; run roko gen on this package")
}
