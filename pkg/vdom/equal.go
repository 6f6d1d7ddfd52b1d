package vdom

import "reflect"

// Equal reports whether a and b describe the same UI structure.
//
// Event-bound attributes are equal when they share a handler or when their
// messages are deeply equal. Models are compared with reflect.DeepEqual.
func Equal[Msg any](a, b *Node[Msg]) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindText {
		return a.Text == b.Text
	}
	if a.Tag != b.Tag || !equalKey(a.Key, b.Key) {
		return false
	}
	if !reflect.DeepEqual(a.Model, b.Model) {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if !AttributeEqual(a.Attrs[i], b.Attrs[i]) {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// AttributeEqual reports whether two attributes are the same variant with
// the same payload.
func AttributeEqual[Msg any](a, b Attribute[Msg]) bool {
	if a.Kind != b.Kind || a.Name != b.Name {
		return false
	}
	switch a.Kind {
	case AttrCustom:
		return a.Value == b.Value
	case AttrMarker:
		return true
	default:
		if a.Handler == b.Handler {
			return true
		}
		if a.Handler == nil || b.Handler == nil {
			return false
		}
		return reflect.DeepEqual(a.Handler.Msg(), b.Handler.Msg())
	}
}

func equalKey(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
