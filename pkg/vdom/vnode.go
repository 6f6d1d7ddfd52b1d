package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <button>, components
	KindText                // Plain text node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is the virtual DOM node, parameterized by the application message
// type it can produce.
//
// A Node is built by view code (hand-written or generated by roko gen) and
// is treated as immutable once built.
type Node[Msg any] struct {
	Kind     Kind             // Node type
	Tag      string           // Element tag name (e.g., "div")
	Key      *string          // Stable identity for reconciliation, nil when absent
	Model    any              // Component-local data, nil for plain elements
	Attrs    []Attribute[Msg] // Attributes in declaration order
	Children []*Node[Msg]     // Child nodes
	Text     string           // For KindText
}

// IsElement reports whether n is an element node.
func (n *Node[Msg]) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// IsText reports whether n is a text node.
func (n *Node[Msg]) IsText() bool {
	return n != nil && n.Kind == KindText
}

// KeyString returns the node key and whether one is set.
func (n *Node[Msg]) KeyString() (string, bool) {
	if n == nil || n.Key == nil {
		return "", false
	}
	return *n.Key, true
}

// IsInteractive returns true if the node carries event-bound attributes.
func (n *Node[Msg]) IsInteractive() bool {
	if !n.IsElement() {
		return false
	}
	for _, a := range n.Attrs {
		if a.IsEvent() {
			return true
		}
	}
	return false
}
