// Package dom defines the document capabilities the roko render engine
// needs from a live document.
//
// Implementations live in subpackages: memdom is an in-memory document
// for tests and headless tooling, jsdom binds the browser document under
// GOOS=js GOARCH=wasm.
//
// Every operation is synchronous. An error from any operation is treated
// by the render engine as fatal to the current pass.
package dom

import "errors"

var (
	// ErrDetached is returned when an operation needs a parent the node
	// does not have.
	ErrDetached = errors.New("dom: node is detached")

	// ErrHierarchy is returned when an insertion would create a cycle or
	// insert a node into itself.
	ErrHierarchy = errors.New("dom: hierarchy request error")

	// ErrForeignNode is returned when a node from another document or
	// implementation is inserted.
	ErrForeignNode = errors.New("dom: node belongs to another document")
)

// Node is a live document node.
type Node interface {
	// OwnerDocument returns the document that created the node.
	OwnerDocument() Document

	// ReplaceWith substitutes n for this node in its parent. Click handlers
	// in the replaced subtree may be released.
	ReplaceWith(n Node) error

	// Remove detaches this node from its parent. Click handlers in the
	// removed subtree may be released; detached nodes are not reused.
	Remove() error
}

// Element is a live element node.
type Element interface {
	Node

	// Tag returns the lowercase tag name.
	Tag() string

	// ChildNodes returns the element's children, text nodes included.
	ChildNodes() Collection

	// AppendChild adds n as the last child, detaching it from any previous
	// parent first.
	AppendChild(n Node) error

	// GetAttribute returns the named attribute and whether it is present.
	GetAttribute(name string) (string, bool)

	// SetAttribute sets the named attribute.
	SetAttribute(name, value string) error

	// SetOnClick registers fn as the element's click handler, replacing any
	// previous one.
	SetOnClick(fn func()) error

	// ClearOnClick removes the click handler.
	ClearOnClick() error
}

// Text is a live text node.
type Text interface {
	Node

	// Data returns the text content.
	Data() string
}

// Collection is an indexable list of nodes.
type Collection interface {
	// Len returns the number of nodes.
	Len() int

	// Item returns the node at zero-based index i, or false past the end.
	Item(i int) (Node, bool)
}

// Document creates nodes.
type Document interface {
	CreateElement(tag string) (Element, error)
	CreateTextNode(data string) (Text, error)
}

// Snapshot copies the current contents of c. Later mutations of the live
// collection do not affect the returned slice.
func Snapshot(c Collection) []Node {
	if c == nil {
		return nil
	}
	nodes := make([]Node, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		n, ok := c.Item(i)
		if !ok {
			break
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// SliceCollection is a Collection backed by a slice.
type SliceCollection []Node

// Len implements Collection.
func (s SliceCollection) Len() int { return len(s) }

// Item implements Collection.
func (s SliceCollection) Item(i int) (Node, bool) {
	if i < 0 || i >= len(s) {
		return nil, false
	}
	return s[i], true
}
