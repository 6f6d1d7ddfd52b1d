// Package memdom is an in-memory implementation of the dom interfaces.
//
// It follows browser semantics where the render engine can observe them:
// child collections are live, appending an attached node moves it, and
// attribute order is preserved. A Document and its nodes are not safe for
// concurrent use.
package memdom

import (
	"fmt"
	"strings"

	"github.com/rokoui/roko/pkg/dom"
)

// Op names a document operation, used for fault injection.
type Op string

const (
	OpCreateElement Op = "createElement"
	OpCreateText    Op = "createTextNode"
	OpAppendChild   Op = "appendChild"
	OpReplaceWith   Op = "replaceWith"
	OpRemove        Op = "remove"
	OpSetAttribute  Op = "setAttribute"
	OpSetOnClick    Op = "setOnClick"
	OpClearOnClick  Op = "clearOnClick"
)

// FaultFunc may return an error to make an operation fail before it
// mutates anything. target is the node the operation is invoked on, nil for
// node creation.
type FaultFunc func(op Op, target dom.Node) error

// Document is an in-memory document.
type Document struct {
	fault FaultFunc
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// SetFault installs fn to inject failures. Pass nil to clear it.
func (d *Document) SetFault(fn FaultFunc) {
	d.fault = fn
}

func (d *Document) check(op Op, target dom.Node) error {
	if d.fault == nil {
		return nil
	}
	if err := d.fault(op, target); err != nil {
		return fmt.Errorf("memdom: %s: %w", op, err)
	}
	return nil
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) (dom.Element, error) {
	if err := d.check(OpCreateElement, nil); err != nil {
		return nil, err
	}
	return d.NewElement(tag), nil
}

// CreateTextNode implements dom.Document.
func (d *Document) CreateTextNode(data string) (dom.Text, error) {
	if err := d.check(OpCreateText, nil); err != nil {
		return nil, err
	}
	return d.NewText(data), nil
}

// NewElement creates a detached element without fault checks.
func (d *Document) NewElement(tag string) *Element {
	return &Element{doc: d, tag: strings.ToLower(tag)}
}

// NewText creates a detached text node without fault checks.
func (d *Document) NewText(data string) *Text {
	return &Text{doc: d, data: data}
}

// child is implemented by every node this package creates.
type child interface {
	dom.Node
	document() *Document
	parentElement() *Element
	setParent(p *Element)
	writeHTML(b *strings.Builder)
}

type attr struct {
	name  string
	value string
}

// Element is an in-memory element.
type Element struct {
	doc      *Document
	parent   *Element
	tag      string
	attrs    []attr
	children []child
	onClick  func()
}

var _ dom.Element = (*Element)(nil)

func (e *Element) document() *Document     { return e.doc }
func (e *Element) parentElement() *Element { return e.parent }
func (e *Element) setParent(p *Element)    { e.parent = p }

// OwnerDocument implements dom.Node.
func (e *Element) OwnerDocument() dom.Document { return e.doc }

// Tag implements dom.Element.
func (e *Element) Tag() string { return e.tag }

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// ChildNodes implements dom.Element. The returned collection is live.
func (e *Element) ChildNodes() dom.Collection {
	return liveChildren{e}
}

// Children returns a copy of the current child list.
func (e *Element) Children() []dom.Node {
	nodes := make([]dom.Node, len(e.children))
	for i, c := range e.children {
		nodes[i] = c
	}
	return nodes
}

// Child returns the child at index i, or nil.
func (e *Element) Child(i int) dom.Node {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// AppendChild implements dom.Element.
func (e *Element) AppendChild(n dom.Node) error {
	c, err := e.adopt(n)
	if err != nil {
		return fmt.Errorf("memdom: append to <%s>: %w", e.tag, err)
	}
	if err := e.doc.check(OpAppendChild, e); err != nil {
		return err
	}
	detach(c)
	c.setParent(e)
	e.children = append(e.children, c)
	return nil
}

// ReplaceWith implements dom.Node.
func (e *Element) ReplaceWith(n dom.Node) error {
	return replaceWith(e, n)
}

// Remove implements dom.Node.
func (e *Element) Remove() error {
	return remove(e)
}

// GetAttribute implements dom.Element.
func (e *Element) GetAttribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// SetAttribute implements dom.Element.
func (e *Element) SetAttribute(name, value string) error {
	if name == "" {
		return fmt.Errorf("memdom: set attribute on <%s>: empty name", e.tag)
	}
	if err := e.doc.check(OpSetAttribute, e); err != nil {
		return err
	}
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return nil
		}
	}
	e.attrs = append(e.attrs, attr{name: name, value: value})
	return nil
}

// RemoveAttribute deletes the named attribute.
func (e *Element) RemoveAttribute(name string) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// AttributeNames returns attribute names in insertion order.
func (e *Element) AttributeNames() []string {
	names := make([]string, len(e.attrs))
	for i, a := range e.attrs {
		names[i] = a.name
	}
	return names
}

// SetOnClick implements dom.Element.
func (e *Element) SetOnClick(fn func()) error {
	if err := e.doc.check(OpSetOnClick, e); err != nil {
		return err
	}
	e.onClick = fn
	return nil
}

// ClearOnClick implements dom.Element.
func (e *Element) ClearOnClick() error {
	if err := e.doc.check(OpClearOnClick, e); err != nil {
		return err
	}
	e.onClick = nil
	return nil
}

// HasOnClick reports whether a click handler is registered.
func (e *Element) HasOnClick() bool {
	return e.onClick != nil
}

// Click invokes the click handler. It reports whether one was registered.
func (e *Element) Click() bool {
	if e.onClick == nil {
		return false
	}
	e.onClick()
	return true
}

// TextContent returns the concatenated text of all descendants.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(c child)
	walk = func(c child) {
		switch n := c.(type) {
		case *Text:
			b.WriteString(n.data)
		case *Element:
			for _, cc := range n.children {
				walk(cc)
			}
		}
	}
	walk(e)
	return b.String()
}

// contains reports whether n is e or one of its descendants.
func (e *Element) contains(n *Element) bool {
	for p := n; p != nil; p = p.parent {
		if p == e {
			return true
		}
	}
	return false
}

func (e *Element) adopt(n dom.Node) (child, error) {
	c, ok := n.(child)
	if !ok || c.document() != e.doc {
		return nil, dom.ErrForeignNode
	}
	if el, ok := c.(*Element); ok && el.contains(e) {
		return nil, dom.ErrHierarchy
	}
	return c, nil
}

func (e *Element) indexOf(c child) int {
	for i, cc := range e.children {
		if cc == c {
			return i
		}
	}
	return -1
}

// Text is an in-memory text node.
type Text struct {
	doc    *Document
	parent *Element
	data   string
}

var _ dom.Text = (*Text)(nil)

func (t *Text) document() *Document     { return t.doc }
func (t *Text) parentElement() *Element { return t.parent }
func (t *Text) setParent(p *Element)    { t.parent = p }

// OwnerDocument implements dom.Node.
func (t *Text) OwnerDocument() dom.Document { return t.doc }

// Data implements dom.Text.
func (t *Text) Data() string { return t.data }

// SetData replaces the text content.
func (t *Text) SetData(s string) { t.data = s }

// Parent returns the parent element, or nil when detached.
func (t *Text) Parent() *Element { return t.parent }

// ReplaceWith implements dom.Node.
func (t *Text) ReplaceWith(n dom.Node) error {
	return replaceWith(t, n)
}

// Remove implements dom.Node.
func (t *Text) Remove() error {
	return remove(t)
}

func replaceWith(self child, n dom.Node) error {
	parent := self.parentElement()
	if parent == nil {
		return fmt.Errorf("memdom: replace: %w", dom.ErrDetached)
	}
	if n == dom.Node(self) {
		return nil
	}
	c, err := parent.adopt(n)
	if err != nil {
		return fmt.Errorf("memdom: replace: %w", err)
	}
	if err := parent.doc.check(OpReplaceWith, self); err != nil {
		return err
	}
	detach(c)
	i := parent.indexOf(self)
	parent.children[i] = c
	c.setParent(parent)
	self.setParent(nil)
	return nil
}

func remove(self child) error {
	parent := self.parentElement()
	if parent == nil {
		return fmt.Errorf("memdom: remove: %w", dom.ErrDetached)
	}
	if err := parent.doc.check(OpRemove, self); err != nil {
		return err
	}
	detach(self)
	return nil
}

// detach removes c from its parent's child list, if any.
func detach(c child) {
	parent := c.parentElement()
	if parent == nil {
		return
	}
	if i := parent.indexOf(c); i >= 0 {
		parent.children = append(parent.children[:i], parent.children[i+1:]...)
	}
	c.setParent(nil)
}

// liveChildren reads the element's child list at call time.
type liveChildren struct {
	e *Element
}

func (l liveChildren) Len() int { return len(l.e.children) }

func (l liveChildren) Item(i int) (dom.Node, bool) {
	if i < 0 || i >= len(l.e.children) {
		return nil, false
	}
	return l.e.children[i], true
}
