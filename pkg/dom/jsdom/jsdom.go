//go:build js && wasm

// Package jsdom binds the dom interfaces to the browser document through
// syscall/js.
//
// JavaScript exceptions raised by document calls are recovered and
// returned as errors. Click handlers run on their own goroutine so a
// blocking message send never stalls the JavaScript event loop.
package jsdom

import (
	"fmt"
	"sync"
	"syscall/js"

	"github.com/rokoui/roko/pkg/dom"
)

const (
	nodeElement = 1
	nodeText    = 3

	// clickProp is the JS property holding the element's handler id.
	clickProp = "__rokoClick"
)

// Document wraps the browser document.
type Document struct {
	v js.Value

	mu     sync.Mutex
	nextID int
	funcs  map[int]js.Func
}

// Global returns the document of the current page.
func Global() *Document {
	return Wrap(js.Global().Get("document"))
}

// Wrap wraps a document value.
func Wrap(v js.Value) *Document {
	return &Document{v: v, funcs: make(map[int]js.Func)}
}

// Element wraps an element of this document.
func (d *Document) Element(v js.Value) *Element {
	return &Element{node: node{doc: d, v: v}}
}

// QuerySelector returns the first element matching selector.
func (d *Document) QuerySelector(selector string) (*Element, error) {
	var found js.Value
	err := guard("querySelector", func() {
		found = d.v.Call("querySelector", selector)
	})
	if err != nil {
		return nil, err
	}
	if found.IsNull() || found.IsUndefined() {
		return nil, fmt.Errorf("jsdom: no element matches %q", selector)
	}
	return d.Element(found), nil
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) (dom.Element, error) {
	var v js.Value
	if err := guard("createElement", func() { v = d.v.Call("createElement", tag) }); err != nil {
		return nil, err
	}
	return d.Element(v), nil
}

// CreateTextNode implements dom.Document.
func (d *Document) CreateTextNode(data string) (dom.Text, error) {
	var v js.Value
	if err := guard("createTextNode", func() { v = d.v.Call("createTextNode", data) }); err != nil {
		return nil, err
	}
	return &Text{node: node{doc: d, v: v}}, nil
}

// ReleaseAll releases every registered click callback.
func (d *Document) ReleaseAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, fn := range d.funcs {
		fn.Release()
		delete(d.funcs, id)
	}
}

func (d *Document) wrap(v js.Value) dom.Node {
	switch v.Get("nodeType").Int() {
	case nodeElement:
		return d.Element(v)
	case nodeText:
		return &Text{node: node{doc: d, v: v}}
	default:
		n := node{doc: d, v: v}
		return &n
	}
}

func (d *Document) register(fn js.Func) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.funcs[d.nextID] = fn
	return d.nextID
}

func (d *Document) release(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if fn, ok := d.funcs[id]; ok {
		fn.Release()
		delete(d.funcs, id)
	}
}

// releaseTree releases the click callbacks of v and its descendants.
// Called once v is detached; nothing can click it any more.
func (d *Document) releaseTree(v js.Value) {
	d.mu.Lock()
	empty := len(d.funcs) == 0
	d.mu.Unlock()
	if empty || v.Get("nodeType").Int() != nodeElement {
		return
	}
	d.releaseClick(v)
	all := v.Call("querySelectorAll", "*")
	for i, n := 0, all.Length(); i < n; i++ {
		d.releaseClick(all.Index(i))
	}
}

func (d *Document) releaseClick(v js.Value) {
	id := v.Get(clickProp)
	if id.Type() != js.TypeNumber {
		return
	}
	v.Set("onclick", js.Null())
	v.Delete(clickProp)
	d.release(id.Int())
}

// Callbacks returns the number of click callbacks still registered.
func (d *Document) Callbacks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.funcs)
}

type node struct {
	doc *Document
	v   js.Value
}

// Value returns the underlying JS value.
func (n *node) Value() js.Value { return n.v }

// OwnerDocument implements dom.Node.
func (n *node) OwnerDocument() dom.Document { return n.doc }

// ReplaceWith implements dom.Node. Click callbacks registered in the
// replaced subtree are released.
func (n *node) ReplaceWith(other dom.Node) error {
	v, err := valueOf(other)
	if err != nil {
		return err
	}
	if n.v.Get("parentNode").IsNull() {
		return fmt.Errorf("jsdom: replace: %w", dom.ErrDetached)
	}
	return guard("replaceWith", func() {
		n.v.Call("replaceWith", v)
		n.doc.releaseTree(n.v)
	})
}

// Remove implements dom.Node. Click callbacks registered in the removed
// subtree are released.
func (n *node) Remove() error {
	if n.v.Get("parentNode").IsNull() {
		return fmt.Errorf("jsdom: remove: %w", dom.ErrDetached)
	}
	return guard("remove", func() {
		n.v.Call("remove")
		n.doc.releaseTree(n.v)
	})
}

// Element is a browser element.
type Element struct {
	node
}

var _ dom.Element = (*Element)(nil)

// Tag implements dom.Element.
func (e *Element) Tag() string {
	return js.Global().Get("String").Invoke(e.v.Get("tagName")).Call("toLowerCase").String()
}

// ChildNodes implements dom.Element. The collection is live.
func (e *Element) ChildNodes() dom.Collection {
	return children{doc: e.doc, list: e.v.Get("childNodes")}
}

// AppendChild implements dom.Element.
func (e *Element) AppendChild(n dom.Node) error {
	v, err := valueOf(n)
	if err != nil {
		return err
	}
	return guard("appendChild", func() { e.v.Call("appendChild", v) })
}

// GetAttribute implements dom.Element.
func (e *Element) GetAttribute(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

// SetAttribute implements dom.Element.
func (e *Element) SetAttribute(name, value string) error {
	return guard("setAttribute", func() { e.v.Call("setAttribute", name, value) })
}

// SetOnClick implements dom.Element. The previous callback, if any, is
// released.
func (e *Element) SetOnClick(fn func()) error {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		go fn()
		return nil
	})
	id := e.doc.register(cb)
	err := guard("setOnClick", func() {
		e.v.Set("onclick", cb)
		prev := e.v.Get(clickProp)
		e.v.Set(clickProp, id)
		if prev.Type() == js.TypeNumber {
			e.doc.release(prev.Int())
		}
	})
	if err != nil {
		e.doc.release(id)
	}
	return err
}

// ClearOnClick implements dom.Element.
func (e *Element) ClearOnClick() error {
	return guard("clearOnClick", func() {
		e.v.Set("onclick", js.Null())
		prev := e.v.Get(clickProp)
		e.v.Delete(clickProp)
		if prev.Type() == js.TypeNumber {
			e.doc.release(prev.Int())
		}
	})
}

// Text is a browser text node.
type Text struct {
	node
}

var _ dom.Text = (*Text)(nil)

// Data implements dom.Text.
func (t *Text) Data() string {
	return t.v.Get("data").String()
}

type children struct {
	doc  *Document
	list js.Value
}

func (c children) Len() int { return c.list.Get("length").Int() }

func (c children) Item(i int) (dom.Node, bool) {
	if i < 0 || i >= c.Len() {
		return nil, false
	}
	return c.doc.wrap(c.list.Index(i)), true
}

type valuer interface {
	Value() js.Value
}

func valueOf(n dom.Node) (js.Value, error) {
	v, ok := n.(valuer)
	if !ok {
		return js.Undefined(), dom.ErrForeignNode
	}
	return v.Value(), nil
}

// guard runs fn and converts a thrown JavaScript exception into an error.
func guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = fmt.Errorf("jsdom: %s: %w", op, jsErr)
				return
			}
			err = fmt.Errorf("jsdom: %s: %v", op, r)
		}
	}()
	fn()
	return nil
}
