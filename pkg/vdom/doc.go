// Package vdom provides the virtual node and patch data model for roko.
//
// A view renders application state into a tree of Node values. Nodes are
// parameterized by the application's message type so event-bound
// attributes can only carry messages the update loop understands.
//
// # Core Types
//
// Node is either an element (tag, optional key, optional model, attributes,
// children) or a text leaf. Attribute is a tagged variant: a custom string
// pair, a value-less marker, or an event binding (click, mount, unmount)
// holding a shared *Handler.
//
// Patch and AttrPatch describe the transform from the rendered tree to the
// desired one. They are produced by a diff algorithm outside this package
// and consumed by package render.
//
// # Element API
//
// Element constructors share one call shape, (key, attributes, children):
//
//	Div(Some("row-1"),
//	    []Attribute[Msg]{Class[Msg]("row"), OnClick(Share[Msg](Selected{}))},
//	    []*Node[Msg]{Text[Msg]("Hello")},
//	)
//
// Hand-writing these calls is possible; most views use templates instead:
//
//	func view(m Model) *vdom.Node[Msg] {
//	    return vdom.HTML[Msg](`<div key={m.ID} onclick={Selected{}}>Hello</div>`)
//	}
//
// roko gen rewrites each HTML call into the constructor calls above.
package vdom
