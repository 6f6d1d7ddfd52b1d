package render

import (
	"context"
	"fmt"

	rokoerrors "github.com/rokoui/roko/internal/errors"
	"github.com/rokoui/roko/pkg/dom"
	"github.com/rokoui/roko/pkg/vdom"
)

// Renderer materializes virtual nodes and attributes into a live document.
// *Context implements it.
type Renderer[Msg any] interface {
	// RenderNode creates the live counterpart of n in target's document.
	// The returned node is detached; the caller attaches it. A nil node
	// with a nil error means nothing needs attaching.
	RenderNode(ctx context.Context, target dom.Node, n *vdom.Node[Msg]) (dom.Node, error)

	// RenderAttribute applies a onto el.
	RenderAttribute(ctx context.Context, el dom.Element, a vdom.Attribute[Msg]) error
}

var _ Renderer[struct{}] = (*Context[struct{}])(nil)

// RenderNode implements Renderer. Elements are built attributes first,
// then children in order; mount handlers dispatch while the subtree is
// being built.
func (c *Context[Msg]) RenderNode(ctx context.Context, target dom.Node, n *vdom.Node[Msg]) (dom.Node, error) {
	if target == nil {
		return nil, rokoerrors.New("RE004").WithDetail("render target is nil")
	}
	doc := target.OwnerDocument()
	if doc == nil {
		return nil, rokoerrors.New("RE004").WithDetail("render target has no document")
	}
	return c.materialize(ctx, doc, n)
}

func (c *Context[Msg]) materialize(ctx context.Context, doc dom.Document, n *vdom.Node[Msg]) (dom.Node, error) {
	if n == nil {
		return nil, rokoerrors.New("RE004").WithDetail("virtual node is nil")
	}
	switch n.Kind {
	case vdom.KindText:
		t, err := doc.CreateTextNode(n.Text)
		if err != nil {
			return nil, documentError("createTextNode", err)
		}
		return t, nil

	case vdom.KindElement:
		el, err := doc.CreateElement(n.Tag)
		if err != nil {
			return nil, documentError(fmt.Sprintf("createElement(%q)", n.Tag), err)
		}
		for _, a := range n.Attrs {
			if err := c.RenderAttribute(ctx, el, a); err != nil {
				return nil, err
			}
		}
		for _, child := range n.Children {
			live, err := c.materialize(ctx, doc, child)
			if err != nil {
				return nil, err
			}
			if err := el.AppendChild(live); err != nil {
				return nil, documentError("appendChild", err)
			}
		}
		return el, nil

	default:
		return nil, rokoerrors.New("RE004").WithDetailf("unknown node kind %v", n.Kind)
	}
}

// RenderAttribute implements Renderer.
//
//   - click: registers a handler that dispatches the message on each click
//   - custom: sets the attribute
//   - mount: dispatches the message immediately
//   - unmount and marker: nothing at attach time
func (c *Context[Msg]) RenderAttribute(ctx context.Context, el dom.Element, a vdom.Attribute[Msg]) error {
	switch a.Kind {
	case vdom.AttrClick:
		h := a.Handler
		// Clicks arrive after the pass, so they must outlive its cancellation.
		clickCtx := context.WithoutCancel(ctx)
		err := el.SetOnClick(func() {
			_ = c.dispatch(clickCtx, "click", h)
		})
		if err != nil {
			return documentError("setOnClick", err)
		}
	case vdom.AttrCustom:
		if err := el.SetAttribute(a.Name, a.Value); err != nil {
			return documentError(fmt.Sprintf("setAttribute(%q)", a.Name), err)
		}
	case vdom.AttrMount:
		return c.dispatchInPass(ctx, "mount", a.Handler)
	case vdom.AttrUnmount, vdom.AttrMarker:
	default:
		return rokoerrors.New("RE004").WithDetailf("unknown attribute kind %v", a.Kind)
	}
	return nil
}

// dispatchInPass dispatches during a pass and applies the dispatch policy.
func (c *Context[Msg]) dispatchInPass(ctx context.Context, event string, h *vdom.Handler[Msg]) error {
	err := c.dispatch(ctx, event, h)
	if err == nil || c.policy == DispatchContinue {
		return nil
	}
	return rokoerrors.New("RE002").WithDetail(event).Wrap(err)
}

// dispatch sends the handler's message, blocking until the sender accepts
// it or ctx is done. Failures are logged and counted.
func (c *Context[Msg]) dispatch(ctx context.Context, event string, h *vdom.Handler[Msg]) error {
	if c.sender == nil {
		err := fmt.Errorf("render: no sender configured")
		c.logger.Warn("message dispatch failed", "event", event, "error", err)
		c.metrics.dispatch(event, "error")
		return err
	}
	if err := c.sender.Send(ctx, h.Msg()); err != nil {
		c.logger.Warn("message dispatch failed", "event", event, "error", err)
		c.metrics.dispatch(event, "error")
		return err
	}
	c.metrics.dispatch(event, "ok")
	return nil
}

func documentError(op string, err error) error {
	return rokoerrors.New("RE001").WithDetail(op).Wrap(err)
}
