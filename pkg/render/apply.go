package render

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	rokoerrors "github.com/rokoui/roko/internal/errors"
	"github.com/rokoui/roko/pkg/dom"
	"github.com/rokoui/roko/pkg/vdom"
)

// Apply performs one pass: it applies p to target and everything below it.
//
//   - Add materializes p.Node and appends it as the last child of target.
//   - Replace materializes p.Node and substitutes it for target.
//   - Update patches target's children against a snapshot of its child
//     nodes, then applies the attribute patches to target.
//   - Remove detaches target.
//   - Nothing does nothing.
//
// The first document error aborts the pass. Mutations made before the
// failure stay in place.
func (c *Context[Msg]) Apply(ctx context.Context, p vdom.Patch[Msg], target dom.Node) error {
	ctx, span := c.tracer.Start(ctx, "roko.apply",
		trace.WithAttributes(
			attribute.String("roko.patch.op", p.Op.String()),
			attribute.Int("roko.patch.count", p.Count()),
		),
	)
	defer span.End()
	start := time.Now()

	err := c.apply(ctx, p, target)

	code := rokoerrors.Code(err)
	c.metrics.pass(time.Since(start).Seconds(), code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("patch pass aborted", "op", p.Op.String(), "code", code, "error", err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Context[Msg]) apply(ctx context.Context, p vdom.Patch[Msg], target dom.Node) error {
	if p.Op == vdom.PatchNothing {
		return nil
	}
	if target == nil {
		return rokoerrors.New("RE004").WithDetailf("%s patch has no target", p.Op)
	}

	switch p.Op {
	case vdom.PatchAdd:
		el, ok := target.(dom.Element)
		if !ok {
			return rokoerrors.New("RE004").WithDetailf("Add needs an element target, got %T", target)
		}
		live, err := c.RenderNode(ctx, target, p.Node)
		if err != nil {
			return err
		}
		if live != nil {
			if err := el.AppendChild(live); err != nil {
				return documentError("appendChild", err)
			}
		}

	case vdom.PatchReplace:
		live, err := c.RenderNode(ctx, target, p.Node)
		if err != nil {
			return err
		}
		if live != nil {
			if err := target.ReplaceWith(live); err != nil {
				return documentError("replaceWith", err)
			}
		}

	case vdom.PatchUpdate:
		el, ok := target.(dom.Element)
		if !ok {
			return rokoerrors.New("RE004").WithDetailf("Update needs an element target, got %T", target)
		}
		if err := c.applyChildren(ctx, el, p.Children); err != nil {
			return err
		}
		if err := c.applyAttributes(ctx, el, p.Attrs); err != nil {
			return err
		}

	case vdom.PatchRemove:
		if err := target.Remove(); err != nil {
			return documentError("remove", err)
		}

	default:
		return rokoerrors.New("RE004").WithDetailf("unknown patch op %v", p.Op)
	}

	c.metrics.patch(p.Op.String())
	return nil
}

// applyChildren applies patch i to the i-th child of a snapshot taken
// before any child patch runs. A patch with no corresponding child applies
// to the parent, which only makes sense for Add and Nothing.
func (c *Context[Msg]) applyChildren(ctx context.Context, parent dom.Element, patches []vdom.Patch[Msg]) error {
	if len(patches) == 0 {
		return nil
	}
	children := dom.Snapshot(parent.ChildNodes())
	for i, p := range patches {
		if i < len(children) {
			if err := c.apply(ctx, p, children[i]); err != nil {
				return err
			}
			continue
		}
		switch p.Op {
		case vdom.PatchAdd, vdom.PatchNothing:
			if err := c.apply(ctx, p, parent); err != nil {
				return err
			}
		default:
			return rokoerrors.New("RE003").
				WithDetailf("%s patch at child %d, parent <%s> has %d children", p.Op, i, parent.Tag(), len(children))
		}
	}
	return nil
}

func (c *Context[Msg]) applyAttributes(ctx context.Context, el dom.Element, patches []vdom.AttrPatch[Msg]) error {
	for _, ap := range patches {
		if err := c.applyAttribute(ctx, el, ap); err != nil {
			return err
		}
		c.metrics.attrPatch(ap.Op.String(), ap.Attr.Kind.String())
	}
	return nil
}

func (c *Context[Msg]) applyAttribute(ctx context.Context, el dom.Element, ap vdom.AttrPatch[Msg]) error {
	if ap.Op == vdom.AttrAdd {
		return c.RenderAttribute(ctx, el, ap.Attr)
	}
	a := ap.Attr
	switch a.Kind {
	case vdom.AttrClick:
		if err := el.ClearOnClick(); err != nil {
			return documentError("clearOnClick", err)
		}
	case vdom.AttrCustom:
		// Cleared, not deleted.
		if err := el.SetAttribute(a.Name, ""); err != nil {
			return documentError("setAttribute", err)
		}
	case vdom.AttrUnmount:
		return c.dispatchInPass(ctx, "unmount", a.Handler)
	case vdom.AttrMount, vdom.AttrMarker:
	default:
		return rokoerrors.New("RE004").WithDetailf("unknown attribute kind %v", a.Kind)
	}
	return nil
}
