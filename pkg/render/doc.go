// Package render applies patch trees to a live document.
//
// A pass takes a vdom.Patch describing how the rendered tree differs from
// the desired one and performs the document mutations that make the live
// document match. Event-bound attributes are wired to a Sender so document
// interaction produces typed messages for the application's update loop.
//
// # Basic Usage
//
//	mb := render.NewMailbox[Msg](64)
//	rc := render.NewContext[Msg](mb,
//	    render.WithLogger(logger),
//	    render.WithMetrics(render.NewMetrics()),
//	)
//
//	if err := rc.Apply(ctx, patch, root); err != nil {
//	    // the pass was aborted; the document is left as-is
//	}
//
//	for msg := range mb.Receive() {
//	    model = update(model, msg)
//	}
//
// # Pass Semantics
//
// Patches are applied depth-first. For an Update patch the target's child
// nodes are snapshotted once; child patch i applies to snapshot[i], or to
// the target itself when the snapshot has no i-th child. Children are
// patched before the target's own attributes.
//
// A document error aborts the pass with RE001. Nothing already applied is
// rolled back. Dispatch failures are logged and counted by default; with
// WithDispatchPolicy(DispatchAbort) they abort the pass with RE002.
//
// # Errors
//
// Apply returns coded errors from roko's internal error package, which
// callers outside this module cannot name. Match them with errors.Is
// against ErrDocument, ErrDispatch, ErrMissingChild and ErrUnsupported,
// read the code with ErrorCode, or print them with their Error method,
// which includes code, detail and cause.
//
// # Concurrency
//
// Apply is synchronous and does not lock the document; callers serialize
// passes per root. Dispatch blocks until the Sender accepts the message or
// the context passed to Apply is done. Click handlers fire outside the pass
// and use a context that is not cancelled when the pass ends.
package render
