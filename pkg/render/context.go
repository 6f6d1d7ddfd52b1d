package render

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	rokoerrors "github.com/rokoui/roko/internal/errors"
)

const defaultTracerName = "github.com/rokoui/roko/pkg/render"

// Errors returned by Apply. Each is a coded error that matches any error
// with the same code under errors.Is.
var (
	ErrDocument     = rokoerrors.New("RE001")
	ErrDispatch     = rokoerrors.New("RE002")
	ErrMissingChild = rokoerrors.New("RE003")
	ErrUnsupported  = rokoerrors.New("RE004")
)

// ErrorCode returns the code of the first coded error in err's tree
// ("RE001"), or "" when there is none.
func ErrorCode(err error) string {
	return rokoerrors.Code(err)
}

// DispatchPolicy selects how a failed message dispatch affects the pass.
type DispatchPolicy uint8

const (
	// DispatchContinue logs and counts the failure and keeps applying.
	DispatchContinue DispatchPolicy = iota
	// DispatchAbort aborts the pass with ErrDispatch.
	DispatchAbort
)

// String returns the string representation of the DispatchPolicy.
func (p DispatchPolicy) String() string {
	switch p {
	case DispatchContinue:
		return "continue"
	case DispatchAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Context holds the state of patch application: the outgoing message
// sender plus logging, tracing and metrics. Create one with NewContext; a
// Context may be reused across passes but a pass must not run concurrently
// with another pass on the same document subtree.
type Context[Msg any] struct {
	sender  Sender[Msg]
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics
	policy  DispatchPolicy
}

// Option configures a Context.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics
	policy  DispatchPolicy
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer sets the tracer used for the per-pass span. Default: the
// global otel tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDispatchPolicy sets how a failed send of a click, mount or unmount
// message affects the pass.
//
// The default, DispatchContinue, logs the failure at warn level, counts it
// in roko_dispatch_total{status="error"} and keeps patching, so a closed
// update loop does not leave the document half-patched. DispatchAbort
// treats the failure as fatal and ends the pass with ErrDispatch; nothing
// already applied is rolled back.
func WithDispatchPolicy(p DispatchPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// NewContext creates a Context that dispatches messages to sender.
func NewContext[Msg any](sender Sender[Msg], opts ...Option) *Context[Msg] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(defaultTracerName)
	}
	return &Context[Msg]{
		sender:  sender,
		logger:  o.logger.With("component", "render"),
		tracer:  o.tracer,
		metrics: o.metrics,
		policy:  o.policy,
	}
}

// Sender returns the context's message sender.
func (c *Context[Msg]) Sender() Sender[Msg] {
	return c.sender
}

// Policy returns the dispatch failure policy.
func (c *Context[Msg]) Policy() DispatchPolicy {
	return c.policy
}
