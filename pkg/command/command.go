// Package command runs deferred units of work that may produce a message.
//
// Functions annotated with //roko:cmd are rewritten by roko gen into
// wrappers that call Start and return the *Future immediately:
//
//	//roko:cmd
//	func fetchUser(ctx context.Context, id string) (Msg, bool) { ... }
//
//	f := fetchUser(ctx, "42") // *command.Future[Msg], already running
//	msg, ok, err := f.Await(ctx)
//
// Forward feeds the result back into the update loop.
package command

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// ErrPanicked is wrapped by Err when the work panicked.
var ErrPanicked = errors.New("command: work panicked")

// Sender is the subset of render.Sender a Future forwards to.
type Sender[Msg any] interface {
	Send(ctx context.Context, msg Msg) error
}

// Future is a handle to work started by Start. It is safe for concurrent
// use.
type Future[Msg any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	// Written once before done is closed.
	msg Msg
	ok  bool
	err error
}

// Start runs fn on its own goroutine with a context derived from ctx and
// returns a handle to it. fn reports an optional message: ok is false when
// the work produced nothing to dispatch.
func Start[Msg any](ctx context.Context, fn func(ctx context.Context) (Msg, bool)) *Future[Msg] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[Msg]{cancel: cancel, done: make(chan struct{})}
	go f.run(ctx, fn)
	return f
}

// Ready returns a future that is already resolved to (msg, ok).
func Ready[Msg any](msg Msg, ok bool) *Future[Msg] {
	f := &Future[Msg]{cancel: func() {}, done: make(chan struct{}), msg: msg, ok: ok}
	close(f.done)
	return f
}

func (f *Future[Msg]) run(ctx context.Context, fn func(context.Context) (Msg, bool)) {
	defer close(f.done)
	defer f.cancel()
	defer func() {
		if r := recover(); r != nil {
			var zero Msg
			f.msg, f.ok = zero, false
			f.err = fmt.Errorf("%w: %v\n%s", ErrPanicked, r, debug.Stack())
		}
	}()
	f.msg, f.ok = fn(ctx)
}

// Done returns a channel closed when the work has finished.
func (f *Future[Msg]) Done() <-chan struct{} {
	return f.done
}

// Poll reports the result without blocking. ready is false while the work
// is still running.
func (f *Future[Msg]) Poll() (msg Msg, ok bool, ready bool) {
	select {
	case <-f.done:
		return f.msg, f.ok, true
	default:
		var zero Msg
		return zero, false, false
	}
}

// Await blocks until the work finishes or ctx is done. It returns ctx's
// error in the latter case; the work keeps running.
func (f *Future[Msg]) Await(ctx context.Context) (Msg, bool, error) {
	select {
	case <-f.done:
		return f.msg, f.ok, f.err
	case <-ctx.Done():
		var zero Msg
		return zero, false, ctx.Err()
	}
}

// Cancel cancels the context passed to the work. It does not wait.
func (f *Future[Msg]) Cancel() {
	f.cancel()
}

// Err returns the panic error once the work has finished, nil otherwise.
func (f *Future[Msg]) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Forward awaits f and sends its message to s if the work produced one.
func Forward[Msg any](ctx context.Context, f *Future[Msg], s Sender[Msg]) error {
	msg, ok, err := f.Await(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.Send(ctx, msg)
}

// Group tracks several futures so they can be cancelled and awaited
// together.
type Group[Msg any] struct {
	mu      sync.Mutex
	futures []*Future[Msg]
}

// Go starts fn and adds it to the group.
func (g *Group[Msg]) Go(ctx context.Context, fn func(ctx context.Context) (Msg, bool)) *Future[Msg] {
	f := Start(ctx, fn)
	g.Add(f)
	return f
}

// Add adds an already started future.
func (g *Group[Msg]) Add(f *Future[Msg]) {
	g.mu.Lock()
	g.futures = append(g.futures, f)
	g.mu.Unlock()
}

// Cancel cancels every future in the group.
func (g *Group[Msg]) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, f := range g.futures {
		f.Cancel()
	}
}

// Wait blocks until every future has finished or ctx is done, and returns
// the first panic error.
func (g *Group[Msg]) Wait(ctx context.Context) error {
	g.mu.Lock()
	futures := append([]*Future[Msg](nil), g.futures...)
	g.mu.Unlock()

	var first error
	for _, f := range futures {
		_, _, err := f.Await(ctx)
		if err != nil && first == nil {
			first = err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return first
}
