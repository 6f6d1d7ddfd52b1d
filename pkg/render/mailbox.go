package render

import (
	"context"
	"errors"
	"sync"
)

// ErrMailboxClosed is returned by Send after Close.
var ErrMailboxClosed = errors.New("render: mailbox closed")

// Sender delivers messages to the application's update loop.
//
// Send blocks until the message is accepted or ctx is done. A Sender must
// be safe for concurrent use: click handlers may send from any goroutine.
type Sender[Msg any] interface {
	Send(ctx context.Context, msg Msg) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc[Msg any] func(ctx context.Context, msg Msg) error

// Send calls f.
func (f SenderFunc[Msg]) Send(ctx context.Context, msg Msg) error {
	return f(ctx, msg)
}

// Mailbox is a multi-producer single-consumer message channel.
//
// Any number of goroutines may Send concurrently. Close stops further
// sends without panicking senders that race with it; the consumer drains
// Receive until it is closed.
type Mailbox[Msg any] struct {
	ch   chan Msg
	done chan struct{}

	closeOnce sync.Once
	// wg tracks in-flight sends so Close can close ch safely.
	wg sync.WaitGroup
	mu sync.RWMutex
}

// NewMailbox creates a mailbox with the given buffer size. A size of zero
// makes every Send wait for the consumer.
func NewMailbox[Msg any](size int) *Mailbox[Msg] {
	if size < 0 {
		size = 0
	}
	return &Mailbox[Msg]{
		ch:   make(chan Msg, size),
		done: make(chan struct{}),
	}
}

// Send implements Sender.
func (m *Mailbox[Msg]) Send(ctx context.Context, msg Msg) error {
	m.mu.RLock()
	select {
	case <-m.done:
		m.mu.RUnlock()
		return ErrMailboxClosed
	default:
	}
	m.wg.Add(1)
	m.mu.RUnlock()
	defer m.wg.Done()

	select {
	case m.ch <- msg:
		return nil
	case <-m.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive returns the consumer side. The channel is closed after Close once
// all in-flight sends have returned.
func (m *Mailbox[Msg]) Receive() <-chan Msg {
	return m.ch
}

// Close stops the mailbox. Buffered messages remain readable from Receive.
// Close is idempotent.
func (m *Mailbox[Msg]) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		close(m.done)
		m.mu.Unlock()
		go func() {
			m.wg.Wait()
			close(m.ch)
		}()
	})
}

// Closed reports whether Close has been called.
func (m *Mailbox[Msg]) Closed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// Len returns the number of buffered messages.
func (m *Mailbox[Msg]) Len() int {
	return len(m.ch)
}
