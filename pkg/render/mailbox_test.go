package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMailboxConcurrentSend(t *testing.T) {
	mb := NewMailbox[int](16)
	const producers, perProducer = 8, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := mb.Send(context.Background(), p*perProducer+i); err != nil {
					t.Errorf("Send() error = %v", err)
					return
				}
			}
		}(p)
	}

	done := make(chan map[int]bool)
	go func() {
		seen := make(map[int]bool)
		for v := range mb.Receive() {
			seen[v] = true
		}
		done <- seen
	}()

	wg.Wait()
	mb.Close()

	select {
	case seen := <-done:
		if len(seen) != producers*perProducer {
			t.Errorf("received %d distinct messages, want %d", len(seen), producers*perProducer)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Receive channel was not closed after Close")
	}
}

func TestMailboxClose(t *testing.T) {
	mb := NewMailbox[string](1)
	if err := mb.Send(context.Background(), "kept"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	mb.Close()
	mb.Close()

	if !mb.Closed() {
		t.Error("Closed() = false after Close")
	}
	if err := mb.Send(context.Background(), "dropped"); !errors.Is(err, ErrMailboxClosed) {
		t.Errorf("Send() after Close error = %v, want ErrMailboxClosed", err)
	}

	var got []string
	for v := range mb.Receive() {
		got = append(got, v)
	}
	if len(got) != 1 || got[0] != "kept" {
		t.Errorf("drained %v, want [kept]", got)
	}
}

func TestMailboxCloseUnblocksSender(t *testing.T) {
	mb := NewMailbox[int](0)
	errc := make(chan error, 1)
	go func() {
		errc <- mb.Send(context.Background(), 1)
	}()

	time.Sleep(10 * time.Millisecond)
	mb.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrMailboxClosed) {
			t.Errorf("Send() error = %v, want ErrMailboxClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("blocked Send did not return after Close")
	}
}

func TestMailboxSendHonorsContext(t *testing.T) {
	mb := NewMailbox[int](0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := mb.Send(ctx, 1); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Send() error = %v, want DeadlineExceeded", err)
	}
	if mb.Len() != 0 {
		t.Errorf("Len() = %d, want 0", mb.Len())
	}
}

func TestSenderFunc(t *testing.T) {
	var got int
	var s Sender[int] = SenderFunc[int](func(_ context.Context, m int) error {
		got = m
		return nil
	})
	if err := s.Send(context.Background(), 7); err != nil || got != 7 {
		t.Errorf("SenderFunc.Send() = %v, got %d", err, got)
	}
}
