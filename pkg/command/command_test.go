package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type msg struct {
	Text string
}

func TestStartAwait(t *testing.T) {
	f := Start(context.Background(), func(ctx context.Context) (msg, bool) {
		return msg{Text: "loaded"}, true
	})

	got, ok, err := f.Await(context.Background())
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	if !ok || got.Text != "loaded" {
		t.Errorf("Await() = %+v, %v; want loaded, true", got, ok)
	}
	if f.Err() != nil {
		t.Errorf("Err() = %v, want nil", f.Err())
	}
}

func TestPoll(t *testing.T) {
	release := make(chan struct{})
	f := Start(context.Background(), func(ctx context.Context) (msg, bool) {
		<-release
		return msg{}, false
	})

	if _, _, ready := f.Poll(); ready {
		t.Fatal("Poll() ready before the work finished")
	}
	close(release)
	<-f.Done()

	_, ok, ready := f.Poll()
	if !ready {
		t.Fatal("Poll() not ready after Done")
	}
	if ok {
		t.Error("work produced no message, ok should be false")
	}
}

func TestCancel(t *testing.T) {
	started := make(chan struct{})
	f := Start(context.Background(), func(ctx context.Context) (msg, bool) {
		close(started)
		<-ctx.Done()
		return msg{Text: "cancelled"}, true
	})

	<-started
	f.Cancel()

	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("work did not observe cancellation")
	}
	got, _, _ := f.Await(context.Background())
	if got.Text != "cancelled" {
		t.Errorf("Await() = %+v", got)
	}
}

func TestAwaitContext(t *testing.T) {
	f := Start(context.Background(), func(ctx context.Context) (msg, bool) {
		<-ctx.Done()
		return msg{}, false
	})
	defer f.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await() error = %v, want DeadlineExceeded", err)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	f := Start(context.Background(), func(ctx context.Context) (msg, bool) {
		panic("boom")
	})

	_, ok, err := f.Await(context.Background())
	if !errors.Is(err, ErrPanicked) {
		t.Fatalf("Await() error = %v, want ErrPanicked", err)
	}
	if ok {
		t.Error("a panicking command produces no message")
	}
	if !errors.Is(f.Err(), ErrPanicked) {
		t.Errorf("Err() = %v, want ErrPanicked", f.Err())
	}
}

func TestReady(t *testing.T) {
	f := Ready(msg{Text: "now"}, true)
	got, ok, ready := f.Poll()
	if !ready || !ok || got.Text != "now" {
		t.Errorf("Poll() = %+v, %v, %v", got, ok, ready)
	}
	f.Cancel()
}

type sink struct {
	mu   sync.Mutex
	msgs []msg
}

func (s *sink) Send(_ context.Context, m msg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
	return nil
}

func TestForward(t *testing.T) {
	s := &sink{}

	if err := Forward(context.Background(), Ready(msg{Text: "a"}, true), s); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if err := Forward(context.Background(), Ready(msg{Text: "skipped"}, false), s); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	if len(s.msgs) != 1 || s.msgs[0].Text != "a" {
		t.Errorf("forwarded %+v, want only a", s.msgs)
	}
}

func TestGroup(t *testing.T) {
	var g Group[msg]
	for i := 0; i < 3; i++ {
		g.Go(context.Background(), func(ctx context.Context) (msg, bool) {
			<-ctx.Done()
			return msg{}, false
		})
	}
	g.Add(Start(context.Background(), func(ctx context.Context) (msg, bool) {
		panic("bad")
	}))

	g.Cancel()
	err := g.Wait(context.Background())
	if !errors.Is(err, ErrPanicked) {
		t.Errorf("Wait() error = %v, want ErrPanicked", err)
	}
}
