package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc, <-chan error) {
	t.Helper()
	l := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	t.Cleanup(cancel)
	return l, cancel, errCh
}

func TestPostRunsSerially(t *testing.T) {
	l, _, _ := startLoop(t)

	var order []int
	var running int32
	for i := 0; i < 50; i++ {
		i := i
		if err := l.Post(func() {
			if !atomic.CompareAndSwapInt32(&running, 0, 1) {
				t.Errorf("tasks overlapped")
			}
			order = append(order, i)
			atomic.StoreInt32(&running, 0)
		}); err != nil {
			t.Fatalf("post: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if len(order) != 50 {
		t.Fatalf("ran %d tasks", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("task %d ran at position %d", v, i)
		}
	}
}

func TestWaitCoversTimers(t *testing.T) {
	l, _, _ := startLoop(t)

	var fired atomic.Bool
	if err := l.Post(func() {
		l.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })
	}); err != nil {
		t.Fatalf("post: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !fired.Load() {
		t.Fatalf("wait returned before the timer fired")
	}
	if l.Pending() != 0 {
		t.Fatalf("pending = %d", l.Pending())
	}
}

func TestWaitWhenIdle(t *testing.T) {
	l := New(1)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("idle wait: %v", err)
	}
}

func TestPostAfterStop(t *testing.T) {
	l, cancel, errCh := startLoop(t)
	l.AfterFunc(time.Hour, func() { t.Errorf("timer ran after stop") })
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("run returned %v", err)
	}
	if err := l.Post(func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := l.Wait(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from wait, got %v", err)
	}
}
