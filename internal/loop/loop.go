package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when work is posted to a loop that has stopped.
var ErrClosed = errors.New("loop: closed")

// Loop is a serial task queue. Every task, including timer continuations,
// runs on the goroutine executing Run, so tasks never race each other.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once

	mu      sync.Mutex
	pending int
	idle    chan struct{}
	timers  map[*time.Timer]struct{}
}

// New creates a loop whose queue holds up to buffer tasks before Post blocks.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 16
	}
	idle := make(chan struct{})
	close(idle)
	return &Loop{
		tasks:  make(chan func(), buffer),
		done:   make(chan struct{}),
		idle:   idle,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Run executes queued tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn for execution on the loop.
func (l *Loop) Post(fn func()) error {
	l.acquire()
	select {
	case <-l.done:
		l.release()
		return ErrClosed
	default:
	}
	select {
	case l.tasks <- l.wrap(fn):
		return nil
	case <-l.done:
		l.release()
		return ErrClosed
	}
}

// AfterFunc queues fn on the loop once d has elapsed. Continuations still
// pending when the loop stops are dropped.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	l.acquire()
	var timer *time.Timer
	l.mu.Lock()
	timer = time.AfterFunc(d, func() {
		l.mu.Lock()
		delete(l.timers, timer)
		l.mu.Unlock()
		select {
		case l.tasks <- l.wrap(fn):
		case <-l.done:
			l.release()
		}
	})
	l.timers[timer] = struct{}{}
	l.mu.Unlock()
}

// Wait blocks until no posted task or scheduled continuation is outstanding.
func (l *Loop) Wait(ctx context.Context) error {
	l.mu.Lock()
	idle := l.idle
	l.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports outstanding tasks and continuations.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

func (l *Loop) wrap(fn func()) func() {
	return func() {
		defer l.release()
		fn()
	}
}

func (l *Loop) acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == 0 {
		l.idle = make(chan struct{})
	}
	l.pending++
}

func (l *Loop) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending--
	if l.pending == 0 {
		close(l.idle)
	}
}

func (l *Loop) stop() {
	l.once.Do(func() {
		close(l.done)
		l.mu.Lock()
		for t := range l.timers {
			t.Stop()
		}
		l.timers = make(map[*time.Timer]struct{})
		l.mu.Unlock()
	})
}
