// Package loop provides the single-threaded callback loop the dashboard runs
// on. Listener bodies and request completions are posted here and executed
// one at a time, in the order they were posted.
package loop

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/riskboard/pkg/logger"
	"github.com/okian/riskboard/pkg/metrics"
)

const defaultCapacity = 1024

// Task is one callback.
type Task func()

// Loop executes posted tasks sequentially on one goroutine.
type Loop struct {
	tasks    chan Task
	capacity int
	log      logger.Logger

	mu      sync.RWMutex
	started bool
	closed  bool
	done    chan struct{}
}

// New creates a loop. Start must be called before tasks run.
func New(opts ...Option) *Loop {
	l := &Loop{
		capacity: defaultCapacity,
		log:      logger.Nop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.tasks = make(chan Task, l.capacity)
	metrics.UpdateLoopPending(0)
	return l
}

// Start launches the loop goroutine. It runs until Stop is called or ctx is
// cancelled; calling it twice is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.run(ctx)
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case t, ok := <-l.tasks:
			if !ok {
				return
			}
			metrics.UpdateLoopPending(len(l.tasks))
			l.exec(ctx, t)
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) exec(ctx context.Context, t Task) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error(ctx, "loop task panicked", logger.String("panic", fmt.Sprint(r)))
		}
	}()
	t()
	metrics.RecordLoopTask()
}

// Post queues t behind every task already posted. It never blocks, so it is
// safe to call from inside a running task.
func (l *Loop) Post(t Task) error {
	if t == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrStopped
	}
	select {
	case l.tasks <- t:
		metrics.UpdateLoopPending(len(l.tasks))
		return nil
	default:
		return fmt.Errorf("%w: capacity %d", ErrFull, l.capacity)
	}
}

// Len returns the number of pending tasks.
func (l *Loop) Len() int {
	return len(l.tasks)
}

// Stop refuses new tasks, lets the loop finish what is already queued and
// waits for it to exit. Stopping a loop that never started drops the backlog.
// It must not be called from inside a task.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.wait()
		return
	}
	l.closed = true
	close(l.tasks)
	started := l.started
	l.mu.Unlock()

	if started {
		<-l.done
	}
	metrics.UpdateLoopPending(0)
}

func (l *Loop) wait() <-chan struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.started {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return l.done
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}
