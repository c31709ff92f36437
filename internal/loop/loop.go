// Package loop runs UI-facing handlers one at a time on a single goroutine.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

const queueSize = 64

type Loop struct {
	log   *zap.Logger
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func New(log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		log:   log,
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Run processes posted handlers until ctx is cancelled. It blocks.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

// Post queues fn without waiting for it to run. It reports false when the
// loop has already stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Done is closed once Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// invoke keeps the loop alive when a handler panics.
func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("event handler panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}
