// Package subscription holds the cancellation handle shared by every live
// listener in the service (message streams, chat lists, unread totals, catalog).
package subscription

import (
	"context"
	"sync"

	"ikam/pkg/logger"
)

// OpenFunc attaches a listener under ctx. next blocks until the listener has a
// new snapshot or fails; stop releases the listener.
type OpenFunc[T any] func(ctx context.Context) (next func() (T, error), stop func())

// Subscription is the handle returned by every subscribe-style call. Cancel
// detaches the listener; once Cancel returns, the callback is never invoked again.
// Cancel must not be called from inside the callback; cancel the context passed
// to the subscribe call instead.
type Subscription struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	closed   bool
	err      error
	once     sync.Once
	children []*Subscription
}

func newSubscription(parent context.Context) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	return &Subscription{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start opens a listener and pumps every snapshot it yields into onUpdate until
// the subscription is cancelled or the listener fails. Failures are logged under name.
func Start[T any](parent context.Context, name string, open OpenFunc[T], onUpdate func(T)) *Subscription {
	s := newSubscription(parent)
	next, stop := open(s.ctx)

	go func() {
		defer close(s.done)
		defer stop()

		for {
			value, err := next()
			if err != nil {
				if s.ctx.Err() == nil {
					logger.LogSubscriptionError(name, err)
					s.fail(err)
				}
				return
			}
			s.deliver(func() { onUpdate(value) })
		}
	}()

	return s
}

// Join groups already-started subscriptions behind one handle.
func Join(subs ...*Subscription) *Subscription {
	s := newSubscription(context.Background())
	s.children = subs

	go func() {
		defer close(s.done)
		for _, child := range subs {
			<-child.done
		}
	}()

	return s
}

// Closed returns a subscription that never delivers anything.
func Closed() *Subscription {
	s := newSubscription(context.Background())
	s.Cancel()
	close(s.done)
	return s
}

func (s *Subscription) deliver(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ctx.Err() != nil {
		return
	}
	fn()
}

func (s *Subscription) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Cancel detaches the listener. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		for _, child := range s.children {
			child.Cancel()
		}
	})
}

// Done is closed once the delivery loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err reports the store failure that ended the listener, if any.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, child := range s.children {
		if err := child.Err(); err != nil {
			return err
		}
	}
	return nil
}
