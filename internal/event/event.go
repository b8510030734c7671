// Package event provides typed, synchronous change-notification channels.
//
// A Channel delivers a notification to every subscribed listener, in
// subscription order, in the caller's goroutine. There is no queuing and no
// cross-goroutine dispatch: Fire returns once every listener has returned.
//
// Subscribing returns a Subscription handle. Owners that listen to
// longer-lived objects must keep the handle and call Unsubscribe when they are
// disposed, otherwise the longer-lived object keeps notifying them.
package event

import (
	"sync"
)

// Listener receives the source of a notification.
type Listener[T any] func(source T)

type subscriber[T any] struct {
	id uint64
	fn Listener[T]
}

// Channel is a single kind of change notification emitted by source.
type Channel[T any] struct {
	mu     sync.Mutex
	source T
	nextID uint64
	subs   []subscriber[T]
}

// NewChannel creates a channel whose notifications carry source.
func NewChannel[T any](source T) *Channel[T] {
	return &Channel[T]{source: source}
}

// Subscribe registers fn and returns the handle that removes it again.
func (c *Channel[T]) Subscribe(fn Listener[T]) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})

	return &Subscription{cancel: func() { c.remove(id) }}
}

func (c *Channel[T]) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// Fire notifies every current subscriber. Listeners added or removed while a
// notification is being delivered take effect from the next Fire.
func (c *Channel[T]) Fire() {
	c.mu.Lock()
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	source := c.source
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(source)
	}
}

// Len returns the number of current subscribers.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe removes the listener. It is safe to call more than once and on
// a nil handle.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
