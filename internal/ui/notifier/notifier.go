// Package notifier fans out "components changed" pings to open SSE streams.
package notifier

import (
	"sync"
	"sync/atomic"
)

// Notifier broadcasts change pings to every subscriber.
// A ping carries no payload: subscribers re-load the components themselves.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
	seq       atomic.Uint64
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives a ping after each change.
// Callers must Unsubscribe when their stream ends.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a listener channel. Unknown channels are ignored.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Broadcast pings all listeners without blocking.
// A listener that has not drained its previous ping keeps just that one.
func (n *Notifier) Broadcast() {
	n.seq.Add(1)

	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Seq returns how many broadcasts have been sent.
func (n *Notifier) Seq() uint64 {
	return n.seq.Load()
}
