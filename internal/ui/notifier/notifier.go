// Package notifier broadcasts catalog snapshots to SSE listeners.
package notifier

import (
	"slices"
	"sync"
)

// Snapshot is the state of the databases directory at one point in time.
// Err is set when the directory could not be listed.
type Snapshot struct {
	Databases []string
	Err       error
}

// Notifier fans catalog snapshots out to all subscribed listeners.
// Each listener holds at most one pending snapshot: a newer one replaces
// an unread older one, so slow listeners only ever see the latest state.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Snapshot]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Snapshot]struct{}),
	}
}

// Subscribe returns a channel that receives catalog snapshots.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Snapshot {
	ch := make(chan Snapshot, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends snap to all listeners without blocking.
func (n *Notifier) Broadcast(snap Snapshot) {
	snap.Databases = slices.Clone(snap.Databases)

	// Write lock: draining a stale value and sending must not interleave
	// with another broadcaster.
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the unread snapshot and retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
