package afe4400

import (
	"sync"
)

// Listener receives status text from a Loop. OnStatus is called from a
// goroutine owned by the Loop, never from the acquisition goroutine, so a
// slow listener does not delay acquisition.
type Listener interface {
	OnStatus(text string)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(text string)

// OnStatus calls f(text).
func (f ListenerFunc) OnStatus(text string) { f(text) }

// reporter hands status text to a Listener in order. report never waits on
// the listener: texts pile up in pending until the delivery goroutine takes
// them as one batch.
type reporter struct {
	l    Listener
	wake chan struct{}
	done chan struct{}

	mu      sync.Mutex
	pending []string
	closed  bool
}

func newReporter(l Listener) *reporter {
	r := &reporter{
		l:    l,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go r.deliver()
	return r
}

func (r *reporter) report(text string) {
	r.mu.Lock()
	r.pending = append(r.pending, text)
	r.mu.Unlock()
	r.signal()
}

func (r *reporter) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// take returns the texts reported since the last call.
func (r *reporter) take() (batch []string, closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, r.pending = r.pending, nil
	return batch, r.closed
}

func (r *reporter) deliver() {
	defer close(r.done)
	for range r.wake {
		for {
			batch, closed := r.take()
			if len(batch) == 0 {
				if closed {
					return
				}
				break
			}
			for _, text := range batch {
				if r.l != nil {
					r.l.OnStatus(text)
				}
			}
		}
	}
}

// close waits until every reported text was delivered.
func (r *reporter) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.signal()
	<-r.done
}
