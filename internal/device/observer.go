package device

import "sync"

// observerList is a concurrency-safe observer collection. Notification
// iterates over a snapshot taken under the lock, so attach/detach may
// run while notifications are in flight without tearing the list.
type observerList struct {
	mu        sync.RWMutex
	observers []Observer
}

func (l *observerList) attach(o Observer) {
	if o == nil {
		return
	}

	l.mu.Lock()
	l.observers = append(l.observers, o)
	l.mu.Unlock()
}

func (l *observerList) detach(o Observer) {
	if o == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, existing := range l.observers {
		if existing == o {
			l.observers = append(l.observers[:i], l.observers[i+1:]...)
			return
		}
	}
}

// notify delivers msg to every observer, synchronously, in attachment
// order.
func (l *observerList) notify(msg string) {
	l.mu.RLock()
	snapshot := make([]Observer, len(l.observers))
	copy(snapshot, l.observers)
	l.mu.RUnlock()

	for _, o := range snapshot {
		o.Receive(msg)
	}
}
