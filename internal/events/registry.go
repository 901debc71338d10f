package events

import "sync"

// registry holds listeners of type L keyed by registration id, plus the
// optionally remembered last value of type T
type registry[T any, L any] struct {
	mu                    sync.RWMutex
	listeners             map[uint64]L
	nextID                uint64
	sendLastEventOnListen bool
	lastEvent             *T
}

func newRegistry[T any, L any](sendLastEventOnListen bool) registry[T, L] {
	return registry[T, L]{
		listeners:             make(map[uint64]L),
		sendLastEventOnListen: sendLastEventOnListen,
	}
}

// add stores the listener and returns its id and a copy of the value to replay, if any
func (r *registry[T, L]) add(listener L) (uint64, *T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = listener
	if !r.sendLastEventOnListen || r.lastEvent == nil {
		return id, nil
	}
	replay := *r.lastEvent
	return id, &replay
}

func (r *registry[T, L]) remove(id uint64) {
	r.mu.Lock()
	delete(r.listeners, id)
	r.mu.Unlock()
}

// record remembers value when configured to and returns a snapshot of the listeners
func (r *registry[T, L]) record(value T) []L {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendLastEventOnListen {
		v := value
		r.lastEvent = &v
	}
	snapshot := make([]L, 0, len(r.listeners))
	for _, l := range r.listeners {
		snapshot = append(snapshot, l)
	}
	return snapshot
}

func (r *registry[T, L]) forget() {
	r.mu.Lock()
	r.lastEvent = nil
	r.mu.Unlock()
}

func (r *registry[T, L]) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}
