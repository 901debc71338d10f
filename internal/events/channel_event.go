package events

// ChannelEvent is a typed pub/sub that delivers values to listener channels.
// Sends never block: a listener whose buffer is full misses that value.
type ChannelEvent[T any] struct {
	reg registry[T, chan<- T]
}

// NewChannelEvent creates a ChannelEvent.
// When sendLastEventOnListen is set, a new listener channel immediately
// receives the most recent value passed to Notify (if any and if it has room).
func NewChannelEvent[T any](sendLastEventOnListen bool) *ChannelEvent[T] {
	return &ChannelEvent[T]{reg: newRegistry[T, chan<- T](sendLastEventOnListen)}
}

// Listen registers ch and returns a function that removes it again
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("channel cannot be nil")
	}
	id, replay := e.reg.add(ch)
	if replay != nil {
		trySend(ch, *replay)
	}
	return func() { e.reg.remove(id) }
}

// Notify offers value to every registered channel
func (e *ChannelEvent[T]) Notify(value T) {
	for _, ch := range e.reg.record(value) {
		trySend(ch, value)
	}
}

// Forget drops the remembered last value so new listeners start empty
func (e *ChannelEvent[T]) Forget() {
	e.reg.forget()
}

// ListenerCount returns the number of registered channels
func (e *ChannelEvent[T]) ListenerCount() int {
	return e.reg.count()
}

func trySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}
