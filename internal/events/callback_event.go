package events

// CallbackEvent is a typed pub/sub where listeners are plain functions.
// Notify calls every listener synchronously on the caller's goroutine.
type CallbackEvent[T any] struct {
	reg registry[T, func(T)]
}

// NewCallbackEvent creates a CallbackEvent.
// When sendLastEventOnListen is set, a new listener is immediately called with
// the most recent value passed to Notify (if any).
func NewCallbackEvent[T any](sendLastEventOnListen bool) *CallbackEvent[T] {
	return &CallbackEvent[T]{reg: newRegistry[T, func(T)](sendLastEventOnListen)}
}

// Listen registers callback and returns a function that removes it again.
// The returned function is safe to call more than once.
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("callback cannot be nil")
	}
	id, replay := e.reg.add(callback)
	// outside the lock so the callback may register or unregister listeners
	if replay != nil {
		callback(*replay)
	}
	return func() { e.reg.remove(id) }
}

// Notify calls all registered callbacks with value
func (e *CallbackEvent[T]) Notify(value T) {
	for _, callback := range e.reg.record(value) {
		callback(value)
	}
}

// Forget drops the remembered last value so new listeners start empty
func (e *CallbackEvent[T]) Forget() {
	e.reg.forget()
}

// ListenerCount returns the number of registered callbacks
func (e *CallbackEvent[T]) ListenerCount() int {
	return e.reg.count()
}
