package threading

import "sync/atomic"

// Local is a value owned by one WorkerThread. Get returns nil when called
// from any goroutine other than the owner's loop, so the value needs no lock.
//
// Identity is the owning thread's loop goroutine. That goroutine stays locked
// to one OS thread for its whole life, so a Local is per-thread storage.
//
// The zero value has no owner and always returns nil.
type Local[T any] struct {
	owner atomic.Pointer[WorkerThread]
	value T
}

// Bind sets the owning thread. It is normally called from a worker's Setup.
func (l *Local[T]) Bind(t *WorkerThread) {
	l.owner.Store(t)
}

// Get returns the value if the caller is running on the owning thread.
func (l *Local[T]) Get() *T {
	t := l.owner.Load()
	if t == nil || !t.IsCurrent() {
		return nil
	}
	return &l.value
}
