package threading

import "sync"

// Worker is a unit of schedulable logic bound to exactly one WorkerThread.
//
// Implementations embed Base, which supplies ScheduleWork and the bookkeeping
// the thread relies on:
//
//	type ticker struct {
//		threading.Base
//		ticks int
//	}
//
//	func (t *ticker) Setup() {}
//	func (t *ticker) Run()   { t.ticks++ }
type Worker interface {
	// Setup is called once, on the owning thread, when the worker is admitted.
	Setup()

	// Run performs one unit of work on the owning thread. It must not block
	// long enough to starve the other workers sharing the thread.
	Run()

	workerBase() *Base
}

// Base is embedded by Worker implementations.
type Base struct {
	state *workerState
}

func (b *Base) workerBase() *Base { return b }

// workerState is what a WorkerThread references (weakly). It holds the only
// strong path back to the Worker, so once the application drops its handle
// the whole cycle becomes collectable.
type workerState struct {
	name   string
	thread *WorkerThread
	self   Worker

	mu      sync.Mutex
	pending uint32
}

// ScheduleWork requests at least one more Run on the owning thread. It may be
// called from any goroutine once the worker has been added to a pool.
// Requests made while a run is pending are coalesced.
func (b *Base) ScheduleWork() {
	st := b.mustState()
	st.mu.Lock()
	st.pending++
	st.mu.Unlock()
	st.thread.signal()
}

// WorkerThread returns the thread the worker is bound to.
func (b *Base) WorkerThread() *WorkerThread {
	return b.mustState().thread
}

// Name returns the name given when the worker was added.
func (b *Base) Name() string {
	return b.mustState().name
}

// Bound reports whether the worker has been added to a pool.
func (b *Base) Bound() bool {
	return b.state != nil
}

func (b *Base) mustState() *workerState {
	if b.state == nil {
		panic("threading: worker used before it was added to a pool")
	}
	return b.state
}

// bind attaches w to t. A worker is bound exactly once for its lifetime.
func bind(w Worker, name string, t *WorkerThread) *workerState {
	b := w.workerBase()
	if b.state != nil {
		panic("threading: worker " + b.state.name + " is already bound to " + b.state.thread.name)
	}
	st := &workerState{name: name, thread: t, self: w}
	b.state = st
	return st
}

func (st *workerState) hasWork() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.pending != 0
}

func (st *workerState) workCompleted() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.pending == 0 {
		panic("threading: work completed with no pending work")
	}
	st.pending--
}
