package threading

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/weave/internal/goid"
	"github.com/vnykmshr/weave/pkg/metrics"
)

// Dead worker references are only compacted out of a thread's list once
// enough of them have accumulated.
const (
	compactDeadMin   = 20
	compactDeadRatio = 3
)

// WorkerThread is one goroutine, locked to its own OS thread, that
// cooperatively runs every Worker bound to it.
type WorkerThread struct {
	name    string
	log     zerolog.Logger
	metrics *metrics.Registry

	stop    *atomic.Bool
	wake    chan struct{}
	started chan struct{}
	done    chan struct{}

	gid atomic.Uint64
	tid atomic.Int64

	mu          sync.Mutex
	toAdd       []weak.Pointer[workerState]
	workerCount int

	closeOnce sync.Once
}

func newWorkerThread(name string, log zerolog.Logger, m *metrics.Registry) *WorkerThread {
	t := &WorkerThread{
		name:    name,
		log:     log.With().Str("thread", name).Logger(),
		metrics: m,
		stop:    new(atomic.Bool),
		wake:    make(chan struct{}, 1),
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go t.run(t.stop)
	<-t.started
	return t
}

// Name returns the thread's name.
func (t *WorkerThread) Name() string { return t.name }

// ID returns the identity of the thread's loop goroutine.
func (t *WorkerThread) ID() uint64 { return t.gid.Load() }

// OSThreadID returns the id of the OS thread the loop is locked to, or 0
// where the platform does not expose one.
func (t *WorkerThread) OSThreadID() int64 { return t.tid.Load() }

// IsCurrent reports whether the caller is running on this thread.
func (t *WorkerThread) IsCurrent() bool {
	return goid.Get() == t.gid.Load()
}

// AssertOnThread panics unless the caller is running on this thread.
func (t *WorkerThread) AssertOnThread() {
	if !t.IsCurrent() {
		panic("threading: called off worker thread " + t.name)
	}
}

// WorkerCount returns the number of admitted workers as of the last
// synchronization.
func (t *WorkerThread) WorkerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.workerCount
}

// Close stops the loop. Called from another goroutine it blocks until the
// worker currently running returns and the loop exits. Called from the thread
// itself (a worker tearing down its own thread) it returns immediately and the
// loop exits as soon as that worker's Run returns.
func (t *WorkerThread) Close() {
	t.closeOnce.Do(func() {
		t.stop.Store(true)
		t.signal()
	})
	if t.IsCurrent() {
		return
	}
	<-t.done
}

// Done is closed once the loop has exited.
func (t *WorkerThread) Done() <-chan struct{} {
	return t.done
}

func (t *WorkerThread) signal() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// addWorker queues a worker for admission at the next synchronization.
func (t *WorkerThread) addWorker(st *workerState) {
	t.mu.Lock()
	t.toAdd = append(t.toAdd, weak.Make(st))
	t.mu.Unlock()
}

func (t *WorkerThread) run(stop *atomic.Bool) {
	// Never unlocked: the OS thread retires together with the loop.
	runtime.LockOSThread()
	defer close(t.done)

	t.gid.Store(goid.Get())
	t.tid.Store(osThreadID())
	close(t.started)

	t.log.Debug().Int64("os_thread", t.tid.Load()).Msg("worker thread started")
	defer func() { t.log.Debug().Msg("worker thread stopped") }()

	var (
		workers []weak.Pointer[workerState]
		dead    int
	)
	for !stop.Load() {
		<-t.wake
		if stop.Load() {
			return
		}
		if t.metrics != nil {
			t.metrics.ThreadWakeups.WithLabelValues(t.name).Inc()
		}

		workers = t.syncWorkers(workers, dead)
		dead = 0
		for _, wp := range workers {
			st := wp.Value()
			if st == nil {
				dead++
				continue
			}
			if !st.hasWork() {
				continue
			}
			t.runWorker(st)
			st.workCompleted()
			if stop.Load() {
				return
			}
		}
	}
}

// syncWorkers admits pending workers into the thread-owned list, calling
// Setup on each, and compacts dead references once enough have been seen.
func (t *WorkerThread) syncWorkers(workers []weak.Pointer[workerState], dead int) []weak.Pointer[workerState] {
	t.mu.Lock()
	pending := t.toAdd
	t.toAdd = nil
	t.mu.Unlock()

	for _, wp := range pending {
		st := wp.Value()
		if st == nil {
			dead++
			continue
		}
		st.self.Setup()
		workers = append(workers, wp)
		t.log.Debug().Str("worker", st.name).Msg("worker admitted")
	}

	if dead > compactDeadMin || dead > len(workers)/compactDeadRatio {
		live := workers[:0]
		for _, wp := range workers {
			if wp.Value() != nil {
				live = append(live, wp)
			}
		}
		clear(workers[len(live):])
		reclaimed := len(workers) - len(live)
		workers = live
		if reclaimed > 0 {
			t.log.Debug().Int("reclaimed", reclaimed).Msg("dropped dead worker references")
			if t.metrics != nil {
				t.metrics.WorkersReclaimed.WithLabelValues(t.name).Add(float64(reclaimed))
			}
		}
	}

	t.mu.Lock()
	t.workerCount = len(workers)
	t.mu.Unlock()
	if t.metrics != nil {
		t.metrics.ThreadWorkers.WithLabelValues(t.name).Set(float64(len(workers)))
	}
	return workers
}

func (t *WorkerThread) runWorker(st *workerState) {
	if t.metrics == nil {
		st.self.Run()
		return
	}
	start := time.Now()
	st.self.Run()
	t.metrics.WorkerRuns.WithLabelValues(t.name).Inc()
	t.metrics.WorkerRunDuration.WithLabelValues(t.name).Observe(time.Since(start).Seconds())
}
