package simpleasync

import (
	"container/heap"
	"fmt"
	"reflect"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/weave/internal/goid"
	"github.com/vnykmshr/weave/pkg/logx"
	"github.com/vnykmshr/weave/pkg/metrics"
)

// Config holds optional settings for an Async scheduler.
type Config struct {
	// Name labels logs and metrics. Defaults to "async".
	Name string

	// Logger receives lifecycle events and task faults. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics receives scheduler metrics. Nil disables collection.
	Metrics *metrics.Registry

	// Now supplies the current time for deadlines. Defaults to time.Now.
	// Waits use real timers, so a substituted clock is consulted again
	// whenever the scheduler wakes.
	Now func() time.Time

	// Location is the time zone cron expressions are evaluated in.
	// Defaults to time.Local.
	Location *time.Location
}

// Async runs deadline-ordered tasks on one dedicated thread. At most one
// entry per task identity is pending at any time.
type Async struct {
	name       string
	log        zerolog.Logger
	metrics    *metrics.Registry
	now        func() time.Time
	location   *time.Location
	cronParser cron.Parser

	mu    sync.Mutex
	tasks taskHeap
	byID  map[taskID]*entry
	crons map[string]*cronJob

	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
	gid     atomic.Uint64
	stopped sync.Once
}

// New creates a scheduler with default configuration and starts its thread.
func New() *Async {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with the given configuration and starts
// its thread.
func NewWithConfig(config Config) *Async {
	if config.Name == "" {
		config.Name = "async"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Location == nil {
		config.Location = time.Local
	}

	a := &Async{
		name:     config.Name,
		log:      logx.OrNop(config.Logger).With().Str("scheduler", config.Name).Logger(),
		metrics:  config.Metrics,
		now:      config.Now,
		location: config.Location,
		cronParser: cron.NewParser(
			cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		),
		byID:  make(map[taskID]*entry),
		crons: make(map[string]*cronJob),
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	started := make(chan struct{})
	go a.run(started)
	<-started
	return a
}

// Schedule runs task after delay, replacing any pending entry for the same
// task. Two funcs are the same task when they share a code pointer: a
// closure created by the same literal always collides with itself, whatever
// it captured. Use ScheduleKeyed to tell such closures apart.
func (a *Async) Schedule(task func(), delay time.Duration) {
	a.schedule(funcID(task), task, a.now().Add(delay))
}

// ScheduleKeyed runs task after delay, replacing any pending entry with the
// same key.
func (a *Async) ScheduleKeyed(key string, task func(), delay time.Duration) {
	a.schedule(taskID{key: key}, task, a.now().Add(delay))
}

// Cancel removes the pending entry for task, if any. It has no effect once
// the task has started running.
func (a *Async) Cancel(task func()) bool {
	return a.cancel(funcID(task))
}

// CancelKey removes the pending entry for key, if any, and stops a cron job
// registered under key from re-arming.
func (a *Async) CancelKey(key string) bool {
	a.mu.Lock()
	_, isCron := a.crons[key]
	delete(a.crons, key)
	a.mu.Unlock()

	return a.cancel(taskID{key: key}) || isCron
}

// Pending returns the number of entries waiting for their deadline.
func (a *Async) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.tasks)
}

// Done is closed once the scheduler thread has exited, either after Close
// or because a task panicked.
func (a *Async) Done() <-chan struct{} {
	return a.done
}

// Close stops the scheduler thread and waits for a running task to return.
// Entries still pending are discarded. Called from inside a task it returns
// immediately and the thread exits once the task returns.
func (a *Async) Close() {
	a.stopped.Do(func() {
		close(a.stop)
	})
	if goid.Get() == a.gid.Load() {
		return
	}
	<-a.done
}

func funcID(task func()) taskID {
	if task == nil {
		panic("simpleasync: nil task")
	}
	return taskID{code: reflect.ValueOf(task).Pointer()}
}

func (a *Async) schedule(id taskID, task func(), runAt time.Time) {
	if task == nil {
		panic("simpleasync: nil task")
	}

	a.mu.Lock()
	if old, ok := a.byID[id]; ok {
		heap.Remove(&a.tasks, old.index)
	}
	e := &entry{id: id, task: task, runAt: runAt}
	heap.Push(&a.tasks, e)
	a.byID[id] = e
	if a.metrics != nil {
		a.metrics.AsyncScheduled.WithLabelValues(a.name).Inc()
		a.metrics.AsyncPending.WithLabelValues(a.name).Set(float64(len(a.tasks)))
	}
	a.mu.Unlock()

	a.signal()
}

func (a *Async) cancel(id taskID) bool {
	a.mu.Lock()
	e, ok := a.byID[id]
	if ok {
		heap.Remove(&a.tasks, e.index)
		delete(a.byID, id)
		if a.metrics != nil {
			a.metrics.AsyncCancelled.WithLabelValues(a.name).Inc()
			a.metrics.AsyncPending.WithLabelValues(a.name).Set(float64(len(a.tasks)))
		}
	}
	a.mu.Unlock()
	return ok
}

func (a *Async) signal() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// next pops the entry whose deadline has passed, or returns how long to
// wait for the nearest one. A negative wait means nothing is pending.
func (a *Async) next() (*entry, time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	head := a.tasks.peek()
	if head == nil {
		return nil, -1
	}
	if wait := head.runAt.Sub(a.now()); wait > 0 {
		return nil, wait
	}
	heap.Pop(&a.tasks)
	delete(a.byID, head.id)
	if a.metrics != nil {
		a.metrics.AsyncPending.WithLabelValues(a.name).Set(float64(len(a.tasks)))
	}
	return head, 0
}

func (a *Async) run(started chan<- struct{}) {
	runtime.LockOSThread()
	defer close(a.done)

	a.gid.Store(goid.Get())
	close(started)
	a.log.Debug().Msg("scheduler started")

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-a.stop:
			a.log.Debug().Msg("scheduler stopped")
			return
		default:
		}

		e, wait := a.next()
		if e != nil {
			if !a.execute(e) {
				return
			}
			continue
		}

		var fire <-chan time.Time
		if wait >= 0 {
			timer.Reset(wait)
			fire = timer.C
		}
		select {
		case <-a.stop:
		case <-a.wake:
		case <-fire:
		}
		timer.Stop()
	}
}

// execute runs one task. A panic is logged and ends the scheduler: the
// thread exits and is not restarted.
func (a *Async) execute(e *entry) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("task panicked, scheduler terminated")
			ok = false
		}
	}()

	if a.metrics == nil {
		e.task()
		return true
	}
	start := time.Now()
	e.task()
	a.metrics.AsyncExecuted.WithLabelValues(a.name).Inc()
	a.metrics.AsyncTaskDuration.WithLabelValues(a.name).Observe(time.Since(start).Seconds())
	return true
}
