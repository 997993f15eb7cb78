package messenger

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/weave/pkg/logx"
	"github.com/vnykmshr/weave/pkg/metrics"
	"github.com/vnykmshr/weave/pkg/threading"
)

type change uint8

const (
	addChange change = iota
	removeChange
)

// Config holds optional instrumentation for a Messenger.
type Config struct {
	// Logger receives lifecycle events. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics receives delivery metrics, labelled with the worker name.
	// Nil disables collection.
	Metrics *metrics.Registry
}

// Messenger is a Worker that broadcasts messages to a set of listeners on
// its owning thread. Listener changes requested from anywhere are buffered
// and applied only at synchronization points on that thread.
//
// The zero value is ready to use, so a Messenger can be created directly by
// threading.AddWorker.
type Messenger[L comparable] struct {
	threading.Base

	log     zerolog.Logger
	metrics *metrics.Registry

	// Touched only on the owning thread.
	active threading.Local[map[L]struct{}]

	initOnce  sync.Once
	changeMu  sync.Mutex
	changed   *sync.Cond
	changes   map[L]change
	removeAll bool

	queueMu sync.Mutex
	pending *queue.Queue

	listeners atomic.Int64
	closed    atomic.Bool
}

// New creates a Messenger. It does nothing until added to a pool.
func New[L comparable]() *Messenger[L] {
	return NewWithConfig[L](Config{})
}

// NewWithConfig creates a Messenger with the given instrumentation.
func NewWithConfig[L comparable](config Config) *Messenger[L] {
	m := &Messenger[L]{
		log:     logx.OrNop(config.Logger),
		metrics: config.Metrics,
	}
	m.init()
	return m
}

// init allocates the change buffer and message queue on first use.
func (m *Messenger[L]) init() {
	m.initOnce.Do(func() {
		m.changes = make(map[L]change)
		m.pending = queue.New()
		m.changed = sync.NewCond(&m.changeMu)
	})
}

// AddListener registers id at the next synchronization point, replacing any
// pending removal of the same id. It never blocks.
func (m *Messenger[L]) AddListener(id L) {
	m.init()
	m.changeMu.Lock()
	m.changes[id] = addChange
	m.changeMu.Unlock()
}

// RemoveListener unregisters id at the next synchronization point. With wait
// set it blocks until the removal has been applied, unless called from the
// messenger's own thread, where the removal lands before the next delivery.
func (m *Messenger[L]) RemoveListener(id L, wait bool) {
	m.init()
	m.changeMu.Lock()
	defer m.changeMu.Unlock()

	m.changes[id] = removeChange
	if wait {
		m.waitOnRemoveLocked(id)
	}
}

// WaitOnRemove blocks until a pending removal of id has been applied. It
// returns immediately if no removal of id is pending.
func (m *Messenger[L]) WaitOnRemove(id L) {
	m.init()
	m.changeMu.Lock()
	defer m.changeMu.Unlock()
	m.waitOnRemoveLocked(id)
}

func (m *Messenger[L]) waitOnRemoveLocked(id L) {
	if _, ok := m.changes[id]; !ok {
		return
	}
	if m.WorkerThread().IsCurrent() {
		return
	}
	for !m.closed.Load() {
		m.ScheduleWork()
		m.changed.Wait()
		if c, ok := m.changes[id]; !ok || c != removeChange {
			return
		}
	}
}

// RemoveAllListeners clears the active set at the next synchronization
// point, discarding every other pending change. Off the owning thread it
// blocks until the set has been cleared.
func (m *Messenger[L]) RemoveAllListeners() {
	m.init()
	m.changeMu.Lock()
	defer m.changeMu.Unlock()

	m.removeAll = true
	if m.WorkerThread().IsCurrent() {
		return
	}
	for !m.closed.Load() {
		m.ScheduleWork()
		m.changed.Wait()
		if !m.removeAll {
			return
		}
	}
}

// MessageListeners queues msg for delivery and wakes the owning thread.
// Messages are delivered in submission order. After Close it is a no-op.
func (m *Messenger[L]) MessageListeners(msg Message[L]) {
	if m.closed.Load() {
		return
	}
	m.init()
	m.queueMu.Lock()
	m.pending.Add(msg)
	m.queueMu.Unlock()

	if m.metrics != nil {
		m.metrics.MessagesQueued.WithLabelValues(m.Name()).Inc()
	}
	m.ScheduleWork()
}

// ListenerCount returns the number of active listeners as of the last
// synchronization point.
func (m *Messenger[L]) ListenerCount() int {
	return int(m.listeners.Load())
}

// Close releases every goroutine blocked in a removal wait and drops queued
// and future messages. Pending changes are discarded without being applied.
func (m *Messenger[L]) Close() {
	m.init()
	if m.closed.Swap(true) {
		return
	}

	m.queueMu.Lock()
	m.pending = queue.New()
	m.queueMu.Unlock()

	m.changeMu.Lock()
	m.removeAll = false
	clear(m.changes)
	m.changed.Broadcast()
	m.changeMu.Unlock()
}

// Setup binds the active listener set to the owning thread.
func (m *Messenger[L]) Setup() {
	m.init()
	m.active.Bind(m.WorkerThread())
	*m.active.Get() = make(map[L]struct{})
	m.log = m.log.With().Str("messenger", m.Name()).Logger()
}

// Run drains the message queue and sweeps each message across the listeners.
func (m *Messenger[L]) Run() {
	m.init()
	if m.closed.Load() {
		return
	}
	set := m.active.Get()
	if set == nil {
		panic("messenger: run off the owning thread")
	}
	active := *set

	m.queueMu.Lock()
	batch := m.pending
	m.pending = queue.New()
	m.queueMu.Unlock()

	m.synchronize(active)
	for batch.Length() > 0 {
		msg := batch.Remove().(Message[L])
		m.sweep(msg, active)
	}
}

// sweep delivers msg once to every listener active at its start or added
// before its turn. Changes are re-applied after every delivery, so the scan
// restarts each time.
func (m *Messenger[L]) sweep(msg Message[L], active map[L]struct{}) {
	var start time.Time
	if m.metrics != nil {
		start = time.Now()
	}

	delivered := make(map[L]struct{}, len(active))
	for !allDelivered(active, delivered) {
		for id := range active {
			if _, ok := delivered[id]; ok {
				continue
			}
			msg.Call(id)
			delivered[id] = struct{}{}
			m.synchronize(active)
			break
		}
	}

	if m.metrics != nil {
		name := m.Name()
		m.metrics.MessageDeliveries.WithLabelValues(name).Add(float64(len(delivered)))
		m.metrics.SweepDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

// synchronize applies pending changes to the active set and wakes waiters.
func (m *Messenger[L]) synchronize(active map[L]struct{}) {
	m.changeMu.Lock()
	defer m.changeMu.Unlock()

	if m.removeAll {
		clear(active)
		m.log.Debug().Msg("removed all listeners")
	} else {
		for id, c := range m.changes {
			if c == removeChange {
				delete(active, id)
			} else {
				active[id] = struct{}{}
			}
		}
	}
	m.removeAll = false
	clear(m.changes)
	m.changed.Broadcast()

	m.listeners.Store(int64(len(active)))
	if m.metrics != nil {
		m.metrics.ListenersActive.WithLabelValues(m.Name()).Set(float64(len(active)))
	}
}

func allDelivered[L comparable](active, delivered map[L]struct{}) bool {
	if len(delivered) < len(active) {
		return false
	}
	for id := range active {
		if _, ok := delivered[id]; !ok {
			return false
		}
	}
	return true
}
