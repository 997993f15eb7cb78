package threading

import (
	"runtime"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/weave/pkg/logx"
	"github.com/vnykmshr/weave/pkg/metrics"
)

// maxDefaultThreads caps the default pool size.
const maxDefaultThreads = 8

// Config holds configuration options for creating a Pool.
type Config struct {
	// Name prefixes every thread name ("<name> <index>").
	Name string

	// ThreadCount is the number of worker threads. Zero selects
	// DefaultThreadCount. Negative values panic.
	ThreadCount int

	// Logger receives lifecycle events. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics receives thread and worker metrics. Nil disables collection.
	Metrics *metrics.Registry
}

// DefaultThreadCount returns min(8, 2 x logical CPUs). Threads are
// oversubscribed because workers may block.
func DefaultThreadCount() int {
	return min(maxDefaultThreads, 2*runtime.NumCPU())
}

// Pool is a fixed set of WorkerThreads. Workers added to the pool are bound
// to threads round-robin and never move.
type Pool struct {
	name    string
	log     zerolog.Logger
	metrics *metrics.Registry
	threads []*WorkerThread

	mu   sync.Mutex
	next int

	closeOnce sync.Once
}

// New creates a pool with the given name and thread count.
func New(name string, threadCount int) *Pool {
	return NewWithConfig(Config{Name: name, ThreadCount: threadCount})
}

// NewWithConfig creates a pool with the specified configuration. All threads
// are started before it returns.
func NewWithConfig(config Config) *Pool {
	if config.ThreadCount < 0 {
		panic("threading: thread count must not be negative")
	}
	if config.ThreadCount == 0 {
		config.ThreadCount = DefaultThreadCount()
	}

	log := logx.OrNop(config.Logger).With().Str("pool", config.Name).Logger()
	p := &Pool{
		name:    config.Name,
		log:     log,
		metrics: config.Metrics,
		threads: make([]*WorkerThread, config.ThreadCount),
	}
	for i := range p.threads {
		p.threads[i] = newWorkerThread(config.Name+" "+strconv.Itoa(i), log, config.Metrics)
	}
	if p.metrics != nil {
		p.metrics.PoolThreads.WithLabelValues(p.name).Set(float64(len(p.threads)))
	}
	p.log.Info().Int("threads", len(p.threads)).Msg("worker pool started")
	return p
}

// Add binds w to the next thread and queues it for admission. The pool keeps
// only a weak reference: once the caller drops w, the thread forgets it.
func (p *Pool) Add(name string, w Worker) {
	p.mu.Lock()
	t := p.threads[p.next]
	p.next++
	if p.next == len(p.threads) {
		p.next = 0
	}
	p.mu.Unlock()

	t.addWorker(bind(w, name, t))
}

// AddWorker constructs a zero-valued T, adds it to the pool and returns it.
//
//	counter := threading.AddWorker[counterWorker](pool, "counter")
//	counter.ScheduleWork()
func AddWorker[T any, PT interface {
	*T
	Worker
}](p *Pool, name string) PT {
	w := PT(new(T))
	p.Add(name, w)
	return w
}

// Name returns the pool's name.
func (p *Pool) Name() string { return p.name }

// Size returns the number of threads.
func (p *Pool) Size() int { return len(p.threads) }

// Threads returns the pool's threads in index order.
func (p *Pool) Threads() []*WorkerThread {
	out := make([]*WorkerThread, len(p.threads))
	copy(out, p.threads)
	return out
}

// Close stops every thread, waiting for in-flight runs to return. A worker
// may close the pool that runs it; its own thread is then released without
// waiting.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.log.Info().Msg("worker pool stopping")
		if p.metrics != nil {
			p.metrics.PoolThreads.WithLabelValues(p.name).Set(0)
		}
	})
	for _, t := range p.threads {
		t.Close()
	}
}
