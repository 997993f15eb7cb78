package benchmark

import (
	"fmt"
	"sync"
	"testing"

	"github.com/vnykmshr/weave/pkg/threading"
)

func threadLabel(n int) string {
	return fmt.Sprintf("threads-%d", n)
}

// signalWorker releases a WaitGroup slot per run.
type signalWorker struct {
	threading.Base
	wg *sync.WaitGroup
}

func (s *signalWorker) Setup() {}
func (s *signalWorker) Run()   { s.wg.Done() }

// BenchmarkScheduleWorkRoundTrip measures ScheduleWork to Run latency.
func BenchmarkScheduleWorkRoundTrip(b *testing.B) {
	pool := threading.New("bench", 1)
	defer pool.Close()

	var wg sync.WaitGroup
	w := &signalWorker{wg: &wg}
	pool.Add("signal", w)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(1)
		w.ScheduleWork()
		wg.Wait()
	}
}

// countingWorker counts runs; coalesced requests make it cheaper than one
// run per request.
type countingWorker struct {
	threading.Base
	runs int
}

func (c *countingWorker) Setup() {}
func (c *countingWorker) Run()   { c.runs++ }

// BenchmarkScheduleWorkParallel measures contended ScheduleWork calls.
func BenchmarkScheduleWorkParallel(b *testing.B) {
	for _, threads := range []int{1, 2, 4} {
		b.Run(threadLabel(threads), func(b *testing.B) {
			pool := threading.New("bench", threads)
			defer pool.Close()

			workers := make([]*countingWorker, threads*4)
			for i := range workers {
				workers[i] = threading.AddWorker[countingWorker](pool, "counter")
			}

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					workers[i%len(workers)].ScheduleWork()
					i++
				}
			})
		})
	}
}

// BenchmarkPoolAdd measures worker admission.
func BenchmarkPoolAdd(b *testing.B) {
	pool := threading.New("bench", 4)
	defer pool.Close()

	workers := make([]*countingWorker, b.N)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		workers[i] = &countingWorker{}
		pool.Add("w", workers[i])
	}
}
