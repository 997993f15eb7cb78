/*
Package threading runs many small workers on a fixed set of dedicated threads.

A Pool owns a number of WorkerThreads. Each WorkerThread is one goroutine locked
to its own OS thread for its whole life. Workers added to the pool are bound to
a thread round-robin and never move, so all of a worker's Setup and Run calls
happen on the same thread. State touched only from those calls needs no lock.

Defining a worker:

	type flusher struct {
		threading.Base
		buf []byte
	}

	func (f *flusher) Setup() { f.buf = make([]byte, 0, 4096) }
	func (f *flusher) Run()   { flush(f.buf); f.buf = f.buf[:0] }

Running it:

	pool := threading.New("io", 0) // 0 selects DefaultThreadCount
	defer pool.Close()

	f := &flusher{}
	pool.Add("flusher", f)
	f.ScheduleWork() // safe from any goroutine

ScheduleWork requests at least one more Run. Requests that arrive while a run
is already pending coalesce, so a burst of N calls may produce fewer than N
runs but always at least one run that starts after the last call.

Lifetime:

The pool holds workers weakly. Once the application drops its last reference
to a worker, the thread stops running it and eventually discards the dead
reference. Workers therefore need no explicit removal.

Closing a pool stops every thread after the worker currently running returns.
Work still pending at that point is discarded. A worker may close its own
thread or pool from inside Run; the call returns immediately and the thread
exits once Run returns.

Thread-owned state:

Local holds a value that is visible only on its owning thread:

	var seen threading.Local[map[string]int]

	func (w *myWorker) Setup() {
		seen.Bind(w.WorkerThread())
		*seen.Get() = map[string]int{}
	}

Get returns nil on any other goroutine, which makes misuse fail loudly instead
of racing.
*/
package threading
