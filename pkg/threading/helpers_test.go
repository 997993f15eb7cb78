package threading

import (
	"sync"
	"sync/atomic"
)

// recordingWorker counts Setup and Run calls and can run a hook per Run.
type recordingWorker struct {
	Base
	setups atomic.Int32
	runs   atomic.Int32

	setupOnThread atomic.Bool
	runOnThread   atomic.Bool

	onRun func(w *recordingWorker)
}

func (w *recordingWorker) Setup() {
	w.setups.Add(1)
	w.setupOnThread.Store(w.WorkerThread().IsCurrent())
}

func (w *recordingWorker) Run() {
	w.runs.Add(1)
	w.runOnThread.Store(w.WorkerThread().IsCurrent())
	if w.onRun != nil {
		w.onRun(w)
	}
}

// orderLog records worker names in the order they ran.
type orderLog struct {
	mu    sync.Mutex
	names []string
}

func (l *orderLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
}

func (l *orderLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}
