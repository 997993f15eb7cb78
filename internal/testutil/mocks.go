package testutil

import (
	"bytes"
	"sync"
	"time"
)

// MockClock is a manually advanced time source. Pass its Now method
// wherever a component accepts an injected clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock returns a clock reading start, or the wall time if start is
// zero.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

// Now reports the clock's current reading.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the reading forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// MockWriter collects everything written to it. It is safe for concurrent
// use, so loggers running on worker threads can share one.
type MockWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	writes int
}

// NewMockWriter returns an empty MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

func (w *MockWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	return w.buf.Write(p)
}

// String returns everything written so far.
func (w *MockWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Len returns the number of bytes written so far.
func (w *MockWriter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Len()
}

// WriteCount returns the number of Write calls.
func (w *MockWriter) WriteCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
