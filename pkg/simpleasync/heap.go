package simpleasync

import "time"

// taskID identifies a pending entry. Plain tasks are identified by their
// code pointer, keyed tasks by their key.
type taskID struct {
	code uintptr
	key  string
}

type entry struct {
	id    taskID
	task  func()
	runAt time.Time
	index int
}

// taskHeap is a min-heap of entries ordered by deadline.
type taskHeap []*entry

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].runAt.Before(h[j].runAt) }

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// peek returns the entry with the nearest deadline, or nil.
func (h taskHeap) peek() *entry {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}
