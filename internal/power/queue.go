package power

import (
	"container/heap"

	"domebridge/internal/protocol"
)

// entry is one queued command plus its scheduling metadata. sequence breaks
// priority ties FIFO, per spec.md 4.4's "(priority, sequence,
// ScheduledCommand)" heap tuple.
type entry struct {
	priority int
	sequence uint64
	command  protocol.Command
	index    int
}

// entryHeap implements container/heap.Interface as a min-heap over
// (priority, sequence).
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].sequence < h[j].sequence
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

var _ heap.Interface = (*entryHeap)(nil)
