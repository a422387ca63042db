package rank

import (
	"container/heap"
	"slices"
)

// scored is a candidate during a scan. index is the corpus row.
type scored struct {
	index int
	score float32
}

// better reports whether a ranks ahead of b.
func better(a, b scored) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.index < b.index
}

// boundedHeap keeps the k best candidates seen so far. The root is the
// worst of them, so a new candidate only needs comparing against it.
type boundedHeap struct {
	items []scored
	k     int
}

func newBoundedHeap(k int) *boundedHeap {
	return &boundedHeap{items: make([]scored, 0, k), k: k}
}

func (h *boundedHeap) Len() int           { return len(h.items) }
func (h *boundedHeap) Less(i, j int) bool { return better(h.items[j], h.items[i]) }
func (h *boundedHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *boundedHeap) Push(x any)         { h.items = append(h.items, x.(scored)) }
func (h *boundedHeap) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}

// offer adds c if it beats the current worst, or if the heap is not full.
func (h *boundedHeap) offer(c scored) {
	if len(h.items) < h.k {
		heap.Push(h, c)
		return
	}
	if better(c, h.items[0]) {
		h.items[0] = c
		heap.Fix(h, 0)
	}
}

// sorted returns the kept candidates best first.
func (h *boundedHeap) sorted() []scored {
	out := slices.Clone(h.items)
	sortCandidates(out)
	return out
}

func sortCandidates(c []scored) {
	slices.SortFunc(c, func(a, b scored) int {
		switch {
		case better(a, b):
			return -1
		case better(b, a):
			return 1
		default:
			return 0
		}
	})
}
