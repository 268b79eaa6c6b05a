package engine

import "container/heap"

// levelHeap keeps the price levels of one side ordered so that the best
// level is at the root: highest price for bids, lowest for asks.
type levelHeap struct {
	levels []*priceLevel
	isBuy  bool
}

func (h levelHeap) Len() int { return len(h.levels) }

func (h levelHeap) Less(i, j int) bool {
	if h.isBuy {
		return h.levels[i].price > h.levels[j].price
	}
	return h.levels[i].price < h.levels[j].price
}

func (h levelHeap) Swap(i, j int) {
	h.levels[i], h.levels[j] = h.levels[j], h.levels[i]
	h.levels[i].index = i
	h.levels[j].index = j
}

func (h *levelHeap) Push(x interface{}) {
	l := x.(*priceLevel)
	l.index = len(h.levels)
	h.levels = append(h.levels, l)
}

func (h *levelHeap) Pop() interface{} {
	old := h.levels
	n := len(old)
	l := old[n-1]
	old[n-1] = nil
	h.levels = old[:n-1]
	l.index = -1
	return l
}

func (h *levelHeap) best() *priceLevel {
	if len(h.levels) == 0 {
		return nil
	}
	return h.levels[0]
}

func newLevelHeap(isBuy bool) *levelHeap {
	h := &levelHeap{isBuy: isBuy}
	heap.Init(h)
	return h
}
