package orderbook

import "container/heap"

// priceHeap keeps the best price of one book side at the root: a max-heap
// for bids, a min-heap for asks. Positions are tracked so a price can be
// removed from the middle when a cancel empties its level.
type priceHeap struct {
	prices []float64
	better func(a, b float64) bool
	pos    map[float64]int
}

func newPriceHeap(better func(a, b float64) bool) *priceHeap {
	return &priceHeap{
		better: better,
		pos:    make(map[float64]int),
	}
}

func (h *priceHeap) Len() int { return len(h.prices) }

func (h *priceHeap) Less(i, j int) bool { return h.better(h.prices[i], h.prices[j]) }

func (h *priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
	h.pos[h.prices[i]] = i
	h.pos[h.prices[j]] = j
}

func (h *priceHeap) Push(x any) {
	price := x.(float64)
	h.pos[price] = len(h.prices)
	h.prices = append(h.prices, price)
}

func (h *priceHeap) Pop() any {
	n := len(h.prices)
	price := h.prices[n-1]
	h.prices = h.prices[:n-1]
	delete(h.pos, price)
	return price
}

func (h *priceHeap) peek() (float64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

// push adds a price unless it is already tracked.
func (h *priceHeap) push(price float64) {
	if _, ok := h.pos[price]; ok {
		return
	}
	heap.Push(h, price)
}

// remove drops a price wherever it sits in the heap.
func (h *priceHeap) remove(price float64) {
	i, ok := h.pos[price]
	if !ok {
		return
	}
	heap.Remove(h, i)
}
