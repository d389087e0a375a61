package orderbook

import (
	"sort"
	"sync"

	"github.com/gammazero/deque"
)

// bookSide holds the resting liquidity for one side of one instrument:
// a FIFO queue per price plus a heap that keeps the best price on top.
// Both structures, and the owning Book's order index, are mutated only
// under the Book lock so level emptiness, heap membership and index
// membership are always observed as a unit.
type bookSide struct {
	levels map[float64]*deque.Deque[*Order]
	prices *priceHeap
}

func newBookSide(better func(a, b float64) bool) *bookSide {
	return &bookSide{
		levels: make(map[float64]*deque.Deque[*Order]),
		prices: newPriceHeap(better),
	}
}

// append adds an order to the back of its price level, creating the level
// first if this price is new.
func (s *bookSide) append(order *Order) {
	level := s.levels[order.Price]
	if level == nil {
		level = &deque.Deque[*Order]{}
		s.levels[order.Price] = level
		s.prices.push(order.Price)
	}
	level.PushBack(order)
}

func (s *bookSide) best() (float64, bool) {
	return s.prices.peek()
}

func (s *bookSide) levelCount() int {
	return len(s.levels)
}

// head returns the oldest order at the given price, or nil when the level
// is missing or empty.
func (s *bookSide) head(price float64) *Order {
	level := s.levels[price]
	if level == nil || level.Len() == 0 {
		return nil
	}
	return level.Front()
}

// popHead removes the oldest order at the given price and drops the level
// when it becomes empty.
func (s *bookSide) popHead(price float64) {
	level := s.levels[price]
	if level == nil {
		return
	}
	if level.Len() > 0 {
		level.PopFront()
	}
	if level.Len() == 0 {
		s.dropLevel(price)
	}
}

// dropLevel removes a price level and its heap entry.
func (s *bookSide) dropLevel(price float64) {
	delete(s.levels, price)
	s.prices.remove(price)
}

// removeOrder takes one order out of its level, preserving the relative
// order of the rest, and drops the level if it empties. Returns false when
// the order is not in its level.
func (s *bookSide) removeOrder(order *Order) bool {
	level := s.levels[order.Price]
	if level == nil {
		return false
	}
	n := level.Len()
	found := false
	for i := 0; i < n; i++ {
		o := level.PopFront()
		if o == order {
			found = true
			continue
		}
		level.PushBack(o)
	}
	if level.Len() == 0 {
		s.dropLevel(order.Price)
	}
	return found
}

// Book is the resting state of a single instrument: both sides plus an
// order index for O(1) lookup by ID. Every mutation happens under mu; the
// index and the levels can never disagree for an outside observer.
type Book struct {
	symbol string

	mu     sync.RWMutex
	bids   *bookSide
	asks   *bookSide
	orders map[string]*Order
}

func NewBook(symbol string) *Book {
	return &Book{
		symbol: symbol,
		bids:   newBookSide(func(a, b float64) bool { return a > b }),
		asks:   newBookSide(func(a, b float64) bool { return a < b }),
		orders: make(map[string]*Order),
	}
}

func (b *Book) Symbol() string { return b.symbol }

// side returns the book side matching the order side.
func (b *Book) side(side Side) *bookSide {
	if side == BUY {
		return b.bids
	}
	return b.asks
}

// opposite returns the side an aggressive order executes against.
func (b *Book) opposite(side Side) *bookSide {
	if side == BUY {
		return b.asks
	}
	return b.bids
}

// insertResting appends the order to its side and registers it in the
// index. Caller holds the write lock and has validated the order.
func (b *Book) insertResting(order *Order) {
	b.side(order.Side).append(order)
	b.orders[order.ID] = order
}

// removeByID takes an order off the book: out of the index, out of its
// level, level dropped if emptied. Unknown IDs are a no-op signalled by
// false. An index entry whose order is missing from its level means the
// two structures diverged.
func (b *Book) removeByID(orderID string) (bool, error) {
	order, ok := b.orders[orderID]
	if !ok {
		return false, nil
	}
	delete(b.orders, orderID)
	if !b.side(order.Side).removeOrder(order) {
		return false, ErrBookCorrupt
	}
	return true, nil
}

func (b *Book) BestBid() (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.best()
}

func (b *Book) BestAsk() (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.best()
}

// Spread is best ask minus best bid; absent unless both sides are non-empty.
func (b *Book) Spread() (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bid, okBid := b.bids.best()
	ask, okAsk := b.asks.best()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask - bid, true
}

func (b *Book) BidLevels() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.levelCount()
}

func (b *Book) AskLevels() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asks.levelCount()
}

// OpenOrders counts resting orders across both sides.
func (b *Book) OpenOrders() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

// Level is one aggregated price level of a depth snapshot.
type Level struct {
	Price  float64 `json:"price"`
	Qty    int64   `json:"qty"`
	Orders int     `json:"orders"`
}

// Depth returns up to maxLevels aggregated levels per side, bids best
// (highest) first and asks best (lowest) first.
func (b *Book) Depth(maxLevels int) (bids, asks []Level) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.depth(maxLevels), b.asks.depth(maxLevels)
}

func (s *bookSide) depth(maxLevels int) []Level {
	if maxLevels <= 0 || len(s.levels) == 0 {
		return nil
	}
	sorted := make([]float64, 0, len(s.levels))
	for price := range s.levels {
		sorted = append(sorted, price)
	}
	sort.Slice(sorted, func(i, j int) bool { return s.prices.better(sorted[i], sorted[j]) })
	if len(sorted) > maxLevels {
		sorted = sorted[:maxLevels]
	}
	out := make([]Level, 0, len(sorted))
	for _, price := range sorted {
		level := s.levels[price]
		var qty int64
		for i := 0; i < level.Len(); i++ {
			qty += level.At(i).RemainingQty()
		}
		out = append(out, Level{Price: price, Qty: qty, Orders: level.Len()})
	}
	return out
}
