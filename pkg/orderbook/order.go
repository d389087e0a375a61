package orderbook

import (
	"sync"
	"time"
)

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

// Strategy selects the execution path for an incoming order.
type Strategy string

const (
	MARKET Strategy = "MARKET"
	LIMIT  Strategy = "LIMIT"
)

type Status string

const (
	StatusNew             Status = "NEW"
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	StatusFilled          Status = "FILLED"
	StatusCancelled       Status = "CANCELLED"
)

// Order is a single buy or sell instruction. The intake layer issues the ID
// and timestamp; once the order reaches an engine the identity fields are
// never rewritten. Remaining quantity and status are mutated only through
// Reduce and the engine's cancel path, both serialized by the order's own
// mutex so a cancel racing a match can never corrupt the remainder.
type Order struct {
	ID          string
	Symbol      string
	Side        Side
	Strategy    Strategy
	Price       float64 // limit price; ignored for MARKET
	OriginalQty int64
	CreatedAt   time.Time

	mu           sync.Mutex
	remainingQty int64
	status       Status
}

func NewOrder(id, symbol string, side Side, strategy Strategy, price float64, qty int64, createdAt time.Time) *Order {
	return &Order{
		ID:           id,
		Symbol:       symbol,
		Side:         side,
		Strategy:     strategy,
		Price:        price,
		OriginalQty:  qty,
		CreatedAt:    createdAt,
		remainingQty: qty,
		status:       StatusNew,
	}
}

func (o *Order) RemainingQty() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.remainingQty
}

func (o *Order) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Order) IsFilled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.remainingQty == 0
}

// Reduce decrements the remaining quantity by executed and advances the
// status. A reduction that would drive the remainder negative is rejected
// without any effect; the check and the decrement happen under one lock.
func (o *Order) Reduce(executed int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if executed <= 0 {
		return ErrInvalidQuantity
	}
	if executed > o.remainingQty {
		return ErrReduceExceedsRemaining
	}

	o.remainingQty -= executed
	if o.remainingQty == 0 {
		o.status = StatusFilled
	} else {
		o.status = StatusPartiallyFilled
	}
	return nil
}

// markCancelled moves the order to CANCELLED. Filled orders stay filled:
// cancellation only ever applies to a live remainder.
func (o *Order) markCancelled() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.remainingQty > 0 {
		o.status = StatusCancelled
	}
}
