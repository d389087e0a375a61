package orderbook

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine matches incoming orders against the resting book of a single
// instrument, following price-time priority: best opposite price first,
// oldest order within a price first, executions at the resting price.
// Matching runs synchronously inside the submitting call; the book's write
// lock serializes concurrent submissions into some total order.
type Engine struct {
	book    *Book
	tradeID func() string
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTradeIDSource replaces the default uuid trade-ID generator. Sharing
// one source across engines keeps trade IDs collision-free exchange-wide.
func WithTradeIDSource(fn func() string) Option {
	return func(e *Engine) { e.tradeID = fn }
}

// WithClock replaces the default wall clock used for trade timestamps.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

func NewEngine(symbol string, opts ...Option) *Engine {
	e := &Engine{
		book:    NewBook(symbol),
		tradeID: uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Book exposes the read-only query surface of the engine's book.
func (e *Engine) Book() *Book { return e.book }

// SubmitOrder runs an incoming order through matching and returns the
// trades it generated, in execution order. A limit remainder rests on the
// book; a market remainder is simply left unfilled, market orders never
// rest. Caller-misuse faults are rejected before any state changes.
func (e *Engine) SubmitOrder(order *Order) ([]*Trade, error) {
	if err := validateIncoming(order); err != nil {
		return nil, err
	}

	e.book.mu.Lock()
	defer e.book.mu.Unlock()

	if _, ok := e.book.orders[order.ID]; ok {
		return nil, ErrDuplicateOrderID
	}

	switch order.Strategy {
	case MARKET:
		return e.match(order, false)
	case LIMIT:
		trades, err := e.match(order, true)
		if err != nil {
			return trades, err
		}
		if order.RemainingQty() > 0 {
			e.book.insertResting(order)
		}
		return trades, nil
	default:
		return nil, ErrUnknownStrategy
	}
}

// match walks the opposite side best price first. Market and limit orders
// share the walk; a limit order additionally stops once its price no longer
// crosses the best opposite price.
func (e *Engine) match(aggressive *Order, checkCrossing bool) ([]*Trade, error) {
	counter := e.book.opposite(aggressive.Side)

	var trades []*Trade
	for aggressive.RemainingQty() > 0 {
		bestPrice, ok := counter.best()
		if !ok {
			break
		}
		if checkCrossing && !crosses(aggressive.Side, aggressive.Price, bestPrice) {
			break
		}

		resting := counter.head(bestPrice)
		if resting == nil {
			// Empty level left behind; drop it and look at the next price.
			counter.dropLevel(bestPrice)
			continue
		}

		tradeQty := aggressive.RemainingQty()
		if r := resting.RemainingQty(); r < tradeQty {
			tradeQty = r
		}

		if err := aggressive.Reduce(tradeQty); err != nil {
			return trades, fmt.Errorf("%w: aggressive order %s: %v", ErrBookCorrupt, aggressive.ID, err)
		}
		if err := resting.Reduce(tradeQty); err != nil {
			return trades, fmt.Errorf("%w: resting order %s: %v", ErrBookCorrupt, resting.ID, err)
		}

		trades = append(trades, e.newTrade(aggressive, resting, bestPrice, tradeQty))

		if resting.IsFilled() {
			counter.popHead(bestPrice)
			delete(e.book.orders, resting.ID)
		}
	}
	return trades, nil
}

// crosses reports whether a limit price is willing to trade against the
// best opposite price.
func crosses(side Side, limitPrice, bestOpposite float64) bool {
	if side == BUY {
		return limitPrice >= bestOpposite
	}
	return limitPrice <= bestOpposite
}

func (e *Engine) newTrade(aggressive, resting *Order, price float64, qty int64) *Trade {
	trade := &Trade{
		ID:         e.tradeID(),
		Symbol:     e.book.symbol,
		Qty:        qty,
		Price:      price,
		ExecutedAt: e.now(),
	}
	if aggressive.Side == BUY {
		trade.BuyOrderID = aggressive.ID
		trade.SellOrderID = resting.ID
	} else {
		trade.BuyOrderID = resting.ID
		trade.SellOrderID = aggressive.ID
	}
	return trade
}

// InsertResting places an order directly on the book, bypassing matching.
// Used to seed or preload liquidity. The order must carry a positive
// remaining quantity and a limit price.
func (e *Engine) InsertResting(order *Order) error {
	if err := validateIncoming(order); err != nil {
		return err
	}
	if order.Price <= 0 {
		return ErrMissingLimitPrice
	}

	e.book.mu.Lock()
	defer e.book.mu.Unlock()

	if _, ok := e.book.orders[order.ID]; ok {
		return ErrDuplicateOrderID
	}
	e.book.insertResting(order)
	return nil
}

// Cancel removes the order's remaining quantity from the book. Trades
// already executed against it stand. Unknown, already-filled and
// already-cancelled IDs are a no-op reported as false; the error is
// non-nil only on an internal consistency fault.
func (e *Engine) Cancel(orderID string) (bool, error) {
	e.book.mu.Lock()
	order, ok := e.book.orders[orderID]
	var removed bool
	var err error
	if ok {
		removed, err = e.book.removeByID(orderID)
	}
	e.book.mu.Unlock()

	if removed {
		order.markCancelled()
	}
	return removed, err
}

// Amend is intentionally unsupported: the upstream system declared the
// operation but never defined its semantics. See ErrAmendNotSupported.
func (e *Engine) Amend(orderID string, price float64, qty int64) ([]*Trade, error) {
	return nil, ErrAmendNotSupported
}

func validateIncoming(order *Order) error {
	if order.RemainingQty() <= 0 {
		return ErrInvalidQuantity
	}
	if order.Strategy == LIMIT && order.Price <= 0 {
		return ErrMissingLimitPrice
	}
	return nil
}
