package orderbook

import "time"

// Trade is an immutable execution record. The price is always the resting
// order's price, never the aggressor's limit.
type Trade struct {
	ID          string
	Symbol      string
	BuyOrderID  string
	SellOrderID string
	Qty         int64
	Price       float64
	ExecutedAt  time.Time
}
