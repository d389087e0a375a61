// Package marketdata periodically snapshots every live book and publishes
// the quotes to redis, where downstream consumers read them by symbol.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/anhtv08/simple-book-order/pkg/orderbook"
)

// Snapshot is the published top-of-book view of one instrument.
type Snapshot struct {
	Symbol    string            `json:"symbol"`
	BestBid   float64           `json:"best_bid,omitempty"`
	BestAsk   float64           `json:"best_ask,omitempty"`
	HasBid    bool              `json:"has_bid"`
	HasAsk    bool              `json:"has_ask"`
	Spread    float64           `json:"spread,omitempty"`
	Bids      []orderbook.Level `json:"bids,omitempty"`
	Asks      []orderbook.Level `json:"asks,omitempty"`
	Timestamp time.Time         `json:"ts"`
}

// BuildSnapshot reads the book's query surface into a Snapshot.
func BuildSnapshot(book *orderbook.Book, depthLevels int, now time.Time) *Snapshot {
	snap := &Snapshot{
		Symbol:    book.Symbol(),
		Timestamp: now,
	}
	snap.BestBid, snap.HasBid = book.BestBid()
	snap.BestAsk, snap.HasAsk = book.BestAsk()
	if spread, ok := book.Spread(); ok {
		snap.Spread = spread
	}
	snap.Bids, snap.Asks = book.Depth(depthLevels)
	return snap
}

type PublisherConfig struct {
	Interval    time.Duration
	DepthLevels int
}

// Publisher polls the books on a fixed interval and writes each snapshot
// to redis under quote:{symbol}.
type Publisher struct {
	rdb   *redis.Client
	books *orderbook.Manager
	cfg   PublisherConfig
}

func NewPublisher(rdb *redis.Client, books *orderbook.Manager, cfg PublisherConfig) *Publisher {
	if cfg.Interval == 0 {
		cfg.Interval = time.Second
	}
	if cfg.DepthLevels == 0 {
		cfg.DepthLevels = 5
	}
	return &Publisher{rdb: rdb, books: books, cfg: cfg}
}

func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.publishAll(ctx)
		}
	}
}

func (p *Publisher) publishAll(ctx context.Context) {
	now := time.Now()
	for _, symbol := range p.books.Symbols() {
		snap := BuildSnapshot(p.books.Engine(symbol).Book(), p.cfg.DepthLevels, now)
		data, err := json.Marshal(snap)
		if err != nil {
			zap.S().Errorw("marshal snapshot fail", "symbol", symbol, "err", err)
			continue
		}
		if err := p.rdb.Set(ctx, quoteKey(symbol), data, 0).Err(); err != nil {
			zap.S().Warnw("publish snapshot fail", "symbol", symbol, "err", err)
		}
	}
}

// Get reads the latest published snapshot of a symbol.
func Get(ctx context.Context, rdb *redis.Client, symbol string) (*Snapshot, error) {
	data, err := rdb.Get(ctx, quoteKey(symbol)).Bytes()
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func quoteKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}
