package marketdata

import (
	"testing"
	"time"

	"github.com/anhtv08/simple-book-order/pkg/orderbook"
)

func TestBuildSnapshot(t *testing.T) {
	engine := orderbook.NewEngine("USDSGD")
	orders := []*orderbook.Order{
		orderbook.NewOrder("B1", "USDSGD", orderbook.BUY, orderbook.LIMIT, 1.31, 10, time.Now()),
		orderbook.NewOrder("B2", "USDSGD", orderbook.BUY, orderbook.LIMIT, 1.30, 5, time.Now()),
		orderbook.NewOrder("A1", "USDSGD", orderbook.SELL, orderbook.LIMIT, 1.34, 7, time.Now()),
	}
	for _, o := range orders {
		if err := engine.InsertResting(o); err != nil {
			t.Fatalf("seed %s: %v", o.ID, err)
		}
	}

	now := time.Now()
	snap := BuildSnapshot(engine.Book(), 5, now)

	if snap.Symbol != "USDSGD" {
		t.Errorf("symbol = %s", snap.Symbol)
	}
	if !snap.HasBid || snap.BestBid != 1.31 {
		t.Errorf("best bid = %v (has=%v), want 1.31", snap.BestBid, snap.HasBid)
	}
	if !snap.HasAsk || snap.BestAsk != 1.34 {
		t.Errorf("best ask = %v (has=%v), want 1.34", snap.BestAsk, snap.HasAsk)
	}
	if want := 1.34 - 1.31; snap.Spread != want {
		t.Errorf("spread = %v, want %v", snap.Spread, want)
	}
	if len(snap.Bids) != 2 || len(snap.Asks) != 1 {
		t.Fatalf("depth = %d bids / %d asks, want 2/1", len(snap.Bids), len(snap.Asks))
	}
	if snap.Bids[0].Price != 1.31 || snap.Bids[0].Qty != 10 {
		t.Errorf("top bid level = %+v", snap.Bids[0])
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", snap.Timestamp, now)
	}
}

func TestBuildSnapshotEmptyBook(t *testing.T) {
	engine := orderbook.NewEngine("USDSGD")
	snap := BuildSnapshot(engine.Book(), 5, time.Now())

	if snap.HasBid || snap.HasAsk {
		t.Errorf("empty book reported quotes: %+v", snap)
	}
	if snap.Spread != 0 {
		t.Errorf("empty book spread = %v", snap.Spread)
	}
	if len(snap.Bids) != 0 || len(snap.Asks) != 0 {
		t.Errorf("empty book depth: %v / %v", snap.Bids, snap.Asks)
	}
}
