package orderbook

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	seq := 0
	return NewEngine("USDSGD",
		WithTradeIDSource(func() string {
			seq++
			return fmt.Sprintf("T%d", seq)
		}),
		WithClock(func() time.Time { return time.Unix(1_700_000_000, 0) }),
	)
}

func limitOrder(id string, side Side, price float64, qty int64) *Order {
	return NewOrder(id, "USDSGD", side, LIMIT, price, qty, time.Now())
}

func marketOrder(id string, side Side, qty int64) *Order {
	return NewOrder(id, "USDSGD", side, MARKET, 0, qty, time.Now())
}

func mustRest(t *testing.T, e *Engine, orders ...*Order) {
	t.Helper()
	for _, o := range orders {
		if err := e.InsertResting(o); err != nil {
			t.Fatalf("seed %s: %v", o.ID, err)
		}
	}
}

func TestSubmitRejectsCallerMisuse(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.SubmitOrder(limitOrder("O1", BUY, 1.30, 0)); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: got %v", err)
	}
	if _, err := e.SubmitOrder(limitOrder("O2", BUY, 0, 10)); !errors.Is(err, ErrMissingLimitPrice) {
		t.Errorf("limit without price: got %v", err)
	}
	if _, err := e.SubmitOrder(NewOrder("O3", "USDSGD", BUY, Strategy("STOP"), 1.30, 10, time.Now())); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("unknown strategy: got %v", err)
	}

	mustRest(t, e, limitOrder("O4", BUY, 1.30, 10))
	if _, err := e.SubmitOrder(limitOrder("O4", BUY, 1.30, 10)); !errors.Is(err, ErrDuplicateOrderID) {
		t.Errorf("duplicate ID: got %v", err)
	}
	if e.Book().OpenOrders() != 1 {
		t.Errorf("rejected submissions must not touch the book, open=%d", e.Book().OpenOrders())
	}
}

// A market sell takes the highest bid first even though lower bids arrived
// earlier.
func TestMarketOrderTakesBestPriceFirst(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e,
		limitOrder("B1", BUY, 1.30, 10),
		limitOrder("B2", BUY, 1.31, 10),
		limitOrder("B3", BUY, 1.32, 10),
	)

	trades, err := e.SubmitOrder(marketOrder("S1", SELL, 10))
	if err != nil {
		t.Fatalf("market sell: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Price != 1.32 || trades[0].Qty != 10 {
		t.Errorf("trade = %v @ %v, want 10 @ 1.32", trades[0].Qty, trades[0].Price)
	}
	if trades[0].BuyOrderID != "B3" || trades[0].SellOrderID != "S1" {
		t.Errorf("trade parties = %s/%s, want B3/S1", trades[0].BuyOrderID, trades[0].SellOrderID)
	}
	if bid, _ := e.Book().BestBid(); bid != 1.31 {
		t.Errorf("best bid after fill = %v, want 1.31", bid)
	}
}

// Executions happen at the resting order's price, not the aggressor's limit.
func TestExecutionAtRestingPrice(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e, limitOrder("A1", SELL, 1.30, 10))

	trades, err := e.SubmitOrder(limitOrder("B1", BUY, 1.35, 10))
	if err != nil {
		t.Fatalf("crossing buy: %v", err)
	}
	if len(trades) != 1 || trades[0].Price != 1.30 {
		t.Fatalf("trades = %+v, want one trade at 1.30", trades)
	}
}

// Within a price level the oldest resting order fills first.
func TestFIFOWithinLevel(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e,
		limitOrder("A1", SELL, 1.34, 5),
		limitOrder("A2", SELL, 1.34, 5),
	)

	trades, err := e.SubmitOrder(marketOrder("B1", BUY, 7))
	if err != nil {
		t.Fatalf("market buy: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].SellOrderID != "A1" || trades[0].Qty != 5 {
		t.Errorf("first fill = %s qty %d, want A1 qty 5", trades[0].SellOrderID, trades[0].Qty)
	}
	if trades[1].SellOrderID != "A2" || trades[1].Qty != 2 {
		t.Errorf("second fill = %s qty %d, want A2 qty 2", trades[1].SellOrderID, trades[1].Qty)
	}
}

// Total executed quantity equals the drop in aggregate remaining quantity;
// nothing is created or destroyed by matching.
func TestQuantityConservation(t *testing.T) {
	e := newTestEngine(t)
	resting := []*Order{
		limitOrder("A1", SELL, 1.33, 4),
		limitOrder("A2", SELL, 1.34, 6),
		limitOrder("A3", SELL, 1.35, 8),
	}
	mustRest(t, e, resting...)

	before := int64(0)
	for _, o := range resting {
		before += o.RemainingQty()
	}

	incoming := limitOrder("B1", BUY, 1.34, 9)
	trades, err := e.SubmitOrder(incoming)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	executed := int64(0)
	for _, tr := range trades {
		executed += tr.Qty
	}

	after := int64(0)
	for _, o := range resting {
		after += o.RemainingQty()
	}

	if before-after != executed {
		t.Errorf("resting side lost %d but trades total %d", before-after, executed)
	}
	if incoming.OriginalQty-incoming.RemainingQty() != executed {
		t.Errorf("aggressor executed %d but trades total %d",
			incoming.OriginalQty-incoming.RemainingQty(), executed)
	}
	for _, o := range append(resting, incoming) {
		if o.RemainingQty() < 0 {
			t.Errorf("order %s has negative remainder %d", o.ID, o.RemainingQty())
		}
	}
}

// A limit order stops matching at the first non-crossing level and rests
// its remainder at its own price.
func TestLimitRemainderRests(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e,
		limitOrder("A1", SELL, 1.33, 5),
		limitOrder("A2", SELL, 1.36, 5),
	)

	trades, err := e.SubmitOrder(limitOrder("B1", BUY, 1.34, 12))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(trades) != 1 || trades[0].Price != 1.33 || trades[0].Qty != 5 {
		t.Fatalf("trades = %+v, want one 5 @ 1.33", trades)
	}
	if bid, _ := e.Book().BestBid(); bid != 1.34 {
		t.Errorf("remainder rests at its own price, best bid = %v", bid)
	}
	if ask, _ := e.Book().BestAsk(); ask != 1.36 {
		t.Errorf("non-crossing ask should survive, best ask = %v", ask)
	}
	if e.Book().OpenOrders() != 2 {
		t.Errorf("open orders = %d, want 2", e.Book().OpenOrders())
	}
}

// Market orders never rest: an unfillable remainder is simply dropped.
func TestMarketRemainderNeverRests(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e, limitOrder("A1", SELL, 1.33, 5))

	trades, err := e.SubmitOrder(marketOrder("B1", BUY, 20))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(trades) != 1 || trades[0].Qty != 5 {
		t.Fatalf("trades = %+v, want one fill of 5", trades)
	}
	if e.Book().OpenOrders() != 0 {
		t.Errorf("market remainder must not rest, open=%d", e.Book().OpenOrders())
	}
	if b := e.Book().BidLevels(); b != 0 {
		t.Errorf("bid levels = %d, want 0", b)
	}
}

// A market order against an empty opposite side executes nothing.
func TestMarketAgainstEmptyBook(t *testing.T) {
	e := newTestEngine(t)
	trades, err := e.SubmitOrder(marketOrder("B1", BUY, 10))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}
}

func TestCancelIdempotent(t *testing.T) {
	e := newTestEngine(t)
	o := limitOrder("B1", BUY, 1.30, 10)
	mustRest(t, e, o)

	ok, err := e.Cancel("B1")
	if err != nil || !ok {
		t.Fatalf("first cancel = %v, %v", ok, err)
	}
	if o.Status() != StatusCancelled {
		t.Errorf("status after cancel = %s", o.Status())
	}

	ok, err = e.Cancel("B1")
	if err != nil || ok {
		t.Errorf("second cancel = %v, %v; want false, nil", ok, err)
	}
	ok, err = e.Cancel("NOPE")
	if err != nil || ok {
		t.Errorf("unknown cancel = %v, %v; want false, nil", ok, err)
	}
}

// Filled orders leave the index, so cancelling one is the same no-op as
// cancelling an unknown ID.
func TestCancelFilledOrder(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e, limitOrder("A1", SELL, 1.30, 10))
	if _, err := e.SubmitOrder(marketOrder("B1", BUY, 10)); err != nil {
		t.Fatalf("fill: %v", err)
	}

	ok, err := e.Cancel("A1")
	if err != nil || ok {
		t.Errorf("cancel of filled order = %v, %v; want false, nil", ok, err)
	}
}

// Cancelled quantity never trades: cancel the queue head, the next order
// in the level fills instead.
func TestCancelledOrderNeverTrades(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e,
		limitOrder("A1", SELL, 1.34, 5),
		limitOrder("A2", SELL, 1.34, 5),
	)
	if ok, err := e.Cancel("A1"); err != nil || !ok {
		t.Fatalf("cancel A1: %v, %v", ok, err)
	}

	trades, err := e.SubmitOrder(marketOrder("B1", BUY, 5))
	if err != nil {
		t.Fatalf("market buy: %v", err)
	}
	if len(trades) != 1 || trades[0].SellOrderID != "A2" {
		t.Fatalf("trades = %+v, want one fill against A2", trades)
	}
}

func TestAmendUnsupported(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e, limitOrder("B1", BUY, 1.30, 10))

	if _, err := e.Amend("B1", 1.31, 5); !errors.Is(err, ErrAmendNotSupported) {
		t.Fatalf("amend: got %v", err)
	}
	if bid, _ := e.Book().BestBid(); bid != 1.30 {
		t.Errorf("amend must leave the book untouched, best bid = %v", bid)
	}
}

// Seed a crossed book, then hit it with a market sell: the single trade
// prints at the best bid and the next bid level becomes best.
func TestCrossedBookScenario(t *testing.T) {
	e := newTestEngine(t)
	mustRest(t, e,
		limitOrder("B1", BUY, 1.30, 10),
		limitOrder("B2", BUY, 1.31, 10),
		limitOrder("B3", BUY, 1.32, 10),
		limitOrder("A1", SELL, 1.50, 10),
		limitOrder("A2", SELL, 1.30, 10),
		limitOrder("A3", SELL, 1.34, 10),
	)

	trades, err := e.SubmitOrder(marketOrder("S1", SELL, 10))
	if err != nil {
		t.Fatalf("market sell: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Price != 1.32 || trades[0].Qty != 10 {
		t.Errorf("trade = %d @ %v, want 10 @ 1.32", trades[0].Qty, trades[0].Price)
	}
	if bid, _ := e.Book().BestBid(); bid != 1.31 {
		t.Errorf("best bid = %v, want 1.31", bid)
	}
	if ask, _ := e.Book().BestAsk(); ask != 1.30 {
		t.Errorf("best ask = %v, want 1.30", ask)
	}
}

// Hammer one engine from many goroutines; afterwards the book must be
// internally consistent and every remainder non-negative.
func TestConcurrentSubmissions(t *testing.T) {
	e := NewEngine("USDSGD")
	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(w)))
			for i := 0; i < perWorker; i++ {
				side := BUY
				if rng.Intn(2) == 1 {
					side = SELL
				}
				id := fmt.Sprintf("W%d-%d", w, i)
				price := 1.30 + float64(rng.Intn(10))*0.01
				if _, err := e.SubmitOrder(NewOrder(id, "USDSGD", side, LIMIT, price, int64(1+rng.Intn(20)), time.Now())); err != nil {
					t.Errorf("submit %s: %v", id, err)
				}
				if i%5 == 0 {
					if _, err := e.Cancel(fmt.Sprintf("W%d-%d", w, rng.Intn(i+1))); err != nil {
						t.Errorf("cancel: %v", err)
					}
				}
			}
		}(w)
	}
	wg.Wait()

	bid, okBid := e.Book().BestBid()
	ask, okAsk := e.Book().BestAsk()
	if okBid && okAsk && bid >= ask {
		t.Errorf("book left crossed after matching: bid %v >= ask %v", bid, ask)
	}
	bids, asks := e.Book().Depth(0x7fffffff)
	open := 0
	for _, l := range append(bids, asks...) {
		if l.Qty <= 0 {
			t.Errorf("level %v holds non-positive quantity %d", l.Price, l.Qty)
		}
		open += l.Orders
	}
	if open != e.Book().OpenOrders() {
		t.Errorf("index has %d orders but levels hold %d", e.Book().OpenOrders(), open)
	}
}

func TestManagerRoutesBySymbol(t *testing.T) {
	m := NewManager()

	if _, err := m.SubmitOrder(NewOrder("B1", "USDSGD", BUY, LIMIT, 1.30, 10, time.Now())); err != nil {
		t.Fatalf("submit USDSGD: %v", err)
	}
	if _, err := m.SubmitOrder(NewOrder("B1", "USDJPY", BUY, LIMIT, 147.20, 10, time.Now())); err != nil {
		t.Fatalf("same ID on another symbol must be independent: %v", err)
	}

	if bid, _ := m.Engine("USDSGD").Book().BestBid(); bid != 1.30 {
		t.Errorf("USDSGD best bid = %v", bid)
	}
	if bid, _ := m.Engine("USDJPY").Book().BestBid(); bid != 147.20 {
		t.Errorf("USDJPY best bid = %v", bid)
	}
	if got := len(m.Symbols()); got != 2 {
		t.Errorf("symbols = %d, want 2", got)
	}

	ok, err := m.Cancel("USDSGD", "B1")
	if err != nil || !ok {
		t.Errorf("cancel via manager = %v, %v", ok, err)
	}
	if bid, ok := m.Engine("USDJPY").Book().BestBid(); !ok || bid != 147.20 {
		t.Errorf("cancel leaked across symbols, USDJPY bid = %v ok=%v", bid, ok)
	}
}

func BenchmarkSubmitLimitOrders(b *testing.B) {
	e := NewEngine("USDSGD")
	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := BUY
		if i%2 == 1 {
			side = SELL
		}
		price := 1.30 + float64(rng.Intn(20))*0.01
		_, _ = e.SubmitOrder(NewOrder(fmt.Sprintf("O%d", i), "USDSGD", side, LIMIT, price, 10, time.Now()))
	}
}
