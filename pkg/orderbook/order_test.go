package orderbook

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestReduceRejectsOverReduction(t *testing.T) {
	o := NewOrder("O1", "USDSGD", BUY, LIMIT, 1.30, 10, time.Now())

	if err := o.Reduce(4); err != nil {
		t.Fatalf("reduce 4 of 10: %v", err)
	}
	if got := o.RemainingQty(); got != 6 {
		t.Fatalf("expected remaining 6, got %d", got)
	}
	if o.Status() != StatusPartiallyFilled {
		t.Errorf("expected PARTIALLY_FILLED, got %s", o.Status())
	}

	if err := o.Reduce(7); !errors.Is(err, ErrReduceExceedsRemaining) {
		t.Fatalf("expected over-reduction rejected, got %v", err)
	}
	if got := o.RemainingQty(); got != 6 {
		t.Fatalf("rejected reduce must not change remainder, got %d", got)
	}

	if err := o.Reduce(6); err != nil {
		t.Fatalf("reduce to zero: %v", err)
	}
	if !o.IsFilled() || o.Status() != StatusFilled {
		t.Errorf("expected filled order, got remaining=%d status=%s", o.RemainingQty(), o.Status())
	}
}

func TestReduceRejectsNonPositive(t *testing.T) {
	o := NewOrder("O1", "USDSGD", SELL, LIMIT, 1.30, 10, time.Now())
	if err := o.Reduce(0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("reduce 0: expected ErrInvalidQuantity, got %v", err)
	}
	if err := o.Reduce(-3); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("reduce -3: expected ErrInvalidQuantity, got %v", err)
	}
}

// Concurrent reductions must never push the remainder below zero; the sum
// of accepted reductions is bounded by the original quantity.
func TestReduceConcurrent(t *testing.T) {
	o := NewOrder("O1", "USDSGD", BUY, LIMIT, 1.30, 100, time.Now())

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := int64(0)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := o.Reduce(3); err == nil {
				mu.Lock()
				accepted += 3
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if got := o.RemainingQty(); got < 0 {
		t.Fatalf("remainder went negative: %d", got)
	}
	if got := o.RemainingQty(); got != 100-accepted {
		t.Errorf("remaining %d does not match accepted reductions %d", got, accepted)
	}
}

func TestCancelledFilledOrderKeepsStatus(t *testing.T) {
	o := NewOrder("O1", "USDSGD", BUY, LIMIT, 1.30, 5, time.Now())
	if err := o.Reduce(5); err != nil {
		t.Fatalf("fill: %v", err)
	}
	o.markCancelled()
	if o.Status() != StatusFilled {
		t.Errorf("filled order must stay FILLED after cancel attempt, got %s", o.Status())
	}
}
