package orderbook

import "sync"

// Manager routes operations to per-symbol engines, creating each engine on
// first use. Books for different symbols share nothing; operations on
// distinct instruments never coordinate.
type Manager struct {
	engines sync.Map // symbol -> *Engine
	opts    []Option
}

func NewManager(opts ...Option) *Manager {
	return &Manager{opts: opts}
}

// Engine returns the engine for a symbol, creating it if needed.
func (m *Manager) Engine(symbol string) *Engine {
	if v, ok := m.engines.Load(symbol); ok {
		return v.(*Engine)
	}
	actual, _ := m.engines.LoadOrStore(symbol, NewEngine(symbol, m.opts...))
	return actual.(*Engine)
}

// SubmitOrder routes the order to its symbol's engine.
func (m *Manager) SubmitOrder(order *Order) ([]*Trade, error) {
	return m.Engine(order.Symbol).SubmitOrder(order)
}

// InsertResting seeds liquidity on the order's symbol.
func (m *Manager) InsertResting(order *Order) error {
	return m.Engine(order.Symbol).InsertResting(order)
}

// Cancel removes an order from the given symbol's book.
func (m *Manager) Cancel(symbol, orderID string) (bool, error) {
	return m.Engine(symbol).Cancel(orderID)
}

// Symbols lists the symbols with an instantiated engine.
func (m *Manager) Symbols() []string {
	var out []string
	m.engines.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	return out
}
