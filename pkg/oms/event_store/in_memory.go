package eventstore

import (
	"sync"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

type InMemoryEventStore struct {
	mu              sync.RWMutex
	orders          map[string][]*model.OrderEvent
	latestGatewayID map[string]string // OrderID -> current GatewayID
	gatewayChain    map[string]string // GatewayID -> OrigGatewayID
	orderIDByGWID   map[string]string // GatewayID -> OrderID
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		orders:          make(map[string][]*model.OrderEvent),
		latestGatewayID: make(map[string]string),
		gatewayChain:    make(map[string]string),
		orderIDByGWID:   make(map[string]string),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// update store
	s.orders[ev.OrderID] = append(s.orders[ev.OrderID], ev)

	// update GatewayID chain
	s.trackLocked(ev.OrderID, ev.GatewayID, ev.OrigGatewayID)
}

// TrackGatewayChain updates the chain between GatewayID and OrigGatewayID
func (s *InMemoryEventStore) TrackGatewayChain(orderID, gatewayID, origGatewayID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackLocked(orderID, gatewayID, origGatewayID)
}

func (s *InMemoryEventStore) trackLocked(orderID, gatewayID, origGatewayID string) {
	// always set the latest GatewayID
	s.latestGatewayID[orderID] = gatewayID
	s.orderIDByGWID[gatewayID] = orderID

	// if OrigGatewayID != "" -> create chain
	if origGatewayID != "" {
		s.gatewayChain[gatewayID] = origGatewayID
	}
}

func (s *InMemoryEventStore) GetLatestGatewayID(orderID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestGatewayID[orderID]
}

// GetOrigGatewayID returns the immediate OrigGatewayID for a given GatewayID
func (s *InMemoryEventStore) GetOrigGatewayID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.gatewayChain[gatewayID]
}

// GetOrderID resolves a gateway ID back to the order it belongs to.
func (s *InMemoryEventStore) GetOrderID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.orderIDByGWID[gatewayID]
}

// ReconstructChain walks backward to get full chain of GatewayIDs
func (s *InMemoryEventStore) ReconstructChain(gatewayID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []string
	curr := gatewayID
	for curr != "" {
		chain = append(chain, curr)
		curr = s.gatewayChain[curr]
	}
	return chain
}

// DeleteChainByOrderID drops a finished order's events and ID mappings.
func (s *InMemoryEventStore) DeleteChainByOrderID(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	curr := s.latestGatewayID[orderID]
	for curr != "" {
		next := s.gatewayChain[curr]
		delete(s.gatewayChain, curr)
		delete(s.orderIDByGWID, curr)
		curr = next
	}
	delete(s.latestGatewayID, orderID)
	delete(s.orders, orderID)
}

// Events returns the recorded trail of one order, oldest first.
func (s *InMemoryEventStore) Events(orderID string) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.OrderEvent, len(s.orders[orderID]))
	copy(out, s.orders[orderID])
	return out
}
