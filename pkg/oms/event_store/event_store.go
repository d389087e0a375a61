package eventstore

import "github.com/anhtv08/simple-book-order/pkg/oms/model"

// EventStore records the order event trail and the gateway-ID chain. The
// chain maps client-facing gateway IDs (FIX ClOrdID and OrigClOrdID) to the
// exchange order ID so follow-up requests can find their order.
type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	TrackGatewayChain(orderID, gatewayID, origGatewayID string)
	GetLatestGatewayID(orderID string) string
	GetOrigGatewayID(gatewayID string) string
	GetOrderID(gatewayID string) string
	ReconstructChain(gatewayID string) []string
	DeleteChainByOrderID(orderID string)
}
