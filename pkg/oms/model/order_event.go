package model

import (
	"fmt"
	"time"
)

// OrderEvent is one immutable entry of the order audit trail. Events are
// published to the stream as they happen and persisted by the worker.
type OrderEvent struct {
	EventID       string    `gorm:"column:event_id;primaryKey" json:"event_id"`
	OrderID       string    `gorm:"column:order_id" json:"order_id"`
	GatewayID     string    `gorm:"column:gateway_id" json:"gateway_id"`
	OrigGatewayID string    `gorm:"column:orig_gateway_id" json:"orig_gateway_id"`
	Symbol        string    `gorm:"column:symbol" json:"symbol"`
	Side          string    `gorm:"column:side" json:"side"`
	ExecType      string    `gorm:"column:exec_type" json:"exec_type"`
	Status        string    `gorm:"column:status" json:"status"`
	Qty           int64     `gorm:"column:qty" json:"qty"`
	Price         float64   `gorm:"column:price" json:"price"`
	LeavesQty     int64     `gorm:"column:leaves_qty" json:"leaves_qty"`
	CumQty        int64     `gorm:"column:cum_qty" json:"cum_qty"`
	Timestamp     time.Time `gorm:"column:ts" json:"ts"`
}

func (OrderEvent) TableName() string {
	return "order_events"
}

// NewOrderEvent snapshots the order into an event. The order is passed by
// value so the event stays stable while the live order keeps changing.
func NewOrderEvent(order Order, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:       fmt.Sprintf("%s-%s-%d", order.OrderID, order.Status, order.CumQuantity.IntPart()),
		OrderID:       order.OrderID,
		GatewayID:     order.GatewayID,
		OrigGatewayID: order.OrigGatewayID,
		Symbol:        order.Symbol,
		Side:          string(order.Side),
		ExecType:      string(order.ExecType),
		Status:        string(order.Status),
		Qty:           order.Quantity.IntPart(),
		Price:         order.Price.InexactFloat64(),
		LeavesQty:     order.LeavesQuantity.IntPart(),
		CumQty:        order.CumQuantity.IntPart(),
		Timestamp:     ts,
	}
}

func NewEventID(orderID string, status OrderStatus) string {
	return fmt.Sprintf("%s-%s", orderID, status)
}
