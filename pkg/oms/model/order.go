package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusRejected        OrderStatus = "Rejected"
)

type OrderExecType string

const (
	ExecTypePendingNew OrderExecType = "PendingNew"
	ExecTypeNew        OrderExecType = "New"
	ExecTypeTrade      OrderExecType = "Trade"
	ExecTypeCanceled   OrderExecType = "Canceled"
	ExecTypeRejected   OrderExecType = "Rejected"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

type OrderTimeInForce string

const (
	OrderTimeInForceDAY OrderTimeInForce = "DAY"
	OrderTimeInForceIOC OrderTimeInForce = "IOC"
	OrderTimeInForceFOK OrderTimeInForce = "FOK"
	OrderTimeInForceGTC OrderTimeInForce = "GTC"
)

// Order is the book-of-record view of one client order inside the OMS.
// The matching core keeps its own slimmer order; this one carries the
// client-facing identifiers and the execution-report bookkeeping.
type Order struct {
	// init info
	GatewayID     string
	OrigGatewayID string
	Account       string
	Symbol        string
	SecurityID    string
	Exchange      string
	Side          OrderSide
	Type          OrderType
	TimeInForce   OrderTimeInForce
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	TransactTime  time.Time

	// calculated info
	ExecID         string
	OrderID        string
	Status         OrderStatus
	ExecType       OrderExecType
	Text           string
	CumQuantity    decimal.Decimal
	LeavesQuantity decimal.Decimal
	LastQuantity   decimal.Decimal
	LastPrice      decimal.Decimal
	AvgPrice       decimal.Decimal
}

// UpdateAddOrder seeds the order from an accepted AddOrder request.
func (o *Order) UpdateAddOrder(add *AddOrder, orderID string) {
	o.GatewayID = add.GatewayID
	o.Account = add.Account
	o.Symbol = add.Symbol
	o.SecurityID = add.SecurityID
	o.Exchange = add.Exchange
	o.Side = add.Side
	o.Type = add.Type
	o.TimeInForce = add.TimeInForce
	o.Price = add.Price
	o.Quantity = add.Quantity
	o.TransactTime = add.TransactTime

	o.OrderID = orderID
	o.ExecID = NewEventID(orderID, OrderStatusNew)
	o.Status = OrderStatusNew
	o.ExecType = ExecTypeNew
	o.CumQuantity = decimal.Zero
	o.LeavesQuantity = add.Quantity
	o.LastQuantity = decimal.Zero
	o.LastPrice = decimal.Zero
	o.AvgPrice = decimal.Zero
}

// UpdateTrade applies one execution to the order's quantities and status.
func (o *Order) UpdateTrade(qty int64, price float64) {
	lastQty := decimal.NewFromInt(qty)
	lastPx := decimal.NewFromFloat(price)

	prevNotional := o.AvgPrice.Mul(o.CumQuantity)
	o.CumQuantity = o.CumQuantity.Add(lastQty)
	o.LeavesQuantity = o.Quantity.Sub(o.CumQuantity)
	o.LastQuantity = lastQty
	o.LastPrice = lastPx
	if o.CumQuantity.IsPositive() {
		o.AvgPrice = prevNotional.Add(lastPx.Mul(lastQty)).Div(o.CumQuantity)
	}

	if o.LeavesQuantity.IsPositive() {
		o.Status = OrderStatusPartiallyFilled
	} else {
		o.Status = OrderStatusFilled
	}
	o.ExecType = ExecTypeTrade
	o.ExecID = NewEventID(o.OrderID, o.Status)
}

// UpdateCancelOrder marks the order canceled on behalf of a cancel request.
func (o *Order) UpdateCancelOrder(cancel *CancelOrder) {
	o.GatewayID = cancel.GatewayID
	o.OrigGatewayID = cancel.OrigGatewayID
	o.LeavesQuantity = decimal.Zero
	o.Status = OrderStatusCanceled
	o.ExecType = ExecTypeCanceled
	o.ExecID = NewEventID(o.OrderID, OrderStatusCanceled)
}

// UpdateReject marks the order rejected with a reason for the client.
func (o *Order) UpdateReject(text string) {
	o.LeavesQuantity = decimal.Zero
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
	o.Text = text
	o.ExecID = NewEventID(o.OrderID, OrderStatusRejected)
}

// CanCancel reports whether the order still has live quantity on the book.
func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled:
		return true
	}
	return false
}

// IsEnd reports whether the order reached a terminal status.
func (o *Order) IsEnd() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected:
		return true
	}
	return false
}
