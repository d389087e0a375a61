package fixgateway

import (
	"errors"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/fix44/ordercancelreject"
	"github.com/quickfixgo/quickfix"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

var errClOrdIDNotFound = errors.New("clOrdID not found")

var (
	OrderStatusMapping map[model.OrderStatus]enum.OrdStatus = map[model.OrderStatus]enum.OrdStatus{
		model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
		model.OrderStatusNew:             enum.OrdStatus_NEW,
		model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
		model.OrderStatusFilled:          enum.OrdStatus_FILLED,
		model.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
		model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
	}

	ExecTypeMapping map[model.OrderExecType]enum.ExecType = map[model.OrderExecType]enum.ExecType{
		model.ExecTypePendingNew: enum.ExecType_PENDING_NEW,
		model.ExecTypeNew:        enum.ExecType_NEW,
		model.ExecTypeTrade:      enum.ExecType_TRADE,
		model.ExecTypeCanceled:   enum.ExecType_CANCELED,
		model.ExecTypeRejected:   enum.ExecType_REJECTED,
	}

	SideMapping map[model.OrderSide]enum.Side = map[model.OrderSide]enum.Side{
		model.OrderSideBuy:  enum.Side_BUY,
		model.OrderSideSell: enum.Side_SELL,
	}

	TimeInForceMapping map[model.OrderTimeInForce]enum.TimeInForce = map[model.OrderTimeInForce]enum.TimeInForce{
		model.OrderTimeInForceDAY: enum.TimeInForce_DAY,
		model.OrderTimeInForceFOK: enum.TimeInForce_FILL_OR_KILL,
		model.OrderTimeInForceGTC: enum.TimeInForce_GOOD_TILL_CANCEL,
		model.OrderTimeInForceIOC: enum.TimeInForce_IMMEDIATE_OR_CANCEL,
	}
)

// ----- Pool setup -----

// MessagePool recycles quickfix messages; one execution report is built per
// fill per side, so this path allocates on every trade otherwise.
type MessagePool struct {
	pool sync.Pool
}

func NewMessagePool() *MessagePool {
	return &MessagePool{
		pool: sync.Pool{
			New: func() interface{} {
				m := quickfix.NewMessage()
				resetMessage(m)
				return m
			},
		},
	}
}

// Get returns a reset message from the pool
func (mp *MessagePool) Get() *quickfix.Message {
	m := mp.pool.Get().(*quickfix.Message)
	resetMessage(m)
	return m
}

// Put returns a message to the pool
func (mp *MessagePool) Put(m *quickfix.Message) {
	resetMessage(m)
	mp.pool.Put(m)
}

func resetMessage(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
	m.Header.Clear()
	m.Body.Clear()
	m.Trailer.Clear()
}

var execReportPool = NewMessagePool()

func buildExecutionReport(order model.Order, msg *quickfix.Message) executionreport.ExecutionReport {
	execReportMsg := executionreport.FromMessage(msg)

	execReportMsg.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	execReportMsg.SetOrderID(order.OrderID)
	execReportMsg.SetExecID(order.ExecID)
	execReportMsg.SetExecType(ExecTypeMapping[order.ExecType])
	execReportMsg.SetOrdStatus(OrderStatusMapping[order.Status])
	execReportMsg.SetSide(SideMapping[order.Side])
	execReportMsg.SetLeavesQty(order.LeavesQuantity, 0)
	execReportMsg.SetCumQty(order.CumQuantity, 0)
	execReportMsg.SetAvgPx(order.AvgPrice, 4)

	execReportMsg.SetClOrdID(order.GatewayID)
	if order.OrigGatewayID != "" {
		execReportMsg.SetOrigClOrdID(order.OrigGatewayID)
	}
	execReportMsg.SetSymbol(order.Symbol)
	execReportMsg.SetAccount(order.Account)
	execReportMsg.SetOrderQty(order.Quantity, 0)
	execReportMsg.SetPrice(order.Price, 4)
	if tif, ok := TimeInForceMapping[order.TimeInForce]; ok {
		execReportMsg.SetTimeInForce(tif)
	}
	execReportMsg.SetTransactTime(order.TransactTime)
	if order.LastQuantity.IsPositive() {
		execReportMsg.SetLastQty(order.LastQuantity, 0)
		execReportMsg.SetLastPx(order.LastPrice, 4)
	}
	if order.Text != "" {
		execReportMsg.SetText(order.Text)
	}

	return execReportMsg
}

func orderReportToExecutionReport(order model.Order, sessionID *quickfix.SessionID) error {
	msg := execReportPool.Get()
	execReportMsg := buildExecutionReport(order, msg)

	err := quickfix.SendToTarget(execReportMsg, *sessionID)

	execReportPool.Put(msg)
	return err
}

func sendOrderCancelReject(clOrdID, origClOrdID string, responseTo enum.CxlRejResponseTo, text string, sessionID *quickfix.SessionID) error {
	reject := ordercancelreject.New(
		field.NewOrderID("NONE"),
		field.NewClOrdID(clOrdID),
		field.NewOrigClOrdID(origClOrdID),
		field.NewOrdStatus(enum.OrdStatus_REJECTED),
		field.NewCxlRejResponseTo(responseTo),
	)
	reject.SetText(text)

	return quickfix.SendToTarget(reject, *sessionID)
}
