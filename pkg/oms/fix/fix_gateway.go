package fixgateway

import (
	"context"
	"log"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"

	"github.com/anhtv08/simple-book-order/pkg/oms"
	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

// FixGateway bridges FIX sessions and the OMS: inbound messages become
// typed OMS requests, order state changes go back as execution reports.
type FixGateway struct {
	cfg         *FixGatewayConfig
	app         *Application
	omsInstance oms.IOMS

	requestMapping sync.Map // ClOrdID -> *quickfix.SessionID
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	fm := &FixGateway{
		cfg:            cfg,
		requestMapping: sync.Map{},
	}

	return fm
}

func (s *FixGateway) AddOmsInstance(o oms.IOMS) {
	s.omsInstance = o
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		log.Printf("start app err=%v", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

func (s *FixGateway) AddOrder(ctx context.Context, newOrderSingle *NewOrderSingle) {
	orderType := map[enum.OrdType]model.OrderType{
		enum.OrdType_LIMIT:  model.OrderTypeLimit,
		enum.OrdType_MARKET: model.OrderTypeMarket,
	}[newOrderSingle.OrdType]

	timeInForce := map[enum.TimeInForce]model.OrderTimeInForce{
		enum.TimeInForce_DAY:                 model.OrderTimeInForceDAY,
		enum.TimeInForce_FILL_OR_KILL:        model.OrderTimeInForceFOK,
		enum.TimeInForce_GOOD_TILL_CANCEL:    model.OrderTimeInForceGTC,
		enum.TimeInForce_IMMEDIATE_OR_CANCEL: model.OrderTimeInForceIOC,
	}[newOrderSingle.TimeInForce]

	side := map[enum.Side]model.OrderSide{
		enum.Side_BUY:  model.OrderSideBuy,
		enum.Side_SELL: model.OrderSideSell,
	}[newOrderSingle.Side]

	s.AddRequestToMap(newOrderSingle.ClOrdID, newOrderSingle.SessionID)

	err := s.omsInstance.AddOrder(ctx, &model.AddOrder{
		GatewayID:    newOrderSingle.ClOrdID,
		Account:      newOrderSingle.Account,
		Symbol:       newOrderSingle.Symbol,
		SecurityID:   newOrderSingle.SecurityID,
		Type:         orderType,
		Price:        newOrderSingle.Price,
		TimeInForce:  timeInForce,
		Side:         side,
		TransactTime: newOrderSingle.TransactTime,
		Quantity:     newOrderSingle.OrderQty,
	})
	if err != nil {
		log.Printf("add order clOrdID=%s err=%v", newOrderSingle.ClOrdID, err)
	}
}

func (s *FixGateway) CancelOrder(ctx context.Context, orderCancelRequest *OrderCancelRequest) {
	s.AddRequestToMap(orderCancelRequest.ClOrdID, orderCancelRequest.SessionID)

	err := s.omsInstance.CancelOrder(ctx, &model.CancelOrder{
		GatewayID:     orderCancelRequest.ClOrdID,
		OrigGatewayID: orderCancelRequest.OrigClOrdID,
	})
	if err != nil {
		s.sendCancelReject(orderCancelRequest.ClOrdID, orderCancelRequest.OrigClOrdID,
			enum.CxlRejResponseTo_ORDER_CANCEL_REQUEST, err.Error(), orderCancelRequest.SessionID)
	}
}

// ModifyOrder always ends in a reject: the OMS does not amend live orders.
func (s *FixGateway) ModifyOrder(ctx context.Context, req *OrderCancelReplaceRequest) {
	s.AddRequestToMap(req.ClOrdID, req.SessionID)

	err := s.omsInstance.ModifyOrder(ctx,
		&model.ModifyOrder{
			NewPrice:      req.Price,
			NewQuantity:   req.OrderQty,
			GatewayID:     req.ClOrdID,
			OrigGatewayID: req.OrigClOrdID,
		})
	if err != nil {
		s.sendCancelReject(req.ClOrdID, req.OrigClOrdID,
			enum.CxlRejResponseTo_ORDER_CANCEL_REPLACE_REQUEST, err.Error(), req.SessionID)
	}
}

func (s *FixGateway) OnOrderReport(ctx context.Context, order model.Order) {
	sessionID, err := s.GetRequestByClOrdID(order.GatewayID)
	if err != nil {
		log.Printf("report clOrdID=%s not found", order.GatewayID)
		return
	}

	go func() {
		if err := orderReportToExecutionReport(order, sessionID); err != nil {
			log.Printf("send report orderID=%s err=%v", order.OrderID, err)
		}
	}()
}

func (s *FixGateway) sendCancelReject(clOrdID, origClOrdID string, responseTo enum.CxlRejResponseTo, text string, sessionID *quickfix.SessionID) {
	go func() {
		if err := sendOrderCancelReject(clOrdID, origClOrdID, responseTo, text, sessionID); err != nil {
			log.Printf("send cancel reject clOrdID=%s err=%v", clOrdID, err)
		}
	}()
}

func (s *FixGateway) AddRequestToMap(clOrdID string, sessionID *quickfix.SessionID) {
	s.requestMapping.Store(clOrdID, sessionID)
}

func (s *FixGateway) GetRequestByClOrdID(clOrdID string) (*quickfix.SessionID, error) {
	v, ok := s.requestMapping.Load(clOrdID)
	if !ok {
		return nil, errClOrdIDNotFound
	}
	return v.(*quickfix.SessionID), nil
}
