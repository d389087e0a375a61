package oms

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	eventstore "github.com/anhtv08/simple-book-order/pkg/oms/event_store"
	"github.com/anhtv08/simple-book-order/pkg/oms/model"
	riskrule "github.com/anhtv08/simple-book-order/pkg/oms/risk_rule"
	"github.com/anhtv08/simple-book-order/pkg/orderbook"
	"github.com/anhtv08/simple-book-order/pkg/tradefeed"
)

// OMS sits between the client gateway and the matching core. It owns the
// order-of-record state: gateway-ID deduplication, risk checks, the event
// trail and client execution reports.
type OMS struct {
	orderGateway OrderGateway
	books        *orderbook.Manager
	eventstore   eventstore.EventStore
	tradeFeed    *tradefeed.Producer
	rules        []riskrule.RiskRule

	orderIDMapping sync.Map
	stopCh         chan struct{}
}

var totalMatchQty int64 = 0
var totalMatchCount int64 = 0

type Option func(*OMS)

// WithEventStore replaces the default in-memory event store.
func WithEventStore(es eventstore.EventStore) Option {
	return func(s *OMS) { s.eventstore = es }
}

// WithRiskRules installs the pre-trade checks, run in order.
func WithRiskRules(rules ...riskrule.RiskRule) Option {
	return func(s *OMS) { s.rules = rules }
}

// WithTradeFeed publishes every execution to the feed.
func WithTradeFeed(p *tradefeed.Producer) Option {
	return func(s *OMS) { s.tradeFeed = p }
}

func NewOMS(orderGateway OrderGateway, opts ...Option) *OMS {
	oms := &OMS{
		orderGateway: orderGateway,
		books:        orderbook.NewManager(),
		eventstore:   eventstore.NewInMemoryEventStore(),
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(oms)
	}
	go oms.startCleaner(10 * time.Second)

	return oms
}

func (s *OMS) Start(ctx context.Context) {
	s.orderGateway.Start(ctx)
}

func (s *OMS) Stop() {
	close(s.stopCh)
}

// Books exposes the matching core's query surface (best bid/ask, spread,
// depth) for market data publishers.
func (s *OMS) Books() *orderbook.Manager {
	return s.books
}

func (s *OMS) AddOrder(ctx context.Context, addOrder *model.AddOrder) error {
	if s.eventstore.GetOrderID(addOrder.GatewayID) != "" {
		return errDuplicateOrder
	}

	order := &model.Order{}
	order.UpdateAddOrder(addOrder, uuid.NewString())

	for _, rule := range s.rules {
		if err := rule.Check(addOrder); err != nil {
			s.reject(ctx, order, err.Error())
			return fmt.Errorf("%w: %v", errRiskCheckFailed, err)
		}
	}

	s.AddOrderToMap(order)

	trades, err := s.books.SubmitOrder(orderbook.NewOrder(
		order.OrderID,
		order.Symbol,
		orderbook.Side(order.Side),
		orderbook.Strategy(order.Type),
		order.Price.InexactFloat64(),
		order.Quantity.IntPart(),
		order.TransactTime,
	))
	if err != nil {
		s.DeleteOrderByOrderID(order.OrderID)
		s.reject(ctx, order, err.Error())
		return err
	}

	// book success -> report the order as accepted before its fills
	bkOrder := *order
	now := time.Now()
	s.eventstore.AddEvent(model.NewOrderEvent(bkOrder, now))
	s.orderGateway.OnOrderReport(ctx, bkOrder)

	s.processTrades(ctx, trades)

	return nil
}

func (s *OMS) CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error {
	orderID := s.eventstore.GetOrderID(cancelOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return errGatewayIDNotFound
	}

	if !order.CanCancel() {
		return errInvalidOrderStatus
	}

	removed, err := s.books.Cancel(order.Symbol, order.OrderID)
	if err != nil {
		zap.S().Errorw("book inconsistency on cancel", "order_id", order.OrderID, "err", err)
		return err
	}
	if !removed {
		// Filled between the status check and the cancel; the fills stand.
		return errInvalidOrderStatus
	}

	order.UpdateCancelOrder(cancelOrder)

	bkOrder := *order
	now := time.Now()
	s.eventstore.AddEvent(model.NewOrderEvent(bkOrder, now))
	s.orderGateway.OnOrderReport(ctx, bkOrder)

	return nil
}

// ModifyOrder is not supported: cancel/re-enter is the only way to change
// a live order. The gateway turns this into a reject for the client.
func (s *OMS) ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error {
	return errAmendNotSupported
}

func (s *OMS) reject(ctx context.Context, order *model.Order, text string) {
	order.UpdateReject(text)
	bkOrder := *order
	s.eventstore.AddEvent(model.NewOrderEvent(bkOrder, time.Now()))
	s.orderGateway.OnOrderReport(ctx, bkOrder)
}

func (s *OMS) processTrades(ctx context.Context, trades []*orderbook.Trade) {
	for _, t := range trades {
		atomic.AddInt64(&totalMatchQty, t.Qty)
		if atomic.AddInt64(&totalMatchCount, 1)%10000 == 0 {
			zap.S().Infof("TotalMatchCount: %d, TotalMatchQty: %d",
				atomic.LoadInt64(&totalMatchCount), atomic.LoadInt64(&totalMatchQty))
		}

		if s.tradeFeed != nil {
			record := &model.TradeRecord{
				TradeID:     t.ID,
				Symbol:      t.Symbol,
				BuyOrderID:  t.BuyOrderID,
				SellOrderID: t.SellOrderID,
				Qty:         t.Qty,
				Price:       t.Price,
				ExecutedAt:  t.ExecutedAt,
			}
			if err := s.tradeFeed.PublishTrade(ctx, record); err != nil {
				zap.S().Warnw("publish trade fail", "trade_id", t.ID, "err", err)
			}
		}

		s.applyFill(ctx, t.BuyOrderID, t)
		s.applyFill(ctx, t.SellOrderID, t)
	}
}

func (s *OMS) applyFill(ctx context.Context, orderID string, t *orderbook.Trade) {
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		zap.S().Warnf("match orderID=%s not found", orderID)
		return
	}

	order.UpdateTrade(t.Qty, t.Price)
	bkOrder := *order
	s.eventstore.AddEvent(model.NewOrderEvent(bkOrder, t.ExecutedAt))
	s.orderGateway.OnOrderReport(ctx, bkOrder)
}
