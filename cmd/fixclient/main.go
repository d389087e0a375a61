package main

import (
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	fix44cxl "github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/shopspring/decimal"
)

type InitiatorApp struct {
	sessionID *quickfix.SessionID
}

func (a *InitiatorApp) OnCreate(sessionID quickfix.SessionID) {
	a.sessionID = &sessionID
}

func (a *InitiatorApp) OnLogon(sessionID quickfix.SessionID) {
	log.Println("Logon success", sessionID)
	sendCrossingLimitOrders(sessionID)
	sendMarketOrder(sessionID)
	sendRestThenCancel(sessionID)
}

func (a *InitiatorApp) OnLogout(sessionID quickfix.SessionID)                       {}
func (a *InitiatorApp) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}
func (a *InitiatorApp) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}
func (a *InitiatorApp) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}
func (a *InitiatorApp) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	log.Println("Report:", msg.String())
	return nil
}

func newLimit(sessionID quickfix.SessionID, side enum.Side, price, qty int64) fix44nos.NewOrderSingle {
	order := fix44nos.New(
		field.NewClOrdID(randSeq(17)),
		field.NewSide(side),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_LIMIT))
	order.SetSymbol("USDSGD")
	order.SetAccount("011C399158")
	order.SetPrice(decimal.NewFromInt(price), 0)
	order.SetOrderQty(decimal.NewFromInt(qty), 0)
	order.SetTimeInForce(enum.TimeInForce_DAY)
	order.SetSenderCompID(sessionID.SenderCompID)
	order.SetTargetCompID(sessionID.TargetCompID)
	return order
}

// Two limit orders at the same price; the second crosses and prints.
func sendCrossingLimitOrders(sessionID quickfix.SessionID) {
	orderBuy := newLimit(sessionID, enum.Side_BUY, 14700, 10000)
	log.Println(quickfix.Send(orderBuy))

	orderSell := newLimit(sessionID, enum.Side_SELL, 14700, 50000)
	log.Println(quickfix.Send(orderSell))
}

// A market buy sweeps whatever the sell side still holds.
func sendMarketOrder(sessionID quickfix.SessionID) {
	order := fix44nos.New(
		field.NewClOrdID(randSeq(17)),
		field.NewSide(enum.Side_BUY),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_MARKET))
	order.SetSymbol("USDSGD")
	order.SetAccount("011C399158")
	order.SetOrderQty(decimal.NewFromInt(5000), 0)
	order.SetSenderCompID(sessionID.SenderCompID)
	order.SetTargetCompID(sessionID.TargetCompID)
	log.Println(quickfix.Send(order))
}

// Rest an order away from the market, then cancel it by OrigClOrdID.
func sendRestThenCancel(sessionID quickfix.SessionID) {
	origClOrdID := randSeq(17)
	order := newLimit(sessionID, enum.Side_BUY, 14000, 1000)
	order.SetClOrdID(origClOrdID)
	log.Println(quickfix.Send(order))

	cancel := fix44cxl.New(
		field.NewOrigClOrdID(origClOrdID),
		field.NewClOrdID(randSeq(17)),
		field.NewSide(enum.Side_BUY),
		field.NewTransactTime(time.Now()))
	cancel.SetSymbol("USDSGD")
	cancel.SetSenderCompID(sessionID.SenderCompID)
	cancel.SetTargetCompID(sessionID.TargetCompID)
	log.Println(quickfix.Send(cancel))
}

func main() {
	cfgPath := os.Args[1]
	log.Println("cfgPath:", cfgPath)
	app := &InitiatorApp{}

	cfg, err := os.Open(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cfg.Close() // nolint

	settings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		log.Fatal(err)
	}

	storeFactory := quickfix.NewMemoryStoreFactory()
	logFactory, _ := file.NewLogFactory(settings)
	initiator, err := quickfix.NewInitiator(app, storeFactory, settings, logFactory)
	if err != nil {
		log.Fatal(err)
	}
	err = initiator.Start()
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Initiator started...")
	select {}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func randSeq(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
