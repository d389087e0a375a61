package model

import "time"

// TradeRecord is the persisted form of one execution, published on the
// trade feed and written to the ledger by the worker.
type TradeRecord struct {
	TradeID     string    `gorm:"column:trade_id;primaryKey" json:"trade_id"`
	Symbol      string    `gorm:"column:symbol" json:"symbol"`
	BuyOrderID  string    `gorm:"column:buy_order_id" json:"buy_order_id"`
	SellOrderID string    `gorm:"column:sell_order_id" json:"sell_order_id"`
	Qty         int64     `gorm:"column:qty" json:"qty"`
	Price       float64   `gorm:"column:price" json:"price"`
	ExecutedAt  time.Time `gorm:"column:executed_at" json:"executed_at"`
}

func (TradeRecord) TableName() string {
	return "trades"
}
