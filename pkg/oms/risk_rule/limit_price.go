package riskrule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

type limitPrice struct {
	ceil  decimal.Decimal
	floor decimal.Decimal
}

// LimitPriceRule rejects limit orders priced outside the configured band
// of their symbol. Symbols without a band and market orders pass.
type LimitPriceRule struct {
	prices map[string]*limitPrice
}

func NewLimitPriceRule() *LimitPriceRule {
	return &LimitPriceRule{
		prices: make(map[string]*limitPrice),
	}
}

func (r *LimitPriceRule) SetBand(symbol string, floor, ceil decimal.Decimal) {
	r.prices[symbol] = &limitPrice{floor: floor, ceil: ceil}
}

func (r *LimitPriceRule) Check(add *model.AddOrder) error {
	if add.Type != model.OrderTypeLimit {
		return nil
	}
	band, ok := r.prices[add.Symbol]
	if !ok {
		return nil
	}
	if add.Price.GreaterThan(band.ceil) || add.Price.LessThan(band.floor) {
		return fmt.Errorf("price limit violation")
	}
	return nil
}
