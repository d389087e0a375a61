package riskrule

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

func addOrder(symbol string, typ model.OrderType, price float64, qty int64) *model.AddOrder {
	return &model.AddOrder{
		GatewayID: "C1",
		Symbol:    symbol,
		Type:      typ,
		Price:     decimal.NewFromFloat(price),
		Quantity:  decimal.NewFromInt(qty),
	}
}

func TestMaxQuantityRule(t *testing.T) {
	rule := NewMaxQuantityRule(100)

	if err := rule.Check(addOrder("USDSGD", model.OrderTypeLimit, 1.30, 100)); err != nil {
		t.Errorf("qty at cap rejected: %v", err)
	}
	if err := rule.Check(addOrder("USDSGD", model.OrderTypeLimit, 1.30, 101)); err == nil {
		t.Error("qty above cap passed")
	}
	if err := rule.Check(addOrder("USDSGD", model.OrderTypeLimit, 1.30, 0)); err == nil {
		t.Error("zero qty passed")
	}
}

func TestLimitPriceRule(t *testing.T) {
	rule := NewLimitPriceRule()
	rule.SetBand("USDSGD", decimal.NewFromFloat(1.20), decimal.NewFromFloat(1.40))

	if err := rule.Check(addOrder("USDSGD", model.OrderTypeLimit, 1.30, 10)); err != nil {
		t.Errorf("in-band price rejected: %v", err)
	}
	if err := rule.Check(addOrder("USDSGD", model.OrderTypeLimit, 1.45, 10)); err == nil {
		t.Error("price above ceiling passed")
	}
	if err := rule.Check(addOrder("USDSGD", model.OrderTypeLimit, 1.10, 10)); err == nil {
		t.Error("price below floor passed")
	}
	// no band configured -> no rule
	if err := rule.Check(addOrder("USDJPY", model.OrderTypeLimit, 999, 10)); err != nil {
		t.Errorf("unconfigured symbol rejected: %v", err)
	}
	// market orders carry no limit price
	if err := rule.Check(addOrder("USDSGD", model.OrderTypeMarket, 0, 10)); err != nil {
		t.Errorf("market order rejected: %v", err)
	}
}

func TestTickSizeRule(t *testing.T) {
	rule := &TickSizeRule{Config: map[string][]tickSizeConfig{
		"XSES": {
			{MaxPrice: 1000, Step: 5},
			{MaxPrice: 0, Step: 10},
		},
	}}

	ok := addOrder("USDSGD", model.OrderTypeLimit, 995, 10)
	ok.Exchange = "XSES"
	if err := rule.Check(ok); err != nil {
		t.Errorf("on-tick price rejected: %v", err)
	}

	bad := addOrder("USDSGD", model.OrderTypeLimit, 996, 10)
	bad.Exchange = "XSES"
	if err := rule.Check(bad); err == nil {
		t.Error("off-tick price passed")
	}

	big := addOrder("USDSGD", model.OrderTypeLimit, 2000, 10)
	big.Exchange = "XSES"
	if err := rule.Check(big); err != nil {
		t.Errorf("price in upper tier rejected: %v", err)
	}

	other := addOrder("USDSGD", model.OrderTypeLimit, 996, 10)
	other.Exchange = "NOCFG"
	if err := rule.Check(other); err != nil {
		t.Errorf("unconfigured exchange rejected: %v", err)
	}
}
