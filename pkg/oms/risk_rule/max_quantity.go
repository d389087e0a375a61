package riskrule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

// MaxQuantityRule caps the size of any single order.
type MaxQuantityRule struct {
	max decimal.Decimal
}

func NewMaxQuantityRule(max int64) *MaxQuantityRule {
	return &MaxQuantityRule{max: decimal.NewFromInt(max)}
}

func (r *MaxQuantityRule) Check(add *model.AddOrder) error {
	if !add.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive")
	}
	if add.Quantity.GreaterThan(r.max) {
		return fmt.Errorf("quantity %s exceeds max %s", add.Quantity, r.max)
	}
	return nil
}
