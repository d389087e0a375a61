package riskrule

import "github.com/anhtv08/simple-book-order/pkg/oms/model"

// RiskRule vets an incoming order before it reaches the matching core.
// A non-nil error rejects the order; nothing is booked.
type RiskRule interface {
	Check(add *model.AddOrder) error
}
