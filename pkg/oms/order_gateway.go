package oms

import (
	"context"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

// OrderGateway is the client-facing transport. The OMS calls OnOrderReport
// with a stable copy of the order after every state change.
type OrderGateway interface {
	Start(ctx context.Context) error

	// oms to client
	OnOrderReport(ctx context.Context, order model.Order)
}
