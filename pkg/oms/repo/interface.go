package repo

import (
	"context"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

type IOrderEvent interface {
	Create(ctx context.Context, record *model.OrderEvent) (*model.OrderEvent, error)
	BulkCreate(ctx context.Context, records []*model.OrderEvent) ([]*model.OrderEvent, error)
}

type ITrade interface {
	Create(ctx context.Context, record *model.TradeRecord) (*model.TradeRecord, error)
	BulkCreate(ctx context.Context, records []*model.TradeRecord) ([]*model.TradeRecord, error)
}
