package worker

import (
	"context"
	"encoding/json"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
	"github.com/anhtv08/simple-book-order/pkg/oms/repo"
	"github.com/anhtv08/simple-book-order/pkg/tradefeed"
)

// Worker drains the order-event stream and the trade feed into the ledger
// database. It runs out of process so persistence never sits on the
// matching path.
type Worker struct {
	orderEvent repo.IOrderEvent
	trade      repo.ITrade
}

func NewWorker(repo repo.IRepo) *Worker {
	return &Worker{
		orderEvent: repo.OrderEvent(),
		trade:      repo.Trade(),
	}
}

// StartEventConsumer pulls order events from JetStream and persists them.
// Messages that fail to persist are not acked and redeliver.
func (w *Worker) StartEventConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	cons, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := cons.Fetch(10, nats.Context(ctx))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nats.ErrTimeout {
				zap.S().Warnw("fetch order events fail", "err", err)
			}
			continue
		}

		for _, msg := range msgs {
			var ev model.OrderEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				zap.S().Warnw("unmarshal order event fail", "err", err)
				_ = msg.Ack()
				continue
			}
			if err := w.handleEvent(ctx, &ev); err != nil {
				zap.S().Warnw("persist order event fail", "event_id", ev.EventID, "err", err)
				continue
			}
			_ = msg.Ack()
		}
	}
}

// StartTradeConsumer drains the kafka trade feed into the trades table.
func (w *Worker) StartTradeConsumer(ctx context.Context, consumer *tradefeed.Consumer) error {
	return consumer.Run(ctx, func(ctx context.Context, trade *model.TradeRecord) error {
		_, err := w.trade.Create(ctx, trade)
		return err
	})
}

func (w *Worker) handleEvent(ctx context.Context, ev *model.OrderEvent) error {
	_, err := w.orderEvent.Create(ctx, ev)
	return err
}
