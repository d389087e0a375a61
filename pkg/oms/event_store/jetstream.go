package eventstore

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

// JetStreamEventStore keeps the in-memory chain for lookups and publishes
// every event to a JetStream subject for the persistence worker. Publishes
// are async; the matching path never waits on the broker.
type JetStreamEventStore struct {
	*InMemoryEventStore

	js      nats.JetStreamContext
	subject string
}

type JetStreamConfig struct {
	Stream  string
	Subject string
}

func NewJetStreamEventStore(js nats.JetStreamContext, cfg *JetStreamConfig) (*JetStreamEventStore, error) {
	// Ensure the stream exists; AddStream is idempotent for a matching config.
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject},
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return nil, err
	}

	return &JetStreamEventStore{
		InMemoryEventStore: NewInMemoryEventStore(),
		js:                 js,
		subject:            cfg.Subject,
	}, nil
}

func (s *JetStreamEventStore) AddEvent(ev *model.OrderEvent) {
	s.InMemoryEventStore.AddEvent(ev)

	data, err := json.Marshal(ev)
	if err != nil {
		zap.S().Errorf("marshal order event %s fail: %v", ev.EventID, err)
		return
	}
	if _, err := s.js.PublishAsync(s.subject, data); err != nil {
		zap.S().Errorf("publish order event %s fail: %v", ev.EventID, err)
	}
}
