// Package tradefeed publishes executed trades to Kafka and runs consumers
// that drain the topic, keyed by symbol so one instrument's prints stay
// ordered within a partition.
package tradefeed

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchBytes   int64
	BatchTimeout time.Duration
}

type Producer struct {
	w     *kafka.Writer
	topic string
}

func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = 1 << 20
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireNone,
		Async:                  true,
	}
	return &Producer{w: wr, topic: cfg.Topic}
}

// PublishTrade writes one execution to the feed, keyed by symbol.
func (p *Producer) PublishTrade(ctx context.Context, trade *model.TradeRecord) error {
	if p == nil || p.w == nil {
		return errors.New("producer not initialized")
	}
	b, err := json.Marshal(trade)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   hashKey(trade.Symbol),
		Value: b,
		Time:  trade.ExecutedAt,
	})
}

func (p *Producer) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

type ConsumerConfig struct {
	Brokers    []string
	GroupID    string
	Topic      string
	MaxRetries int
	BackoffMin time.Duration
	BackoffMax time.Duration
}

type Consumer struct {
	r   *kafka.Reader
	cfg ConsumerConfig
}

func NewConsumer(cfg ConsumerConfig) *Consumer {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffMin == 0 {
		cfg.BackoffMin = 100 * time.Millisecond
	}
	if cfg.BackoffMax == 0 {
		cfg.BackoffMax = 10 * time.Second
	}

	rd := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})

	return &Consumer{r: rd, cfg: cfg}
}

func (c *Consumer) Close() error {
	if c == nil || c.r == nil {
		return nil
	}
	return c.r.Close()
}

// Run fetches trades one at a time and hands them to the handler, retrying
// with exponential backoff before giving up on a message.
func (c *Consumer) Run(ctx context.Context, handler func(context.Context, *model.TradeRecord) error) error {
	if c == nil || c.r == nil {
		return errors.New("consumer not initialized")
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			time.Sleep(200 * time.Millisecond)
			continue
		}

		var trade model.TradeRecord
		if err := json.Unmarshal(m.Value, &trade); err != nil {
			// A malformed message never becomes valid; commit and move on.
			_ = c.r.CommitMessages(ctx, m)
			continue
		}

		var attempt int
		for {
			err := handler(ctx, &trade)
			if err == nil {
				_ = c.r.CommitMessages(ctx, m)
				break
			}
			attempt++
			if attempt > c.cfg.MaxRetries {
				_ = c.r.CommitMessages(ctx, m)
				break
			}
			select {
			case <-time.After(backoffDuration(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func backoffDuration(min, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	pow := math.Pow(2, float64(attempt-1))
	d := time.Duration(float64(min) * pow)
	if d > max {
		d = max
	}
	if d > 0 {
		d = time.Duration(rand.Int63n(int64(d)))
	}
	return d
}

func hashKey(s string) []byte {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	sum := h.Sum64()
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	return b
}
