package main

import (
	"context"
	"encoding/json"
	"flag"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/anhtv08/simple-book-order/config"
	postgres_wrapper "github.com/anhtv08/simple-book-order/pkg/infra/postgres"
	"github.com/anhtv08/simple-book-order/pkg/logging"
	"github.com/anhtv08/simple-book-order/pkg/oms/repo"
	"github.com/anhtv08/simple-book-order/pkg/oms/worker"
	"github.com/anhtv08/simple-book-order/pkg/tradefeed"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	logger, err := logging.Init(cfg.ServiceName+"-worker", logging.INFO)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx := context.Background()

	// init db
	db := postgres_wrapper.InitPostgresWithBackoff(cfg.LedgerDB)

	// init repo
	sqlRepo := repo.NewRepo(db)

	w := worker.NewWorker(sqlRepo)

	// order events from JetStream
	if cfg.Nats != nil {
		nc, err := nats.Connect(cfg.Nats.URL)
		if err != nil {
			zap.S().Fatalf("connect nats fail: %v", err)
		}
		defer nc.Close()
		js, err := nc.JetStream()
		if err != nil {
			zap.S().Fatalf("jetstream fail: %v", err)
		}
		_, _ = js.AddStream(&nats.StreamConfig{
			Name:     cfg.Nats.Stream,
			Subjects: []string{cfg.Nats.Subject},
		})
		go func() {
			if err := w.StartEventConsumer(ctx, js, cfg.Nats.Subject, cfg.Nats.Durable); err != nil {
				zap.S().Errorf("event consumer stopped: %v", err)
			}
		}()
	}

	// trades from kafka
	if cfg.Kafka != nil {
		consumer := tradefeed.NewConsumer(tradefeed.ConsumerConfig{
			Brokers:    cfg.Kafka.Brokers,
			GroupID:    cfg.Kafka.GroupID,
			Topic:      cfg.Kafka.TradeTopic,
			MaxRetries: 3,
		})
		defer consumer.Close() // nolint
		go func() {
			if err := w.StartTradeConsumer(ctx, consumer); err != nil {
				zap.S().Errorf("trade consumer stopped: %v", err)
			}
		}()
	}

	select {}
}
