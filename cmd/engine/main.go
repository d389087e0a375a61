package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/anhtv08/simple-book-order/config"
	redis_wrapper "github.com/anhtv08/simple-book-order/pkg/infra/redis"
	"github.com/anhtv08/simple-book-order/pkg/logging"
	"github.com/anhtv08/simple-book-order/pkg/marketdata"
	"github.com/anhtv08/simple-book-order/pkg/oms"
	eventstore "github.com/anhtv08/simple-book-order/pkg/oms/event_store"
	fixgateway "github.com/anhtv08/simple-book-order/pkg/oms/fix"
	riskrule "github.com/anhtv08/simple-book-order/pkg/oms/risk_rule"
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

	logger, err := logging.Init(cfg.ServiceName, logging.INFO)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	opts := []oms.Option{
		oms.WithRiskRules(riskrule.NewMaxQuantityRule(1_000_000)),
	}

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
		es, err := eventstore.NewJetStreamEventStore(js, &eventstore.JetStreamConfig{
			Stream:  cfg.Nats.Stream,
			Subject: cfg.Nats.Subject,
		})
		if err != nil {
			zap.S().Fatalf("init event store fail: %v", err)
		}
		opts = append(opts, oms.WithEventStore(es))
	}

	if cfg.Kafka != nil {
		producer := tradefeed.NewProducer(tradefeed.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.TradeTopic,
		})
		defer producer.Close() // nolint
		opts = append(opts, oms.WithTradeFeed(producer))
	}

	fixGateway := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
		ConfigFilepath: cfg.Fix.ConfigFilepath,
	})
	omsInstance := oms.NewOMS(fixGateway, opts...)
	fixGateway.AddOmsInstance(omsInstance)
	omsInstance.Start(ctx)

	if cfg.Redis != nil && cfg.Marketdata != nil {
		rdb, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			zap.S().Fatalf("init redis fail: %v", err)
		}
		publisher := marketdata.NewPublisher(rdb, omsInstance.Books(), marketdata.PublisherConfig{
			Interval:    millis(cfg.Marketdata.IntervalMilliseconds),
			DepthLevels: cfg.Marketdata.DepthLevels,
		})
		go publisher.Run(ctx) // nolint
	}

	fmt.Println("Matching engine started. Press Ctrl+C to exit.")

	<-sigs
	fmt.Println("Shutting down...")

	omsInstance.Stop()
	fixGateway.Stop()
	cancel()

	fmt.Println("Exited cleanly.")
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
