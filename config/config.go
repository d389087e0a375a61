package config

import (
	"os"

	postgres_wrapper "github.com/anhtv08/simple-book-order/pkg/infra/postgres"
	redis_wrapper "github.com/anhtv08/simple-book-order/pkg/infra/redis"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ServiceName string   `yaml:"service_name"`
	Symbols     []string `yaml:"symbols"`

	LedgerDB *postgres_wrapper.PostgresConfig `yaml:"ledger_db"`
	Redis    *redis_wrapper.RedisConfig       `yaml:"redis"`

	Kafka      *KafkaConfig      `yaml:"kafka"`
	Nats       *NatsConfig       `yaml:"nats"`
	Fix        *FixConfig        `yaml:"fix"`
	Marketdata *MarketdataConfig `yaml:"marketdata"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	TradeTopic string   `yaml:"trade_topic"`
	GroupID    string   `yaml:"group_id"`
}

type NatsConfig struct {
	URL     string `yaml:"url"`
	Stream  string `yaml:"stream"`
	Subject string `yaml:"subject"`
	Durable string `yaml:"durable"`
}

type FixConfig struct {
	ConfigFilepath string `yaml:"config_filepath"`
}

type MarketdataConfig struct {
	IntervalMilliseconds int64 `yaml:"interval_ms"`
	DepthLevels          int   `yaml:"depth_levels"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
