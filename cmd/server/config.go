package main

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/rai/order-events-go/internal/platform/kafka"
	"github.com/rai/order-events-go/internal/platform/sqlite"
)

// Event transports.
const (
	PublisherConsole = "console"
	PublisherKafka   = "kafka"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds the complete application configuration, loadable from
// environment variables (ORDERS_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"0.0.0.0:3000" usage:"HTTP listen address"`
	Publisher string `default:"console" usage:"Event transport: console or kafka"`
	Storage   string `default:"memory" usage:"Order storage: memory or sqlite"`
	SQLite    sqlite.Config
	Kafka     kafka.Config
	Graceful  GracefulConfig
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from flags in args, environment variables
// and YAML files.
func LoadConfig(args []string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		Args:      args,
		EnvPrefix: "ORDERS",
		Files:     []string{"config.yaml", "/etc/orders/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Publisher {
	case PublisherConsole, PublisherKafka:
	default:
		return errors.Errorf("unknown publisher %q: want %s or %s", c.Publisher, PublisherConsole, PublisherKafka)
	}
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	default:
		return errors.Errorf("unknown storage %q: want %s or %s", c.Storage, StorageMemory, StorageSQLite)
	}
	if c.Publisher == PublisherKafka && !kafka.NewClient(c.Kafka).Enabled() {
		return errors.New("kafka publisher requires at least one broker")
	}
	return nil
}
