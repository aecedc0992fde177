package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rai/order-events-go/internal/platform/eventbus"
	"github.com/rai/order-events-go/internal/platform/httpserver"
	"github.com/rai/order-events-go/internal/platform/kafka"
	"github.com/rai/order-events-go/internal/platform/metrics"
	"github.com/rai/order-events-go/internal/platform/sqlite"
	"github.com/rai/order-events-go/modules/notifications"
	"github.com/rai/order-events-go/modules/orders"
	"github.com/rai/order-events-go/modules/orders/domain"
	"github.com/rai/order-events-go/modules/orders/infrastructure/messaging"
	"github.com/rai/order-events-go/modules/orders/infrastructure/persistence"
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/transaction"
)

// Run builds every dependency, serves HTTP and, when enabled, consumes
// order events until ctx is cancelled. It is the single wiring point.
func Run(ctx context.Context, lg *zap.Logger, tp trace.TracerProvider, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("publisher", cfg.Publisher),
		zap.String("storage", cfg.Storage),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	messagingMetrics := metrics.NewMessaging(reg)

	// Storage.
	var (
		repo    domain.OrderRepository
		txScope transaction.Scope
		db      *sql.DB
	)
	switch cfg.Storage {
	case StorageSQLite:
		var err error
		db, err = sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return errors.Wrap(err, "open sqlite")
		}
		defer func() { _ = db.Close() }()
		lg.Info("SQLite storage ready", zap.String("path", cfg.SQLite.Path))

		repo = persistence.NewSQLiteRepository(db)
		txScope = sqlite.NewTxScope(db)
	default:
		repo = persistence.NewInMemoryRepository()
		txScope = transaction.Immediate
	}

	// Event transport. Subscriptions live in one registry shared by the
	// local bus and the Kafka consumer.
	registry := eventbus.NewEventHandlerRegistry(lg.Named("events"))
	var (
		publisher events.Publisher
		consumer  *kafka.Consumer
	)
	switch cfg.Publisher {
	case PublisherKafka:
		client := kafka.NewClient(cfg.Kafka)
		writer := client.NewWriter()
		defer func() { _ = writer.Close() }()

		publisher = kafka.NewPublisher(writer, messaging.NewRouter(), messaging.NewCodec(), kafka.PublisherOptions{
			Logger:         lg.Named("kafka"),
			TracerProvider: tp,
			Metrics:        messagingMetrics,
		})
		lg.Info("Kafka publisher ready", zap.Strings("brokers", client.Brokers))

		if cfg.Kafka.Consume {
			reader := client.NewReader(messaging.NewRouter().Topics())
			defer func() { _ = reader.Close() }()
			consumer = kafka.NewConsumer(reader, messaging.NewCodec(), registry, lg.Named("consumer"), messagingMetrics)
		}
	default:
		publisher = eventbus.NewWithRegistry(registry, lg.Named("eventbus"))
	}

	// Modules.
	if _, err := notifications.New(notifications.Config{
		EventSubscriber: registry,
		Logger:          lg,
	}); err != nil {
		return errors.Wrap(err, "init notifications")
	}
	ordersModule := orders.New(orders.Config{
		Repository:     repo,
		EventPublisher: publisher,
		TxScope:        txScope,
		Logger:         lg,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler(db))
	mux.Handle("GET /metrics", metrics.Handler(reg))
	ordersModule.RegisterRoutes(mux)

	srvCfg := httpserver.DefaultConfig()
	srvCfg.Addr = cfg.Addr
	srvCfg.ShutdownTimeout = cfg.Graceful.ShutdownTimeout
	server := httpserver.New(srvCfg, httpserver.Wrap(mux,
		httpserver.RequestID(),
		httpserver.InjectLogger(lg),
		httpserver.Recovery(),
		httpserver.LogRequests(),
	), lg)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	if consumer != nil {
		g.Go(func() error {
			return consumer.Run(ctx)
		})
	}
	return g.Wait()
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
