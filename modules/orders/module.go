// Package orders provides order management functionality.
// This is the public API for the orders bounded context.
package orders

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rai/order-events-go/modules/orders/application/commands"
	"github.com/rai/order-events-go/modules/orders/application/queries"
	"github.com/rai/order-events-go/modules/orders/domain"
	httphandler "github.com/rai/order-events-go/modules/orders/infrastructure/http"
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/transaction"
)

// Module is the public API for the orders bounded context.
// External communication: HTTP API (RegisterRoutes)
// Cross-module communication: domain events published through EventPublisher
type Module interface {
	// RegisterRoutes registers the module's HTTP routes to the given mux.
	RegisterRoutes(mux *http.ServeMux)
}

// Config holds the module configuration.
type Config struct {
	Repository     domain.OrderRepository
	EventPublisher events.Publisher
	// TxScope wraps load-modify-save sequences. Defaults to transaction.Immediate.
	TxScope transaction.Scope
	Logger  *zap.Logger
}

type module struct {
	handler *httphandler.Handler
}

// New creates a new orders module.
func New(cfg Config) Module {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("module", "orders"))

	createOrderHandler := commands.NewCreateOrderHandler(cfg.Repository, cfg.EventPublisher, logger)
	changeStatusHandler := commands.NewChangeOrderStatusHandler(cfg.Repository, cfg.TxScope, cfg.EventPublisher, logger)

	getOrderHandler := queries.NewGetOrderHandler(cfg.Repository)
	listCustomerOrdersHandler := queries.NewListCustomerOrdersHandler(cfg.Repository)

	return &module{
		handler: httphandler.NewHandler(createOrderHandler, changeStatusHandler, getOrderHandler, listCustomerOrdersHandler),
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux) {
	m.handler.RegisterRoutes(mux)
}
