package commands

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/rai/order-events-go/modules/orders/domain"
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/transaction"
	"github.com/rai/order-events-go/modules/shared/types"
)

// ErrUnknownAction is returned for an action outside confirm, ship, deliver and cancel.
var ErrUnknownAction = errors.New("unknown order action")

// Action names a status change requested by a client.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionShip    Action = "ship"
	ActionDeliver Action = "deliver"
	ActionCancel  Action = "cancel"
)

var actions = map[Action]func(*domain.Order) error{
	ActionConfirm: (*domain.Order).Confirm,
	ActionShip:    (*domain.Order).Ship,
	ActionDeliver: (*domain.Order).Deliver,
	ActionCancel:  (*domain.Order).Cancel,
}

// ChangeOrderStatusCommand moves an order through its lifecycle.
type ChangeOrderStatusCommand struct {
	OrderID string
	Action  Action
}

type ChangeOrderStatusHandler struct {
	repo      domain.OrderRepository
	txScope   transaction.Scope
	publisher events.Publisher
	logger    *zap.Logger
}

func NewChangeOrderStatusHandler(
	repo domain.OrderRepository,
	txScope transaction.Scope,
	publisher events.Publisher,
	logger *zap.Logger,
) *ChangeOrderStatusHandler {
	if txScope == nil {
		txScope = transaction.Immediate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeOrderStatusHandler{
		repo:      repo,
		txScope:   txScope,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle loads the order, applies the action and saves it within one unit of
// work. Events raised by the transition are published after the save.
func (h *ChangeOrderStatusHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (domain.Status, error) {
	apply, ok := actions[cmd.Action]
	if !ok {
		return "", types.NewValidationError("action", errors.Wrapf(ErrUnknownAction, "%q", cmd.Action))
	}

	orderID, err := domain.ParseOrderID(cmd.OrderID)
	if err != nil {
		return "", err
	}

	order, err := transaction.ExecuteWithResult(ctx, h.txScope, func(ctx context.Context) (*domain.Order, error) {
		order, err := h.repo.FindByID(ctx, orderID)
		if err != nil {
			return nil, errors.Wrap(err, "find order")
		}
		if order == nil {
			return nil, errors.Wrapf(domain.ErrOrderNotFound, "order %s", orderID)
		}

		if err := apply(order); err != nil {
			return nil, err
		}

		if err := h.repo.Save(ctx, order); err != nil {
			return nil, errors.Wrap(err, "save order")
		}
		return order, nil
	})
	if err != nil {
		return "", err
	}

	if err := h.publisher.PublishAll(ctx, order.PopUncommittedEvents()); err != nil {
		return "", err
	}

	h.logger.Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("action", string(cmd.Action)),
		zap.String("status", order.Status().String()),
	)
	return order.Status(), nil
}
