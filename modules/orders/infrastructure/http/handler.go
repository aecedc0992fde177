// Package http provides HTTP handlers for the orders module.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rai/order-events-go/modules/orders/application/commands"
	"github.com/rai/order-events-go/modules/orders/application/queries"
	"github.com/rai/order-events-go/modules/orders/domain"
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/types"
)

type Handler struct {
	createOrder  *commands.CreateOrderHandler
	changeStatus *commands.ChangeOrderStatusHandler
	getOrder     *queries.GetOrderHandler
	listOrders   *queries.ListCustomerOrdersHandler
}

func NewHandler(
	createOrder *commands.CreateOrderHandler,
	changeStatus *commands.ChangeOrderStatusHandler,
	getOrder *queries.GetOrderHandler,
	listOrders *queries.ListCustomerOrdersHandler,
) *Handler {
	return &Handler{
		createOrder:  createOrder,
		changeStatus: changeStatus,
		getOrder:     getOrder,
		listOrders:   listOrders,
	}
}

// RegisterRoutes registers the orders module routes to the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.handleCreateOrder)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("POST /orders/{id}/{action}", h.handleChangeStatus)
	mux.HandleFunc("GET /customers/{customerId}/orders", h.handleListCustomerOrders)
}

// Request/Response DTOs

type orderItemRequest struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
	Currency  string      `json:"currency,omitempty"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customerId"`
	Items      []orderItemRequest `json:"items"`
}

type createOrderResponse struct {
	OrderID     string      `json:"orderId"`
	TotalAmount json.Number `json:"totalAmount"`
	Currency    string      `json:"currency"`
}

type orderItemResponse struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

type orderResponse struct {
	OrderID     string              `json:"orderId"`
	CustomerID  string              `json:"customerId"`
	Status      string              `json:"status"`
	TotalAmount json.Number         `json:"totalAmount"`
	Currency    string              `json:"currency"`
	Items       []orderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type statusResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handlers

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.CreateOrderCommand{CustomerID: req.CustomerID}
	for _, item := range req.Items {
		price, err := decimal.NewFromString(item.Price.String())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid item price")
			return
		}
		cmd.Items = append(cmd.Items, commands.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
			Currency:  item.Currency,
		})
	}

	res, err := h.createOrder.Handle(r.Context(), cmd)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		OrderID:     res.OrderID,
		TotalAmount: json.Number(res.TotalAmount.String()),
		Currency:    res.Currency,
	})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	order, err := h.getOrder.Handle(r.Context(), queries.GetOrderQuery{OrderID: id})
	if err != nil {
		handleError(w, r, err)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order with ID "+id+" not found")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	cmd := commands.ChangeOrderStatusCommand{
		OrderID: r.PathValue("id"),
		Action:  commands.Action(r.PathValue("action")),
	}

	status, err := h.changeStatus.Handle(r.Context(), cmd)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{OrderID: cmd.OrderID, Status: status.String()})
}

func (h *Handler) handleListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	query := queries.ListCustomerOrdersQuery{CustomerID: r.PathValue("customerId")}

	orders, err := h.listOrders.Handle(r.Context(), query)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, order := range orders {
		resp[i] = toOrderResponse(order)
	}
	writeJSON(w, http.StatusOK, resp)
}

func toOrderResponse(order *queries.OrderDTO) orderResponse {
	items := make([]orderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     json.Number(item.Price.String()),
		}
	}
	return orderResponse{
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		TotalAmount: json.Number(order.TotalAmount.String()),
		Currency:    order.Currency,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
}

// Helper functions

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, events.ErrPublication):
		zctx.From(r.Context()).Error("Event publication failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "event publication failed")
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
