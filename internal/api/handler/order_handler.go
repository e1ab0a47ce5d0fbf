package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/bookstore-api/internal/api/metrics"
	mw "github.com/bookhaven/bookstore-api/internal/api/middleware"
	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/ports"
)

type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type addressRequest struct {
	City    string `json:"city" validate:"required"`
	Country string `json:"country"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

type placeOrderRequest struct {
	Name       string         `json:"name" validate:"required"`
	Email      string         `json:"email" validate:"required,email"`
	Address    addressRequest `json:"address" validate:"required"`
	Phone      string         `json:"phone" validate:"required"`
	ProductIDs []string       `json:"product_ids" validate:"required,min=1"`
	TotalPrice float64        `json:"total_price" validate:"required,gt=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Place creates a new order for the authenticated customer.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      placeOrderRequest  true  "Order details"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	order, err := h.orders.Place(c.Request().Context(), ports.PlaceOrderInput{
		Name:  req.Name,
		Email: req.Email,
		Address: domain.Address{
			City:    req.Address.City,
			Country: req.Address.Country,
			State:   req.Address.State,
			Zipcode: req.Address.Zipcode,
		},
		Phone:      req.Phone,
		ProductIDs: req.ProductIDs,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to place order"})
	}

	metrics.OrdersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, order)
}

// ListByEmail returns the orders placed under an email address. Customers
// can only list their own orders; admins can list any.
//
// @Summary      List orders by email
// @Tags         orders
// @Produce      json
// @Param        email  path      string  true  "Email address"
// @Success      200    {array}   domain.Order
// @Failure      403    {object}  map[string]string
// @Router       /api/orders/email/{email} [get]
func (h *OrderHandler) ListByEmail(c echo.Context) error {
	principal, ok := mw.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	orders, err := h.orders.ListByEmail(c.Request().Context(), principal, c.Param("email"))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list orders"})
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// ListAll returns every order. Admin only.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}  domain.Order
// @Router       /api/admin/orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.orders.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list orders"})
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus applies a lifecycle transition to an order. Admin only.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Order id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  domain.Order
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, domain.ErrInvalidTransition):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update order"})
	}
	return c.JSON(http.StatusOK, order)
}
