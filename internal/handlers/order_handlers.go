package handlers

import (
	"net/http"
	"strconv"

	"commercehub/internal/common"
	"commercehub/internal/middleware"
	"commercehub/internal/services"

	"github.com/labstack/echo/v4"
)

type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrder handles POST /sales/orders. The full actor is needed here so
// the order records who placed it.
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), actor, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /sales/orders/:id.
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /sales/orders with optional ?status= filtering.
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	orders, err := h.orderService.ListOrders(c.Request().Context(), tenantID, c.QueryParam("status"), limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

// UpdateOrder handles PUT /sales/orders/:id.
func (h *OrderHandlers) UpdateOrder(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req services.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	order, err := h.orderService.UpdateOrder(c.Request().Context(), tenantID, id, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ReplaceItems handles PUT /sales/orders/:id/items.
func (h *OrderHandlers) ReplaceItems(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req services.ReplaceOrderItemsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	order, err := h.orderService.ReplaceOrderItems(c.Request().Context(), tenantID, id, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /sales/orders/:id.
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.orderService.DeleteOrder(c.Request().Context(), tenantID, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
