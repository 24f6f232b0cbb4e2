package handler

import (
	"net/http"

	"sigrap/internal/authz"
	"sigrap/internal/middleware"
	"sigrap/internal/service"
	"sigrap/pkg/pagination"
	"sigrap/pkg/response"

	"github.com/gin-gonic/gin"
)

type PurchaseOrderHandler struct {
	orderService service.PurchaseOrderService
	evaluator    *authz.Evaluator
}

// NewPurchaseOrderHandler sets up the routing dependencies for purchase order endpoints
func NewPurchaseOrderHandler(orderService service.PurchaseOrderService, evaluator *authz.Evaluator) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService, evaluator: evaluator}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/purchase-orders")
	{
		orders.GET("", middleware.RequirePermission(h.evaluator, authz.ResourcePurchaseOrder, authz.ActionRead), h.ListOrders)
		orders.GET("/:id", middleware.RequirePermission(h.evaluator, authz.ResourcePurchaseOrder, authz.ActionRead), h.GetOrder)
		orders.GET("/:id/tracking", middleware.RequirePermission(h.evaluator, authz.ResourcePurchaseOrder, authz.ActionRead), h.ListTracking)
		orders.POST("", middleware.RequirePermission(h.evaluator, authz.ResourcePurchaseOrder, authz.ActionCreate), h.CreateOrder)
		orders.POST("/:id/transition", middleware.RequirePermission(h.evaluator, authz.ResourcePurchaseOrder, authz.ActionUpdate), h.Transition)

		orders.POST("/:id/items", middleware.RequirePermission(h.evaluator, authz.ResourcePurchaseOrder, authz.ActionUpdate), h.AddItem)
		orders.PUT("/:id/items/:itemId", middleware.RequirePermission(h.evaluator, authz.ResourcePurchaseOrder, authz.ActionUpdate), h.UpdateItem)
		orders.DELETE("/:id/items/:itemId", middleware.RequirePermission(h.evaluator, authz.ResourcePurchaseOrder, authz.ActionUpdate), h.RemoveItem)
	}
}

// ListOrders handles GET /purchase-orders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        status  query  string  false  "Filter by status"
// @Success      200     {object}  response.Paged{data=[]service.PurchaseOrderResponse}
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)
	orders, total, err := h.orderService.ListOrders(c.Request.Context(), p.Page, p.Limit, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessPaged(http.StatusOK, orders, total, p.Page, p.Limit))
}

// GetOrder handles GET /purchase-orders/:id
// @Summary      Get purchase order by ID
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListTracking handles GET /purchase-orders/:id/tracking
// @Summary      List tracking events
// @Description  Returns the order's tracking timeline ordered by occurrence
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /purchase-orders/{id}/tracking [get]
func (h *PurchaseOrderHandler) ListTracking(c *gin.Context) {
	events, err := h.orderService.ListTrackingEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, events))
}

// CreateOrder handles POST /purchase-orders
// @Summary      Create purchase order
// @Description  Creates a DRAFT order for a supplier, optionally with initial line items
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePurchaseOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	subject := middleware.SubjectFrom(c)
	order, err := h.orderService.CreateOrder(c.Request.Context(), subject.ID.String(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// Transition handles POST /purchase-orders/:id/transition
// @Summary      Transition purchase order
// @Description  Moves the order one step through its lifecycle. Transitions are validated against the closed status table; concurrent transitions on the same order return 409.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Order ID"
// @Param        payload  body      service.TransitionRequest  true  "Transition Payload"
// @Success      200      {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /purchase-orders/{id}/transition [post]
func (h *PurchaseOrderHandler) Transition(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	subject := middleware.SubjectFrom(c)
	order, err := h.orderService.Transition(c.Request.Context(), subject.ID.String(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AddItem handles POST /purchase-orders/:id/items
// @Summary      Add order item
// @Description  Adds a line item to a DRAFT order and recomputes the total
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Order ID"
// @Param        payload  body      service.OrderItemRequest  true  "Item Payload"
// @Success      200      {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders/{id}/items [post]
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	var req service.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdateItem handles PUT /purchase-orders/:id/items/:itemId
// @Summary      Update order item
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Order ID"
// @Param        itemId   path      string                          true  "Item ID"
// @Param        payload  body      service.UpdateOrderItemRequest  true  "Item Payload"
// @Success      200      {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders/{id}/items/{itemId} [put]
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// RemoveItem handles DELETE /purchase-orders/:id/items/:itemId
// @Summary      Remove order item
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Order ID"
// @Param        itemId  path      string  true  "Item ID"
// @Success      200     {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400     {object}  response.Response
// @Router       /purchase-orders/{id}/items/{itemId} [delete]
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	order, err := h.orderService.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
