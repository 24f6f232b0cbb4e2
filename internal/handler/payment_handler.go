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

type PaymentHandler struct {
	paymentService service.PaymentService
	evaluator      *authz.Evaluator
}

// NewPaymentHandler sets up the routing dependencies for Payment endpoints
func NewPaymentHandler(paymentService service.PaymentService, evaluator *authz.Evaluator) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, evaluator: evaluator}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/payments")
	{
		payments.GET("", middleware.RequirePermission(h.evaluator, authz.ResourcePayment, authz.ActionRead), h.ListPayments)
		payments.GET("/order/:orderId", middleware.RequirePermission(h.evaluator, authz.ResourcePayment, authz.ActionRead), h.GetPaymentByOrder)
		payments.GET("/:id", middleware.RequirePermission(h.evaluator, authz.ResourcePayment, authz.ActionRead), h.GetPayment)
		payments.PUT("/:id/method", middleware.RequirePermission(h.evaluator, authz.ResourcePayment, authz.ActionUpdate), h.UpdateMethod)
	}
}

// ListPayments handles GET /payments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        status  query  string  false  "Filter by status"
// @Success      200     {object}  response.Paged{data=[]service.PaymentResponse}
// @Router       /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	p := pagination.Parse(c)
	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), p.Page, p.Limit, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessPaged(http.StatusOK, payments, total, p.Page, p.Limit))
}

// GetPayment handles GET /payments/:id
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=service.PaymentResponse}
// @Failure      404  {object}  response.Response
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// GetPaymentByOrder handles GET /payments/order/:orderId
// @Summary      Get the payment attached to a purchase order
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Purchase order ID"
// @Success      200      {object}  response.Response{data=service.PaymentResponse}
// @Failure      404      {object}  response.Response
// @Router       /payments/order/{orderId} [get]
func (h *PaymentHandler) GetPaymentByOrder(c *gin.Context) {
	payment, err := h.paymentService.GetPaymentByOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// UpdateMethod handles PUT /payments/:id/method
// @Summary      Update payment method
// @Description  Changes the payment method; status only advances through order transitions
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Payment ID"
// @Param        payload  body      service.UpdatePaymentMethodRequest  true  "Method Payload"
// @Success      200      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response
// @Router       /payments/{id}/method [put]
func (h *PaymentHandler) UpdateMethod(c *gin.Context) {
	var req service.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.paymentService.UpdatePaymentMethod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}
