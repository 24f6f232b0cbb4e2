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

type SaleHandler struct {
	saleService service.SaleService
	evaluator   *authz.Evaluator
}

// NewSaleHandler sets up the routing dependencies for Sale endpoints
func NewSaleHandler(saleService service.SaleService, evaluator *authz.Evaluator) *SaleHandler {
	return &SaleHandler{saleService: saleService, evaluator: evaluator}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.GET("", middleware.RequirePermission(h.evaluator, authz.ResourceSale, authz.ActionRead), h.ListSales)
		sales.GET("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceSale, authz.ActionRead), h.GetSale)
		sales.POST("", middleware.RequirePermission(h.evaluator, authz.ResourceSale, authz.ActionCreate), h.CreateSale)
	}
}

// ListSales handles GET /sales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Items per page"
// @Success      200    {object}  response.Paged{data=[]service.SaleResponse}
// @Router       /sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	p := pagination.Parse(c)
	sales, total, err := h.saleService.ListSales(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessPaged(http.StatusOK, sales, total, p.Page, p.Limit))
}

// GetSale handles GET /sales/:id
// @Summary      Get sale by ID
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=service.SaleResponse}
// @Failure      404  {object}  response.Response
// @Router       /sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// CreateSale handles POST /sales
// @Summary      Record a sale
// @Description  Records a sale and atomically decrements stock; any line with insufficient stock rejects the whole sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSaleRequest  true  "Create Sale Payload"
// @Success      201      {object}  response.Response{data=service.SaleResponse}
// @Failure      400      {object}  response.Response
// @Router       /sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	subject := middleware.SubjectFrom(c)
	sale, err := h.saleService.CreateSale(c.Request.Context(), subject.ID.String(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}
