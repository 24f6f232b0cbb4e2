package handler

import (
	"net/http"
	"strconv"

	"sigrap/internal/authz"
	"sigrap/internal/middleware"
	"sigrap/internal/service"
	"sigrap/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	evaluator     *authz.Evaluator
}

// NewReportHandler sets up the routing dependencies for Report endpoints
func NewReportHandler(reportService service.ReportService, evaluator *authz.Evaluator) *ReportHandler {
	return &ReportHandler{reportService: reportService, evaluator: evaluator}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/dashboard", middleware.RequirePermission(h.evaluator, authz.ResourceReport, authz.ActionRead), h.Dashboard)
		reports.GET("/sales", middleware.RequirePermission(h.evaluator, authz.ResourceReport, authz.ActionRead), h.SalesReport)
		reports.GET("/purchases", middleware.RequirePermission(h.evaluator, authz.ResourceReport, authz.ActionRead), h.PurchasesReport)
		reports.GET("/top-products", middleware.RequirePermission(h.evaluator, authz.ResourceReport, authz.ActionRead), h.TopProducts)
	}
}

// Dashboard handles GET /reports/dashboard
// @Summary      Management dashboard
// @Description  Returns order/payment counts by status, inventory value and low-stock count
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}

// SalesReport handles GET /reports/sales
// @Summary      Daily sales report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from  query  string  false  "Start date YYYY-MM-DD"
// @Param        to    query  string  false  "End date YYYY-MM-DD"
// @Success      200   {object}  response.Response{data=[]service.DailySalesResponse}
// @Router       /reports/sales [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	rows, err := h.reportService.SalesReport(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// PurchasesReport handles GET /reports/purchases
// @Summary      Purchase spend by supplier
// @Description  Aggregates non-cancelled purchase orders per supplier for the period
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from  query  string  false  "Start date YYYY-MM-DD"
// @Param        to    query  string  false  "End date YYYY-MM-DD"
// @Success      200   {object}  response.Response{data=[]service.SupplierPurchasesResponse}
// @Router       /reports/purchases [get]
func (h *ReportHandler) PurchasesReport(c *gin.Context) {
	rows, err := h.reportService.PurchasesReport(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// TopProducts handles GET /reports/top-products
// @Summary      Best-selling products
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from   query  string  false  "Start date YYYY-MM-DD"
// @Param        to     query  string  false  "End date YYYY-MM-DD"
// @Param        limit  query  int     false  "Ranking size (default 10)"
// @Success      200    {object}  response.Response{data=[]service.TopProductResponse}
// @Router       /reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.reportService.TopProducts(c.Request.Context(), c.Query("from"), c.Query("to"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}
