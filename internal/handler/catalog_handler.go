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

type CatalogHandler struct {
	catalogService service.CatalogService
	evaluator      *authz.Evaluator
}

// NewCatalogHandler sets up the routing dependencies for product and category endpoints
func NewCatalogHandler(catalogService service.CatalogService, evaluator *authz.Evaluator) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, evaluator: evaluator}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", middleware.RequirePermission(h.evaluator, authz.ResourceCategory, authz.ActionRead), h.ListCategories)
		categories.POST("", middleware.RequirePermission(h.evaluator, authz.ResourceCategory, authz.ActionCreate), h.CreateCategory)
		categories.PUT("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceCategory, authz.ActionUpdate), h.UpdateCategory)
		categories.DELETE("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceCategory, authz.ActionDelete), h.DeleteCategory)
	}

	products := router.Group("/products")
	{
		products.GET("", middleware.RequirePermission(h.evaluator, authz.ResourceProduct, authz.ActionRead), h.ListProducts)
		products.GET("/low-stock", middleware.RequirePermission(h.evaluator, authz.ResourceProduct, authz.ActionRead), h.ListLowStock)
		products.GET("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceProduct, authz.ActionRead), h.GetProduct)
		products.POST("", middleware.RequirePermission(h.evaluator, authz.ResourceProduct, authz.ActionCreate), h.CreateProduct)
		products.PUT("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceProduct, authz.ActionUpdate), h.UpdateProduct)
		products.POST("/:id/stock", middleware.RequirePermission(h.evaluator, authz.ResourceProduct, authz.ActionUpdate), h.AdjustStock)
		products.DELETE("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceProduct, authz.ActionDelete), h.DeleteProduct)
	}
}

// ListCategories handles GET /categories
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.CategoryResponse}
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// CreateCategory handles POST /categories
// @Summary      Create category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCategoryRequest  true  "Create Category Payload"
// @Success      201      {object}  response.Response{data=service.CategoryResponse}
// @Failure      400      {object}  response.Response
// @Router       /categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// UpdateCategory handles PUT /categories/:id
// @Summary      Update category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Category ID"
// @Param        payload  body      service.UpdateCategoryRequest  true  "Update Category Payload"
// @Success      200      {object}  response.Response{data=service.CategoryResponse}
// @Failure      404      {object}  response.Response
// @Router       /categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// DeleteCategory handles DELETE /categories/:id
// @Summary      Delete category
// @Description  Removes an empty category; categories with products are rejected
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "category deleted"}))
}

// ListProducts handles GET /products
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        search  query  string  false  "Search by name or SKU"
// @Success      200     {object}  response.Paged{data=[]service.ProductResponse}
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	p := pagination.Parse(c)
	products, total, err := h.catalogService.ListProducts(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessPaged(http.StatusOK, products, total, p.Page, p.Limit))
}

// ListLowStock handles GET /products/low-stock
// @Summary      List low-stock products
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ProductResponse}
// @Router       /products/low-stock [get]
func (h *CatalogHandler) ListLowStock(c *gin.Context) {
	products, err := h.catalogService.ListLowStockProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetProduct handles GET /products/:id
// @Summary      Get product by ID
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      404  {object}  response.Response
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// CreateProduct handles POST /products
// @Summary      Create product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	subject := middleware.SubjectFrom(c)
	product, err := h.catalogService.CreateProduct(c.Request.Context(), subject.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// UpdateProduct handles PUT /products/:id
// @Summary      Update product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=service.ProductResponse}
// @Failure      404      {object}  response.Response
// @Router       /products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	subject := middleware.SubjectFrom(c)
	product, err := h.catalogService.UpdateProduct(c.Request.Context(), subject.ID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// AdjustStock handles POST /products/:id/stock
// @Summary      Adjust product stock
// @Description  Applies a signed stock delta; the result may never go below zero
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Product ID"
// @Param        payload  body      service.AdjustStockRequest true  "Stock Adjustment Payload"
// @Success      200      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /products/{id}/stock [post]
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	subject := middleware.SubjectFrom(c)
	product, err := h.catalogService.AdjustStock(c.Request.Context(), subject.ID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct handles DELETE /products/:id
// @Summary      Delete product
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	subject := middleware.SubjectFrom(c)
	if err := h.catalogService.DeleteProduct(c.Request.Context(), subject.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "product deleted"}))
}
