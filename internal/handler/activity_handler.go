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

type ActivityHandler struct {
	activityService service.ActivityService
	evaluator       *authz.Evaluator
}

// NewActivityHandler sets up the routing dependencies for the audit trail endpoint
func NewActivityHandler(activityService service.ActivityService, evaluator *authz.Evaluator) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, evaluator: evaluator}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity",
		middleware.RequirePermission(h.evaluator, authz.ResourceActivityLog, authz.ActionRead), h.ListActivity)
}

// ListActivity handles GET /activity
// @Summary      List activity log
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        action  query  string  false  "Filter by action"
// @Success      200     {object}  response.Paged{data=[]service.ActivityLogResponse}
// @Router       /activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	p := pagination.Parse(c)
	logs, total, err := h.activityService.ListActivity(c.Request.Context(), p.Page, p.Limit, c.Query("action"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessPaged(http.StatusOK, logs, total, p.Page, p.Limit))
}
