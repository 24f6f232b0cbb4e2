package handler

import (
	"sigrap/internal/apperr"
	"sigrap/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a typed service error to its HTTP status and writes the
// standard error envelope.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	c.JSON(status, response.Error(status, err.Error()))
}
