// Package pagination normalizes the page/limit query parameters shared by
// every list endpoint.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// List endpoints serve 20 rows by default and never more than 100 per page.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a sanitized page request. Offset is precomputed so repositories
// can pass it straight to the query.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse reads page and limit from the request query. Missing, malformed or
// non-positive values fall back to the defaults; oversized limits are clamped.
func Parse(c *gin.Context) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	switch {
	case err != nil || limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
