package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// ParsePaginationParams reads 1-based page and pageSize query parameters,
// clamping them to sane bounds.
func ParsePaginationParams(c *gin.Context) (page, pageSize int) {
	page = DefaultPage
	if pageStr := c.Query("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed >= 1 {
			page = parsed
		}
	}

	pageSize = DefaultPageSize
	if sizeStr := c.Query("pageSize"); sizeStr != "" {
		if parsed, err := strconv.Atoi(sizeStr); err == nil && parsed >= 1 {
			pageSize = parsed
		}
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return page, pageSize
}
