package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// pageSlice cuts one page out of an already loaded collection.
func pageSlice[T any](items []T, params utils.PaginationParams) []T {
	if params.Offset >= len(items) {
		return []T{}
	}
	end := params.Offset + params.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[params.Offset:end]
}
