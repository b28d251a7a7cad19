package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"lovelog/internal/schemas"
)

// ParsePageParams extracts the 1-based 'page' and 'limit' parameters from the
// request's query parameters. It provides default values and ensures that the
// returned values are positive.
func ParsePageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.Query(PageParamKey))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query(LimitParamKey))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	return page, limit
}

// TotalPages returns ceil(total/limit), the number of pages needed to hold
// total records at the given page size.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewPaginationDTO assembles the pagination block returned alongside every
// paginated list.
func NewPaginationDTO(page, limit, total int) schemas.PaginationDTO {
	return schemas.PaginationDTO{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: TotalPages(total, limit),
	}
}
