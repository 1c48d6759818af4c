package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fleettrack/pkg/response"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds validated limit/skip parameters.
type Params struct {
	Limit int
	Skip  int
}

// Parse extracts and clamps limit/skip from query parameters.
func Parse(c *gin.Context) Params {
	return ParseWithDefaults(c, DefaultLimit, MaxLimit)
}

// ParseWithDefaults is Parse with caller-chosen default and ceiling, for
// endpoints like telemetry that allow larger windows.
func ParseWithDefaults(c *gin.Context, defaultLimit, maxLimit int) Params {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))

	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if skip < 0 {
		skip = 0
	}

	return Params{Limit: limit, Skip: skip}
}

// Build produces the response descriptor for a page of returnedCount items.
// hasMore holds exactly when skip + returnedCount < total.
func Build(total int64, p Params, returnedCount int) response.Pagination {
	return response.Pagination{
		Total:   total,
		Limit:   p.Limit,
		Skip:    p.Skip,
		HasMore: int64(p.Skip+returnedCount) < total,
	}
}
