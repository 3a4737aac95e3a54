package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseLimit reads the optional limit query parameter. Zero means "use the
// service default".
func parseLimit(c *gin.Context) (int, bool) {
	raw, ok := c.GetQuery("limit")
	if !ok || raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		badRequest(c, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}
