package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/salon-api/pkg/httputil"
	"github.com/jwalitptl/salon-api/pkg/validator"
)

// ParseID reads the :id path parameter. On failure it answers 400 and
// returns false.
func ParseID(c *gin.Context, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondWithBadRequest(c, "invalid "+resource+" ID")
		return 0, false
	}
	return id, true
}

// BindJSON decodes and validates the request body. On failure it answers 400
// and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		httputil.RespondWithBadRequest(c, validator.Message(err))
		return false
	}
	return true
}

// QueryID reads an optional positive integer query parameter.
func QueryID(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondWithBadRequest(c, "invalid "+key)
		return 0, false
	}
	return id, true
}
