package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageFrom = 0
	defaultPageSize = 10
)

// PathID parses a positive int64 path parameter, writing a 400 on failure.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Path parameter %s must be a positive number", name))
		return 0, false
	}
	return id, true
}

// QueryID parses a required positive int64 query parameter.
func QueryID(c *gin.Context, name string) (int64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Required request parameter '%s' is not present", name))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Parameter %s must be a positive number", name))
		return 0, false
	}
	return id, true
}

// QueryPage reads from (>= 0, default 0) and size (> 0, default 10).
func QueryPage(c *gin.Context) (cqrs.Page, bool) {
	page := cqrs.Page{From: defaultPageFrom, Size: defaultPageSize}
	if raw, ok := c.GetQuery("from"); ok {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			RespondWithError(c, http.StatusBadRequest, "Parameter from must be zero or positive")
			return page, false
		}
		page.From = from
	}
	if raw, ok := c.GetQuery("size"); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			RespondWithError(c, http.StatusBadRequest, "Parameter size must be positive")
			return page, false
		}
		page.Size = size
	}
	return page, true
}

// QueryIDs reads a repeated or comma separated list of ids.
func QueryIDs(c *gin.Context, name string) ([]int64, bool) {
	ids, err := utils.ParseInt64List(c.QueryArray(name))
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Parameter %s: %v", name, err))
		return nil, false
	}
	return ids, true
}

// QueryBool reads an optional boolean; nil when absent.
func QueryBool(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Parameter %s must be a boolean", name))
		return nil, false
	}
	return &v, true
}

// QueryDateTime reads an optional date-time in the wire layout; nil when absent.
func QueryDateTime(c *gin.Context, name string) (*time.Time, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	t, err := utils.ParseDateTime(raw)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Parameter %s: %v", name, err))
		return nil, false
	}
	return &t, true
}
