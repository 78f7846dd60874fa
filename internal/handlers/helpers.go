package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"habitboard/internal/services"
)

// getUserID reads the authenticated identity set by the auth middleware.
// Tolerant of int / int64 / float64 / string context values.
func getUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage/IO failure and becomes a 500.
func respondError(c *gin.Context, op string, err error) {
	var status int
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	default:
		log.Printf("[%s][err] %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

const dateLayout = "2006-01-02"

// parseDateParam reads ?date=YYYY-MM-DD, defaulting to today in loc.
func parseDateParam(c *gin.Context, loc *time.Location) (time.Time, error) {
	if v, ok := c.GetQuery("date"); ok && v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, err
		}
		return d, nil
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}
