package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ListMonths 待加载月份及可用性
// GET /api/months?date=2025-03-15
func (h *Handler) ListMonths(c *gin.Context) {
	runDate, err := parseRunDate(c.Query("date"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	months, err := h.coordinator.Months(c.Request.Context(), runDate)
	if err != nil {
		errorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	success(c, months)
}

func parseRunDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
