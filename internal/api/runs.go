package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salestrack/internal/importer"
	"salestrack/internal/model"
	"salestrack/internal/store"
)

// CreateRunRequest 运行请求
type CreateRunRequest struct {
	Profile     string `json:"profile"`
	Granularity string `json:"granularity" binding:"omitempty,oneof=department salesperson indicator indicator_department indicator_salesperson"`
	Date        string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Write       bool   `json:"write"`
}

// CreateRun 立即执行一次汇总
// POST /api/runs
func (h *Handler) CreateRun(c *gin.Context) {
	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.cfg.Profile(req.Profile); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	runDate, err := parseRunDate(req.Date)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if !h.runMu.TryLock() {
		errorResponse(c, http.StatusConflict, "another run is in progress")
		return
	}
	defer h.runMu.Unlock()

	report, err := h.coordinator.Run(c.Request.Context(), importer.RunOptions{
		Profile:     req.Profile,
		Granularity: model.Granularity(req.Granularity),
		RunDate:     runDate,
		Write:       req.Write,
	})
	if errors.Is(err, model.ErrNoMonthsLoaded) {
		h.logger.Warn().Str("run", report.RunID).Msg("run produced no data")
		c.JSON(http.StatusUnprocessableEntity, Response{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    report,
		})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("run failed")
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	success(c, report)
}

// ListRuns 最近运行记录
// GET /api/runs?limit=20
func (h *Handler) ListRuns(c *gin.Context) {
	if h.store == nil {
		errorResponse(c, http.StatusServiceUnavailable, "run log disabled")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	success(c, runs)
}

// GetRun 单次运行详情
// GET /api/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	if h.store == nil {
		errorResponse(c, http.StatusServiceUnavailable, "run log disabled")
		return
	}
	run, err := h.store.GetRun(c.Param("id"))
	if errors.Is(err, store.ErrRunNotFound) {
		errorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	success(c, run)
}
