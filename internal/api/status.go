package api

import (
	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态
type StatusResponse struct {
	ActiveProfile string   `json:"activeProfile"`
	Profiles      []string `json:"profiles"`
	Workbook      string   `json:"workbook"`
	Output        string   `json:"output"`
	RunLog        bool     `json:"runLog"`
	LastRunID     string   `json:"lastRunId,omitempty"`
	LastRunStatus string   `json:"lastRunStatus,omitempty"`
}

// GetStatus 系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		ActiveProfile: h.cfg.ActiveProfile,
		Profiles:      h.cfg.ProfileNames(),
		Workbook:      h.cfg.Source.Workbook,
		Output:        h.cfg.Output.Workbook,
	}
	if h.store != nil && h.store.Ping() == nil {
		resp.RunLog = true
		if runs, err := h.store.ListRuns(1); err == nil && len(runs) > 0 {
			resp.LastRunID = runs[0].ID
			resp.LastRunStatus = runs[0].Status
		}
	}
	success(c, resp)
}
