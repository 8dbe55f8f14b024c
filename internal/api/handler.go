// Package api 提供汇总运行的 HTTP 接口。
package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"salestrack/internal/config"
	"salestrack/internal/importer"
	"salestrack/internal/store"
)

// Handler API 处理器
type Handler struct {
	cfg         *config.AppConfig
	coordinator *importer.Coordinator
	store       *store.Store
	logger      zerolog.Logger

	// 同一时间只允许一次运行（输出工作簿不支持并发写）
	runMu sync.Mutex
}

// NewHandler 创建 API 处理器；store 可为空
func NewHandler(cfg *config.AppConfig, coordinator *importer.Coordinator, store *store.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		cfg:         cfg,
		coordinator: coordinator,
		store:       store,
		logger:      logger,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/months", h.ListMonths)

	router.POST("/runs", h.CreateRun)
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id", h.GetRun)
}
