package importer

import (
	"sync"
	"time"

	"salestrack/internal/config"
	"salestrack/internal/model"
	"salestrack/internal/parser"
)

// RunContext 一次运行的上下文：运行日期、当前月份、报表口径
//
// 运行期间只读；月份加载完成后由协调器一次性写入当月行。
type RunContext struct {
	RunID        string
	RunDate      time.Time
	CurrentMonth string
	Months       []string
	Profile      *config.Profile
	Granularity  model.Granularity

	mu      sync.RWMutex
	current []model.NormalizedRow
}

// NewRunContext 创建运行上下文
func NewRunContext(runID string, runDate time.Time, profile *config.Profile, g model.Granularity) *RunContext {
	return &RunContext{
		RunID:        runID,
		RunDate:      runDate,
		CurrentMonth: parser.CurrentMonthTag(runDate),
		Months:       parser.MonthsToDate(runDate),
		Profile:      profile,
		Granularity:  g,
	}
}

// IsCurrent 是否为当前月份
func (rc *RunContext) IsCurrent(month string) bool {
	return month == rc.CurrentMonth
}

func (rc *RunContext) setCurrentRows(rows []model.NormalizedRow) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.current = rows
}

// CurrentRows 当前月份的规范行（未加载时为空）
func (rc *RunContext) CurrentRows() []model.NormalizedRow {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.current
}
