package importer

import (
	"context"
	"fmt"
	"time"

	"salestrack/internal/parser"
)

// MonthAvailability 月份 Sheet 是否存在于数据源
type MonthAvailability struct {
	Month     string `json:"month"`
	Available bool   `json:"available"`
	Current   bool   `json:"current"`
}

// Months 运行日期对应的待加载月份及其可用性
func (c *Coordinator) Months(ctx context.Context, runDate time.Time) ([]MonthAvailability, error) {
	if runDate.IsZero() {
		runDate = c.now()
	}
	sheets, err := c.src.Sheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	present := make(map[string]struct{}, len(sheets))
	for _, s := range sheets {
		present[s] = struct{}{}
	}

	current := parser.CurrentMonthTag(runDate)
	months := parser.MonthsToDate(runDate)
	out := make([]MonthAvailability, 0, len(months))
	for _, m := range months {
		_, ok := present[m]
		out = append(out, MonthAvailability{Month: m, Available: ok, Current: m == current})
	}
	return out, nil
}
