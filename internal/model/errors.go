package model

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable 月度 Sheet 无法读取（缺失、区域非法、连接失败）
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrNoMonthsLoaded 所有月份均未能加载
var ErrNoMonthsLoaded = errors.New("no months loaded")

// SchemaMismatchError 表头与配置的列布局不一致
type SchemaMismatchError struct {
	Month   string
	Want    int
	Got     int
	Column  int    // 名称不一致时的列序号（0 起）；仅列数不一致时为 -1
	Header  string // 实际表头
	WantCol string // 期望表头
}

func (e *SchemaMismatchError) Error() string {
	if e.Column >= 0 {
		return fmt.Sprintf("schema mismatch in sheet %q: column %d is %q, want %q", e.Month, e.Column+1, e.Header, e.WantCol)
	}
	return fmt.Sprintf("schema mismatch in sheet %q: %d columns, want %d", e.Month, e.Got, e.Want)
}

// OutcomeKind 月份加载结果分类
type OutcomeKind string

const (
	OutcomeLoaded            OutcomeKind = "loaded"
	OutcomeSourceUnavailable OutcomeKind = "source_unavailable"
	OutcomeSchemaMismatch    OutcomeKind = "schema_mismatch"
	OutcomeTimeout           OutcomeKind = "timeout"
)

// MonthOutcome 单月加载结果
type MonthOutcome struct {
	Month        string      `json:"month"`
	Kind         OutcomeKind `json:"kind"`
	Error        string      `json:"error,omitempty"`
	RawRows      int         `json:"rawRows"`
	KeptRows     int         `json:"keptRows"`
	Unattributed int         `json:"unattributed"` // 未能归属业务员的行数
	Coerced      int         `json:"coerced"`      // 非空但无法解析、按 0 处理的数值单元格
}

// Loaded 是否成功加载
func (o MonthOutcome) Loaded() bool {
	return o.Kind == OutcomeLoaded
}
