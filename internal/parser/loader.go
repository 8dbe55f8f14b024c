package parser

import (
	"context"
	"fmt"

	"salestrack/internal/model"
	"salestrack/internal/source"
)

// Loader 月度记录加载器
type Loader struct {
	src           source.Source
	rng           source.CellRange
	layout        *Layout
	verifyHeaders bool
}

// NewLoader 创建加载器
func NewLoader(src source.Source, rng source.CellRange, layout *Layout, verifyHeaders bool) *Loader {
	return &Loader{
		src:           src,
		rng:           rng,
		layout:        layout,
		verifyHeaders: verifyHeaders,
	}
}

// LoadMonth 读取一个月份 Sheet，第一行为表头，返回按原始行序排列的记录
func (l *Loader) LoadMonth(ctx context.Context, month string) ([]model.RawRow, error) {
	rows, err := l.src.FetchSheet(ctx, month, l.rng)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", model.ErrSourceUnavailable, month)
	}

	// 列数校验必须在按位置分配之前完成
	header := rows[0]
	if err := l.layout.Validate(month, header, l.verifyHeaders); err != nil {
		return nil, err
	}

	records := make([]model.RawRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		// 行号相对区域首行计算：表头为区域首行
		records = append(records, l.layout.Assign(l.rng.FromRow+i+1, cells))
	}
	return records, nil
}
