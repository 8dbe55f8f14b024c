package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"salestrack/internal/model"
)

// Workbook 基于 excelize 的 .xlsx 工作簿（只读，多次顺序/并发读取安全）
type Workbook struct {
	path string
	mu   sync.Mutex
	file *excelize.File
}

// OpenWorkbook 打开 .xlsx 工作簿
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", model.ErrSourceUnavailable, path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// FetchSheet 读取指定 Sheet 的区域
func (w *Workbook) FetchSheet(ctx context.Context, sheet string, rng CellRange) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found in %s", model.ErrSourceUnavailable, sheet, w.path)
	}

	// 读取存储值，不受千分位/货币/百分比等数字格式影响
	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", model.ErrSourceUnavailable, sheet, err)
	}
	return rng.Clip(rows), nil
}

// Sheets 工作簿内全部 Sheet 名
func (w *Workbook) Sheets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList(), nil
}

// Close 关闭工作簿
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
