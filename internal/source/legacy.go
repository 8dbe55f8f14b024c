package source

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/extrame/xls"

	"salestrack/internal/model"
)

// LegacyWorkbook 旧版 .xls 工作簿（部分部门仍导出 97-2003 格式）
type LegacyWorkbook struct {
	path   string
	mu     sync.Mutex
	book   *xls.WorkBook
	closer io.Closer
}

// OpenLegacyWorkbook 打开 .xls 工作簿
func OpenLegacyWorkbook(path string) (*LegacyWorkbook, error) {
	book, closer, err := xls.OpenWithCloser(path, "utf-8")
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("%w: open workbook %s: %v", model.ErrSourceUnavailable, path, err)
	}
	return &LegacyWorkbook{path: path, book: book, closer: closer}, nil
}

// FetchSheet 读取指定 Sheet 的区域
func (w *LegacyWorkbook) FetchSheet(ctx context.Context, sheet string, rng CellRange) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var ws *xls.WorkSheet
	for i := 0; i < w.book.NumSheets(); i++ {
		if s := w.book.GetSheet(i); s != nil && s.Name == sheet {
			ws = s
			break
		}
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: sheet %q not found in %s", model.ErrSourceUnavailable, sheet, w.path)
	}

	// 只读取到区域末行即可
	maxRow := int(ws.MaxRow)
	if maxRow > rng.ToRow-1 {
		maxRow = rng.ToRow - 1
	}
	rows := make([][]string, 0, maxRow+1)
	for i := 0; i <= maxRow; i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, legacyCells(row))
	}
	return rng.Clip(rows), nil
}

// legacyCells 行内单元格文本，去掉行尾空单元格
//
// LastCol 对带 ROW 记录的行是末列+1，对只有单元格记录的行是末列下标，统一按闭区间读取。
func legacyCells(row *xls.Row) []string {
	cells := make([]string, row.LastCol()+1)
	for c := range cells {
		cells[c] = row.Col(c)
	}
	end := len(cells)
	for end > 0 && cells[end-1] == "" {
		end--
	}
	return cells[:end]
}

// Sheets 工作簿内全部 Sheet 名
func (w *LegacyWorkbook) Sheets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	names := make([]string, 0, w.book.NumSheets())
	for i := 0; i < w.book.NumSheets(); i++ {
		if s := w.book.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	return names, nil
}

// Close 关闭工作簿
func (w *LegacyWorkbook) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
